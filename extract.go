package docref

import (
	"strconv"
	"time"
)

// RefMap collects the references found during one decomposition, keyed by
// subscription key. Every handle in the map carries a converter: its own when
// it came with one, otherwise the caller's default.
type RefMap map[string]*Reference

// ExtractOption configures a single Extract call.
type ExtractOption func(*extractConfig)

type extractConfig struct {
	converter Converter
	logger    ExtractLogger
}

// WithConverter sets the default adapter applied to references that carry
// none of their own.
func WithConverter(converter Converter) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.converter = converter
	}
}

// WithExtractLogger attaches a logger that observes each walk.
func WithExtractLogger(logger ExtractLogger) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.logger = logger
	}
}

func applyExtractOptions(opts []ExtractOption) extractConfig {
	cfg := extractConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.converter == nil {
		cfg.converter = DefaultConverter{}
	}
	if cfg.logger == nil {
		cfg.logger = noopExtractLogger{}
	}
	return cfg
}

// Extract decomposes doc against its previously resolved version. It returns
// a reference-free copy of the data tree alongside the references it found:
// each reference position becomes either the target path string (not yet
// bound) or the old tree's value at that position (already bound, identity
// preserved), and refs maps the position's subscription key to the handle.
//
// doc is expected to be a Document (raw map[string]any payloads are adopted);
// anything else passes through unchanged with an empty RefMap. oldDoc may be
// nil. subs is read, never mutated; the caller serializes calls per document.
// Extract never fails: shapes it does not recognize are copied as-is.
func Extract(doc, oldDoc any, subs Subscriptions, opts ...ExtractOption) (any, RefMap) {
	cfg := applyExtractOptions(opts)
	refs := RefMap{}

	document, ok := documentValue(doc)
	if !ok {
		return doc, refs
	}

	start := time.Now()
	w := &walker{
		subs:      subs,
		index:     PathIndex(subs),
		converter: cfg.converter,
	}
	data := w.document(document, documentOrEmpty(oldDoc), "", refs)
	cfg.logger.LogExtraction(ExtractEvent{
		Path:     extractionPath(document),
		Fields:   document.Len(),
		Refs:     len(refs),
		Duration: time.Since(start),
	})
	return data, refs
}

type walker struct {
	subs      Subscriptions
	index     map[string]any
	converter Converter
}

// document walks one container level. out nodes are allocated fresh, one per
// input node; values reached through bound reference slots reuse the old
// tree's instances, which is what keeps repeated decomposition of the same
// shape identity-stable.
func (w *walker) document(doc, old *Document, path string, refs RefMap) *Document {
	out := NewDocument()
	// the hidden record travels before any field work so field writes can
	// never collide with it
	out.SetMeta(doc.Meta())

	doc.Range(func(name string, value any) bool {
		switch Classify(value) {
		case KindNil:
			out.Set(name, nil)
		case KindOpaque:
			out.Set(name, value)
		case KindReference:
			ref := value.(*Reference)
			subKey := path + name
			if _, bound := w.subs[subKey]; bound {
				prev, _ := old.Get(name)
				out.Set(name, prev)
			} else {
				out.Set(name, ref.Path())
			}
			refs[subKey] = w.seal(ref)
		case KindArray:
			out.Set(name, w.array(arrayValue(value), path+name+".", refs))
		case KindDocument:
			nested, _ := documentValue(value)
			out.Set(name, w.document(nested, documentAt(old, name), path+name+".", refs))
		default:
			out.Set(name, value)
		}
		return true
	})
	return out
}

// array walks an indexed container. Elements whose target path is already
// resolved in the path index are seated first; the per-index pass then treats
// the partially seated output as its own old scaffolding, so seated slots are
// never overwritten and input holes stay holes.
func (w *walker) array(arr *Array, path string, refs RefMap) *Array {
	out := NewArray(arr.Len())
	for i := 0; i < arr.Len(); i++ {
		elem, ok := arr.Get(i)
		if !ok {
			continue
		}
		if ref, isRef := elem.(*Reference); isRef && ref != nil {
			if resolved, hit := w.index[ref.Path()]; hit {
				out.Set(i, resolved)
			}
		}
	}
	for i := 0; i < arr.Len(); i++ {
		elem, ok := arr.Get(i)
		if !ok {
			continue
		}
		name := strconv.Itoa(i)
		switch Classify(elem) {
		case KindNil:
			out.Set(i, nil)
		case KindOpaque:
			out.Set(i, elem)
		case KindReference:
			ref := elem.(*Reference)
			subKey := path + name
			if !out.Has(i) {
				if _, bound := w.subs[subKey]; bound {
					// bound but not resolved yet, the slot is claimed
					// with nil until the target document arrives
					out.Set(i, nil)
				} else {
					out.Set(i, ref.Path())
				}
			}
			refs[subKey] = w.seal(ref)
		case KindArray:
			out.Set(i, w.array(arrayValue(elem), path+name+".", refs))
		case KindDocument:
			nested, _ := documentValue(elem)
			out.Set(i, w.document(nested, NewDocument(), path+name+".", refs))
		default:
			out.Set(i, elem)
		}
	}
	return out
}

// seal attaches the default converter to handles that carry none, exactly
// once, before they reach the RefMap.
func (w *walker) seal(ref *Reference) *Reference {
	if ref.Converter() != nil {
		return ref
	}
	return ref.WithConverter(w.converter)
}

func documentValue(value any) (*Document, bool) {
	switch typed := value.(type) {
	case *Document:
		if typed == nil {
			return nil, false
		}
		return typed, true
	case map[string]any:
		return DocumentFromMap(typed), true
	default:
		return nil, false
	}
}

func documentOrEmpty(value any) *Document {
	if doc, ok := documentValue(value); ok {
		return doc
	}
	return NewDocument()
}

func documentAt(doc *Document, name string) *Document {
	value, ok := doc.Get(name)
	if !ok {
		return NewDocument()
	}
	return documentOrEmpty(value)
}

func arrayValue(value any) *Array {
	switch typed := value.(type) {
	case *Array:
		return typed
	case []any:
		return ArrayOf(typed...)
	default:
		return NewArray(0)
	}
}

func extractionPath(doc *Document) string {
	meta := doc.Meta()
	if meta.Ref != nil {
		return meta.Ref.Path()
	}
	return meta.ID
}
