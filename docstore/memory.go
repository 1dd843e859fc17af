package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	docref "github.com/goliatone/go-docref"
	"github.com/goliatone/go-docref/pkg/activity"
	"github.com/google/uuid"
)

// Memory is a mutex-guarded in-memory Store for tests and examples. It keeps
// deep copies on both sides of every operation, so callers can never reach
// the stored trees through shared maps.
type Memory struct {
	mu      sync.RWMutex
	records map[string]map[string]any

	writeRule string
	ruleOpts  []docref.RuleOption
	emitter   *activity.Emitter
}

// MemoryOption configures a Memory store on construction.
type MemoryOption func(*Memory)

// WithWriteRule guards every Set/Add/Update with a rule evaluated against
// the incoming document. A falsy verdict or an evaluation failure rejects
// the write. ruleOpts pick the engine, cache, and functions per the root
// package's rule options.
func WithWriteRule(rule string, ruleOpts ...docref.RuleOption) MemoryOption {
	return func(m *Memory) {
		m.writeRule = rule
		m.ruleOpts = ruleOpts
	}
}

// WithHooks wires lifecycle hooks; events flow through an Emitter with the
// default documents channel.
func WithHooks(hooks activity.Hooks) MemoryOption {
	return func(m *Memory) {
		m.emitter = activity.NewEmitter(hooks, activity.Config{Enabled: true})
	}
}

// NewMemory constructs an empty memory store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{records: map[string]map[string]any{}}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Get returns a snapshot of the document at path. Absent documents come back
// as snapshots with Exists false; only invalid paths error.
func (m *Memory) Get(_ context.Context, path string) (docref.Snapshot, error) {
	if _, err := splitDocumentPath(path); err != nil {
		return nil, err
	}
	m.mu.RLock()
	fields, ok := m.records[path]
	var data map[string]any
	if ok {
		data = docref.CloneValue(fields).(map[string]any)
	}
	m.mu.RUnlock()
	return NewSnapshot(path, data, ok), nil
}

// Set writes fields at path, replacing the stored document unless
// MergeFields is given.
func (m *Memory) Set(ctx context.Context, path string, fields map[string]any, opts ...WriteOption) error {
	if _, err := splitDocumentPath(path); err != nil {
		return err
	}
	cfg := applyWriteOptions(opts)

	m.mu.Lock()
	stored := fields
	if cfg.merge {
		if existing, ok := m.records[path]; ok {
			stored = mergeFields(existing, fields)
		}
	}
	if err := m.checkWriteRule(path, stored); err != nil {
		m.mu.Unlock()
		return err
	}
	m.records[path] = docref.CloneValue(stored).(map[string]any)
	m.mu.Unlock()

	m.emit(ctx, activity.BuildDocumentSetEvent(activity.DocumentEventInput{
		Store:    "docstore",
		Path:     path,
		NewValue: docref.CloneValue(stored),
		Metadata: map[string]any{"merge": cfg.merge},
	}))
	return nil
}

// Add mints a uuid identifier under collection, stores fields there, and
// returns the new document's path.
func (m *Memory) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if _, err := splitCollectionPath(collection); err != nil {
		return "", err
	}
	path := collection + "/" + uuid.NewString()

	m.mu.Lock()
	if err := m.checkWriteRule(path, fields); err != nil {
		m.mu.Unlock()
		return "", err
	}
	m.records[path] = docref.CloneValue(fields).(map[string]any)
	m.mu.Unlock()

	m.emit(ctx, activity.BuildDocumentAddedEvent(activity.DocumentEventInput{
		Store:    "docstore",
		Path:     path,
		NewValue: docref.CloneValue(fields),
	}))
	return path, nil
}

// Update deep-merges fields into the document at path and fails with
// ErrNotFound when the document does not exist.
func (m *Memory) Update(ctx context.Context, path string, fields map[string]any) error {
	if _, err := splitDocumentPath(path); err != nil {
		return err
	}

	m.mu.Lock()
	existing, ok := m.records[path]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	stored := mergeFields(existing, fields)
	if err := m.checkWriteRule(path, stored); err != nil {
		m.mu.Unlock()
		return err
	}
	m.records[path] = stored
	m.mu.Unlock()

	m.emit(ctx, activity.BuildDocumentSetEvent(activity.DocumentEventInput{
		Store:    "docstore",
		Path:     path,
		NewValue: docref.CloneValue(stored),
		Metadata: map[string]any{"merge": true},
	}))
	return nil
}

// Delete removes the document at path. Deleting an absent document is a
// no-op, mirroring remote store semantics.
func (m *Memory) Delete(ctx context.Context, path string) error {
	if _, err := splitDocumentPath(path); err != nil {
		return err
	}

	m.mu.Lock()
	old, existed := m.records[path]
	var oldCopy any
	if existed {
		oldCopy = docref.CloneValue(old)
		delete(m.records, path)
	}
	m.mu.Unlock()

	if existed {
		m.emit(ctx, activity.BuildDocumentRemovedEvent(activity.DocumentEventInput{
			Store:    "docstore",
			Path:     path,
			OldValue: oldCopy,
		}))
	}
	return nil
}

// Resolve fetches and decodes the document a reference points at, using the
// reference's converter when it carries one. Absent targets yield nil.
func (m *Memory) Resolve(ctx context.Context, ref *docref.Reference) (*docref.Document, error) {
	if ref == nil {
		return nil, nil
	}
	snap, err := m.Get(ctx, ref.Path())
	if err != nil {
		return nil, err
	}
	converter := ref.Converter()
	if converter == nil {
		converter = docref.DefaultConverter{}
	}
	return converter.FromStorage(snap), nil
}

// Len reports the number of stored documents.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *Memory) checkWriteRule(path string, fields map[string]any) error {
	if m.writeRule == "" {
		return nil
	}
	doc := documentAt(path, fields)
	ok, err := docref.Match(doc, m.writeRule, m.ruleOpts...)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteRejected, path, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrWriteRejected, path)
	}
	return nil
}

func (m *Memory) emit(ctx context.Context, event activity.Event) {
	if !m.emitter.Enabled() {
		return
	}
	// hook failures never fail the write
	_ = m.emitter.Emit(ctx, event)
}

// documentAt decodes raw fields into a Document decorated with its location,
// the shape write rules and queries evaluate against.
func documentAt(path string, fields map[string]any) *docref.Document {
	doc := docref.DocumentFromMap(fields)
	doc.MergeMeta(docref.Meta{
		ID:  documentID(path),
		Ref: docref.NewReference(path),
	})
	return doc
}

// collectionMembers returns the paths of the direct documents of collection,
// sorted. The caller must hold at least a read lock.
func (m *Memory) collectionMembers(collection string) []string {
	prefix := collection + "/"
	var paths []string
	for path := range m.records {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		if strings.Contains(path[len(prefix):], "/") {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
