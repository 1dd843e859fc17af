package treestore

import (
	"fmt"
	"strconv"

	docref "github.com/goliatone/go-docref"
)

// Normalize renders a node snapshot into the document model. Keyed node
// values spread into enumerable fields; scalar payloads ride in the metadata
// record's value slot so the enumerable surface stays uniform. Either way
// the node's key, priority, location, and child count are folded into the
// metadata record. Absent nodes yield nil.
func Normalize(snap Snapshot) *docref.Document {
	if snap == nil || !snap.Exists() {
		return nil
	}

	var doc *docref.Document
	switch value := snap.Value().(type) {
	case map[string]any:
		doc = docref.DocumentFromMap(value)
	case *docref.Document:
		doc = value.Clone()
	default:
		doc = docref.NewDocument()
		doc.MergeMeta(docref.Meta{Value: value})
	}

	doc.MergeMeta(docref.Meta{
		Key:      snap.Key(),
		Priority: snap.Priority(),
		Ref:      docref.NewReference(snap.Path()),
		Size:     snap.ChildCount(),
	})
	return doc
}

// IndexForKey locates the first record whose key matches key, comparing
// against the normalized string form: strings as-is, numeric kinds in
// decimal, nil as the empty string. Returns -1 when no record matches.
func IndexForKey(records []*docref.Document, key any) int {
	want := keyString(key)
	for i, record := range records {
		if record == nil {
			continue
		}
		if record.Meta().Key == want {
			return i
		}
	}
	return -1
}

func keyString(key any) string {
	switch typed := key.(type) {
	case nil:
		return ""
	case string:
		return typed
	case int:
		return strconv.Itoa(typed)
	case int8:
		return strconv.FormatInt(int64(typed), 10)
	case int16:
		return strconv.FormatInt(int64(typed), 10)
	case int32:
		return strconv.FormatInt(int64(typed), 10)
	case int64:
		return strconv.FormatInt(typed, 10)
	case uint:
		return strconv.FormatUint(uint64(typed), 10)
	case uint8:
		return strconv.FormatUint(uint64(typed), 10)
	case uint16:
		return strconv.FormatUint(uint64(typed), 10)
	case uint32:
		return strconv.FormatUint(uint64(typed), 10)
	case uint64:
		return strconv.FormatUint(typed, 10)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
