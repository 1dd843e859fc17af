package docstore

import (
	docref "github.com/goliatone/go-docref"
)

// DocumentSnapshot is one observation of a stored document. It implements
// docref.Snapshot; absent documents report Exists false with nil data.
type DocumentSnapshot struct {
	id     string
	path   string
	exists bool
	data   map[string]any
}

// NewSnapshot constructs a snapshot over already-detached data. The store
// deep-copies fields before handing them here; converters may keep the map.
func NewSnapshot(path string, data map[string]any, exists bool) *DocumentSnapshot {
	return &DocumentSnapshot{
		id:     documentID(path),
		path:   path,
		exists: exists,
		data:   data,
	}
}

// Exists implements docref.Snapshot.
func (s *DocumentSnapshot) Exists() bool {
	return s != nil && s.exists
}

// ID implements docref.Snapshot.
func (s *DocumentSnapshot) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Path implements docref.Snapshot.
func (s *DocumentSnapshot) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Data implements docref.Snapshot. The map is detached from the store;
// mutating it never writes back.
func (s *DocumentSnapshot) Data() map[string]any {
	if s == nil || !s.exists {
		return nil
	}
	return s.data
}

// Metadata implements docref.Snapshot. The memory store is authoritative, so
// reads are never pending and never served from a cache.
func (s *DocumentSnapshot) Metadata() map[string]any {
	if s == nil {
		return nil
	}
	return map[string]any{
		"hasPendingWrites": false,
		"fromCache":        false,
	}
}

// Document decodes the snapshot through the default converter.
func (s *DocumentSnapshot) Document() *docref.Document {
	return docref.DefaultConverter{}.FromStorage(s)
}
