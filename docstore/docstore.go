// Package docstore defines the document-store contract the extraction core
// resolves references against, plus an in-memory implementation for tests and
// examples. Documents live at slash-separated paths alternating collection
// and document segments ("users/7", "users/7/orders/a1").
package docstore

import (
	"context"
	"errors"
	"strings"

	docref "github.com/goliatone/go-docref"
)

var (
	// ErrNotFound indicates an operation that requires an existing document
	// hit an absent path. Get does not return it; absent reads surface as
	// non-existent snapshots.
	ErrNotFound = errors.New("docstore: document not found")
	// ErrWriteRejected indicates the store's write rule voted the write down.
	ErrWriteRejected = errors.New("docstore: write rejected by rule")
	// ErrInvalidPath indicates a path that does not address a document.
	ErrInvalidPath = errors.New("docstore: invalid document path")
)

// Store is the minimal read/write surface of a document store.
type Store interface {
	Get(ctx context.Context, path string) (docref.Snapshot, error)
	Set(ctx context.Context, path string, fields map[string]any, opts ...WriteOption) error
	Add(ctx context.Context, collection string, fields map[string]any) (string, error)
	Update(ctx context.Context, path string, fields map[string]any) error
	Delete(ctx context.Context, path string) error
}

// WriteOption configures a single Set call.
type WriteOption func(*writeConfig)

type writeConfig struct {
	merge bool
}

// MergeFields makes Set deep-merge the incoming fields over the stored
// document instead of replacing it.
func MergeFields() WriteOption {
	return func(cfg *writeConfig) {
		cfg.merge = true
	}
}

func applyWriteOptions(opts []WriteOption) writeConfig {
	cfg := writeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// splitDocumentPath validates a document path: slash-separated, non-empty
// segments, alternating collection/document so the segment count is even.
func splitDocumentPath(path string) ([]string, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}
	segments := strings.Split(path, "/")
	if len(segments)%2 != 0 {
		return nil, ErrInvalidPath
	}
	for _, segment := range segments {
		if segment == "" {
			return nil, ErrInvalidPath
		}
	}
	return segments, nil
}

// splitCollectionPath validates a collection path: like a document path but
// with an odd segment count.
func splitCollectionPath(path string) ([]string, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}
	segments := strings.Split(path, "/")
	if len(segments)%2 != 1 {
		return nil, ErrInvalidPath
	}
	for _, segment := range segments {
		if segment == "" {
			return nil, ErrInvalidPath
		}
	}
	return segments, nil
}

func documentID(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
