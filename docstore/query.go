package docstore

import (
	"context"
	"fmt"

	docref "github.com/goliatone/go-docref"
)

// Query returns snapshots of the direct documents of collection whose decoded
// form passes rule, in path order. An empty rule matches everything. opts
// pick the engine, cache, and functions for the rule.
func (m *Memory) Query(ctx context.Context, collection, rule string, opts ...docref.RuleOption) ([]docref.Snapshot, error) {
	if _, err := splitCollectionPath(collection); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	type entry struct {
		path string
		data map[string]any
	}

	m.mu.RLock()
	paths := m.collectionMembers(collection)
	entries := make([]entry, 0, len(paths))
	for _, path := range paths {
		entries = append(entries, entry{
			path: path,
			data: docref.CloneValue(m.records[path]).(map[string]any),
		})
	}
	m.mu.RUnlock()

	out := make([]docref.Snapshot, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if rule != "" {
			ok, err := docref.Match(documentAt(e.path, e.data), rule, opts...)
			if err != nil {
				return nil, fmt.Errorf("docstore: query %q: %w", collection, err)
			}
			if !ok {
				continue
			}
		}
		out = append(out, NewSnapshot(e.path, e.data, true))
	}
	return out, nil
}
