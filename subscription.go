package docref

import "sort"

// Subscription is one entry of the external binder's registry: a reference
// that is actively being resolved. Path addresses the reference's target in
// the store; Data lazily returns the last resolved value, nil while nothing
// has arrived yet.
type Subscription struct {
	Path string
	Data func() any
}

// Subscriptions is the binder's registry, keyed by subscription key: the
// reference's position inside the owning document tree. Several keys may
// share one target path when the same document is referenced from more than
// one field.
type Subscriptions map[string]Subscription

// PathIndex snapshots the registry into a target-path lookup by invoking
// Data on every entry. Keys are visited in sorted order, so when two entries
// share a path the lexicographically greatest key wins; collisions are
// expected to be rare since paths are unique per active target in practice.
func PathIndex(subs Subscriptions) map[string]any {
	index := make(map[string]any, len(subs))
	if len(subs) == 0 {
		return index
	}
	keys := make([]string, 0, len(subs))
	for key := range subs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		sub := subs[key]
		var resolved any
		if sub.Data != nil {
			resolved = sub.Data()
		}
		index[sub.Path] = resolved
	}
	return index
}
