// Package treestore defines the realtime-tree-store contract: nodes at
// slash-separated paths carrying keyed children, ordering priorities, and
// scalar payloads. Normalize renders node snapshots into the document model
// the extraction core walks; Memory is an in-memory tree for tests and
// examples.
package treestore

// Snapshot is one observation of a tree node.
type Snapshot interface {
	// Exists reports whether the node was present.
	Exists() bool
	// Key returns the node's own key, the last path segment.
	Key() string
	// Path returns the node's location in the tree.
	Path() string
	// Value returns the decoded payload: a map for keyed nodes, a scalar
	// for leaves, nil when absent.
	Value() any
	// Priority returns the node's ordering priority, nil when unset.
	Priority() any
	// ChildCount returns the number of direct children.
	ChildCount() int
}

type memorySnapshot struct {
	key      string
	path     string
	exists   bool
	value    any
	priority any
	children int
}

func (s *memorySnapshot) Exists() bool {
	return s != nil && s.exists
}

func (s *memorySnapshot) Key() string {
	if s == nil {
		return ""
	}
	return s.key
}

func (s *memorySnapshot) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *memorySnapshot) Value() any {
	if s == nil || !s.exists {
		return nil
	}
	return s.value
}

func (s *memorySnapshot) Priority() any {
	if s == nil {
		return nil
	}
	return s.priority
}

func (s *memorySnapshot) ChildCount() int {
	if s == nil {
		return 0
	}
	return s.children
}
