package treestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	docref "github.com/goliatone/go-docref"
	"github.com/goliatone/go-docref/pkg/activity"
	"github.com/oklog/ulid/v2"
)

var (
	// ErrInvalidPath indicates a path that does not address a tree node.
	ErrInvalidPath = errors.New("treestore: invalid node path")
	// ErrNodeNotFound indicates an operation that requires an existing node
	// hit an absent path.
	ErrNodeNotFound = errors.New("treestore: node not found")
)

// node is a branch when it has children, a leaf otherwise. Values are stored
// detached; raw maps and slices decompose into keyed children on write.
type node struct {
	value    any
	children map[string]*node
	priority any
}

// Memory is a mutex-guarded in-memory tree store for tests and examples.
// Writing nil removes, raw slices become children keyed "0", "1", ..., and
// nil entries inside written containers are dropped, the way realtime tree
// stores treat nulls.
type Memory struct {
	mu      sync.RWMutex
	root    *node
	emitter *activity.Emitter
}

// MemoryOption configures a Memory store on construction.
type MemoryOption func(*Memory)

// WithHooks wires lifecycle hooks; events flow through an Emitter with the
// default documents channel.
func WithHooks(hooks activity.Hooks) MemoryOption {
	return func(m *Memory) {
		m.emitter = activity.NewEmitter(hooks, activity.Config{Enabled: true})
	}
}

// NewMemory constructs an empty tree.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{root: &node{}}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Set replaces the subtree at path with value. A nil value removes the node;
// setting resets any priority the node carried.
func (m *Memory) Set(ctx context.Context, path string, value any) error {
	segments, err := splitTreePath(path)
	if err != nil {
		return err
	}
	if value == nil {
		return m.Remove(ctx, path)
	}

	fresh := buildNode(value)
	m.mu.Lock()
	if fresh == nil {
		m.detach(segments)
	} else {
		m.attach(segments, fresh)
	}
	m.mu.Unlock()

	m.emit(ctx, activity.BuildNodeWrittenEvent(activity.DocumentEventInput{
		Store:    "treestore",
		Path:     path,
		Key:      lastSegment(segments),
		NewValue: docref.CloneValue(value),
	}))
	return nil
}

// Update applies a shallow multi-field write: every entry of fields becomes a
// child write under path, nil entries remove the child. Unnamed children are
// left untouched.
func (m *Memory) Update(ctx context.Context, path string, fields map[string]any) error {
	segments, err := splitTreePath(path)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		if name == "" || strings.Contains(name, "/") {
			return fmt.Errorf("%w: %s/%s", ErrInvalidPath, path, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	m.mu.Lock()
	for _, name := range names {
		childSegments := append(append([]string{}, segments...), name)
		if value := fields[name]; value == nil {
			m.detach(childSegments)
		} else if fresh := buildNode(value); fresh != nil {
			m.attach(childSegments, fresh)
		} else {
			m.detach(childSegments)
		}
	}
	m.mu.Unlock()

	m.emit(ctx, activity.BuildNodeWrittenEvent(activity.DocumentEventInput{
		Store:    "treestore",
		Path:     path,
		Key:      lastSegment(segments),
		NewValue: docref.CloneValue(map[string]any(fields)),
		Metadata: map[string]any{"update": true},
	}))
	return nil
}

// Remove deletes the subtree at path. Removing an absent node is a no-op.
func (m *Memory) Remove(ctx context.Context, path string) error {
	segments, err := splitTreePath(path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	removed := m.detach(segments)
	m.mu.Unlock()

	if removed {
		m.emit(ctx, activity.BuildNodeRemovedEvent(activity.DocumentEventInput{
			Store: "treestore",
			Path:  path,
			Key:   lastSegment(segments),
		}))
	}
	return nil
}

// Push mints a child key under path, stores value there, and returns the
// key. Keys are ULIDs: lexicographic order is insertion order, which keeps
// pushed children chronologically sorted under the default key ordering.
func (m *Memory) Push(ctx context.Context, path string, value any) (string, error) {
	if _, err := splitTreePath(path); err != nil {
		return "", err
	}
	key := ulid.Make().String()
	childPath := key
	if path != "" {
		childPath = path + "/" + key
	}
	if err := m.Set(ctx, childPath, value); err != nil {
		return "", err
	}
	return key, nil
}

// SetPriority assigns the ordering priority of the node at path. The node
// must exist.
func (m *Memory) SetPriority(ctx context.Context, path string, priority any) error {
	segments, err := splitTreePath(path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	target := m.walk(segments)
	if target == nil {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNodeNotFound, path)
	}
	target.priority = priority
	m.mu.Unlock()

	m.emit(ctx, activity.BuildNodeWrittenEvent(activity.DocumentEventInput{
		Store:    "treestore",
		Path:     path,
		Key:      lastSegment(segments),
		NewValue: priority,
		Metadata: map[string]any{"priority": true},
	}))
	return nil
}

// SnapshotAt observes the node at path. Absent nodes come back as snapshots
// with Exists false.
func (m *Memory) SnapshotAt(path string) Snapshot {
	segments, err := splitTreePath(path)
	if err != nil {
		return &memorySnapshot{path: path}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	target := m.walk(segments)
	if target == nil {
		return &memorySnapshot{path: path, key: lastSegment(segments)}
	}
	return &memorySnapshot{
		key:      lastSegment(segments),
		path:     path,
		exists:   true,
		value:    materialize(target),
		priority: target.priority,
		children: len(target.children),
	}
}

// Children observes the direct children of path in realtime-tree order:
// nodes without priority first, then numeric priorities ascending, then
// string priorities; ties break on key with numeric keys first in numeric
// order.
func (m *Memory) Children(path string) []Snapshot {
	segments, err := splitTreePath(path)
	if err != nil {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	target := m.walk(segments)
	if target == nil || len(target.children) == 0 {
		return nil
	}

	keys := make([]string, 0, len(target.children))
	for key := range target.children {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return lessChild(target.children[keys[i]], keys[i], target.children[keys[j]], keys[j])
	})

	out := make([]Snapshot, 0, len(keys))
	for _, key := range keys {
		child := target.children[key]
		childPath := key
		if path != "" {
			childPath = path + "/" + key
		}
		out = append(out, &memorySnapshot{
			key:      key,
			path:     childPath,
			exists:   true,
			value:    materialize(child),
			priority: child.priority,
			children: len(child.children),
		})
	}
	return out
}

func (m *Memory) emit(ctx context.Context, event activity.Event) {
	if !m.emitter.Enabled() {
		return
	}
	// hook failures never fail the write
	_ = m.emitter.Emit(ctx, event)
}

// walk returns the node at segments, nil when the path does not resolve.
// Callers hold the lock.
func (m *Memory) walk(segments []string) *node {
	current := m.root
	for _, segment := range segments {
		next, ok := current.children[segment]
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

// attach places fresh at segments, creating intermediate branches. Attaching
// at the root replaces the whole tree. Callers hold the lock.
func (m *Memory) attach(segments []string, fresh *node) {
	if len(segments) == 0 {
		m.root = fresh
		return
	}
	current := m.root
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current.children[segment]
		if !ok {
			next = &node{}
			if current.children == nil {
				current.children = map[string]*node{}
			}
			// an intermediate branch drops any scalar payload it had
			current.value = nil
			current.children[segment] = next
		}
		current = next
	}
	if current.children == nil {
		current.children = map[string]*node{}
	}
	current.value = nil
	current.children[segments[len(segments)-1]] = fresh
}

// detach removes the node at segments, pruning branches left empty. It
// reports whether anything was removed. Callers hold the lock.
func (m *Memory) detach(segments []string) bool {
	if len(segments) == 0 {
		had := m.root.value != nil || len(m.root.children) > 0
		m.root = &node{}
		return had
	}
	parents := make([]*node, 0, len(segments))
	current := m.root
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current.children[segment]
		if !ok {
			return false
		}
		parents = append(parents, current)
		current = next
	}
	last := segments[len(segments)-1]
	if _, ok := current.children[last]; !ok {
		return false
	}
	delete(current.children, last)

	// prune now-empty branches bottom-up
	for i := len(parents) - 1; i >= 0; i-- {
		if current.value != nil || len(current.children) > 0 {
			break
		}
		delete(parents[i].children, segments[i])
		current = parents[i]
	}
	return true
}

// buildNode decomposes a written value into tree nodes. Maps and slices
// become keyed children with nil entries dropped; everything else is a leaf.
// A container with no surviving entries builds nothing.
func buildNode(value any) *node {
	switch typed := value.(type) {
	case map[string]any:
		children := map[string]*node{}
		for key, element := range typed {
			if key == "" || strings.Contains(key, "/") || element == nil {
				continue
			}
			if child := buildNode(element); child != nil {
				children[key] = child
			}
		}
		if len(children) == 0 {
			return nil
		}
		return &node{children: children}
	case []any:
		children := map[string]*node{}
		for i, element := range typed {
			if element == nil {
				continue
			}
			if child := buildNode(element); child != nil {
				children[strconv.Itoa(i)] = child
			}
		}
		if len(children) == 0 {
			return nil
		}
		return &node{children: children}
	default:
		return &node{value: docref.CloneValue(value)}
	}
}

// materialize renders a node back into a detached raw value: branches become
// maps, leaves their payload.
func materialize(n *node) any {
	if n == nil {
		return nil
	}
	if len(n.children) == 0 {
		return docref.CloneValue(n.value)
	}
	out := make(map[string]any, len(n.children))
	for key, child := range n.children {
		out[key] = materialize(child)
	}
	return out
}

func splitTreePath(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	segments := strings.Split(path, "/")
	for _, segment := range segments {
		if segment == "" {
			return nil, ErrInvalidPath
		}
	}
	return segments, nil
}

func lastSegment(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// lessChild implements the store's child ordering.
func lessChild(a *node, aKey string, b *node, bKey string) bool {
	aRank, bRank := priorityRank(a.priority), priorityRank(b.priority)
	if aRank != bRank {
		return aRank < bRank
	}
	switch aRank {
	case 1:
		aNum, _ := numericValue(a.priority)
		bNum, _ := numericValue(b.priority)
		if aNum != bNum {
			return aNum < bNum
		}
	case 2:
		aStr, bStr := a.priority.(string), b.priority.(string)
		if aStr != bStr {
			return aStr < bStr
		}
	}
	return lessKey(aKey, bKey)
}

func priorityRank(priority any) int {
	if priority == nil {
		return 0
	}
	if _, ok := numericValue(priority); ok {
		return 1
	}
	if _, ok := priority.(string); ok {
		return 2
	}
	return 3
}

func numericValue(value any) (float64, bool) {
	switch typed := value.(type) {
	case int:
		return float64(typed), true
	case int8:
		return float64(typed), true
	case int16:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint8:
		return float64(typed), true
	case uint16:
		return float64(typed), true
	case uint32:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case float32:
		return float64(typed), true
	case float64:
		return typed, true
	default:
		return 0, false
	}
}

// lessKey orders keys the way realtime trees list them: parseable integers
// first in numeric order, then the rest lexicographically.
func lessKey(a, b string) bool {
	aNum, aErr := strconv.ParseInt(a, 10, 64)
	bNum, bErr := strconv.ParseInt(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		if aNum != bNum {
			return aNum < bNum
		}
		return a < b
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
