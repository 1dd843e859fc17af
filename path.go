package docref

import (
	"fmt"
	"strconv"
	"strings"
)

// JoinPath appends a segment to a dot-separated path.
func JoinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}

// SplitPath splits a dot-separated path into segments. The empty path has no
// segments.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// LastSegment returns the final segment of a dot-separated path, the path's
// local identifier.
func LastSegment(path string) string {
	if idx := strings.LastIndexByte(path, '.'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// WalkGet resolves a dot-separated path against a tree of Documents and
// Arrays. Numeric segments index arrays. The second result reports whether
// every segment resolved.
func WalkGet(root any, path string) (any, bool) {
	current := root
	for _, segment := range SplitPath(path) {
		switch node := current.(type) {
		case *Document:
			value, ok := node.Get(segment)
			if !ok {
				return nil, false
			}
			current = value
		case map[string]any:
			value, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = value
		case *Array:
			i, err := strconv.Atoi(segment)
			if err != nil {
				return nil, false
			}
			value, ok := node.Get(i)
			if !ok {
				return nil, false
			}
			current = value
		case []any:
			i, err := strconv.Atoi(segment)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			current = node[i]
		default:
			return nil, false
		}
	}
	return current, true
}

// WalkSet stores value at a dot-separated path under root, creating
// intermediate Documents for missing segments. Numeric segments address
// existing arrays only; WalkSet never grows an array. It reports whether the
// write landed.
func WalkSet(root *Document, path string, value any) bool {
	segments := SplitPath(path)
	if root == nil || len(segments) == 0 {
		return false
	}
	current := any(root)
	for _, segment := range segments[:len(segments)-1] {
		switch node := current.(type) {
		case *Document:
			next, ok := node.Get(segment)
			if !ok || next == nil {
				child := NewDocument()
				node.Set(segment, child)
				current = child
				continue
			}
			current = next
		case *Array:
			i, err := strconv.Atoi(segment)
			if err != nil {
				return false
			}
			next, ok := node.Get(i)
			if !ok {
				return false
			}
			current = next
		default:
			return false
		}
	}
	last := segments[len(segments)-1]
	switch node := current.(type) {
	case *Document:
		node.Set(last, value)
		return true
	case *Array:
		i, err := strconv.Atoi(last)
		if err != nil || i < 0 || i >= node.Len() {
			return false
		}
		node.Set(i, value)
		return true
	default:
		return false
	}
}

// FieldDescriptor describes one leaf path in a tree and its inferred type.
type FieldDescriptor struct {
	Path string
	Type string
}

// FieldPaths derives the leaf descriptors of a tree in field order. Documents
// and arrays recurse; reference handles, opaque scalars, and empty containers
// terminate a path.
func FieldPaths(value any) []FieldDescriptor {
	descriptors := deriveFieldPaths(value, "")
	if descriptors == nil {
		descriptors = []FieldDescriptor{}
	}
	return descriptors
}

func deriveFieldPaths(value any, prefix string) []FieldDescriptor {
	switch Classify(value) {
	case KindDocument:
		doc, _ := documentValue(value)
		if doc.Len() == 0 {
			if prefix == "" {
				return nil
			}
			return []FieldDescriptor{{Path: prefix, Type: "document"}}
		}
		var fields []FieldDescriptor
		doc.Range(func(name string, nested any) bool {
			fields = append(fields, deriveFieldPaths(nested, JoinPath(prefix, name))...)
			return true
		})
		return fields
	case KindArray:
		arr := arrayValue(value)
		var fields []FieldDescriptor
		arr.Range(func(i int, elem any) bool {
			fields = append(fields, deriveFieldPaths(elem, JoinPath(prefix, strconv.Itoa(i)))...)
			return true
		})
		if fields == nil {
			if prefix == "" {
				return nil
			}
			return []FieldDescriptor{{Path: prefix, Type: "array"}}
		}
		return fields
	case KindReference:
		return []FieldDescriptor{{Path: prefix, Type: "reference"}}
	case KindNil:
		if prefix == "" {
			return nil
		}
		return []FieldDescriptor{{Path: prefix, Type: "nil"}}
	default:
		if prefix == "" {
			return nil
		}
		return []FieldDescriptor{{Path: prefix, Type: fmt.Sprintf("%T", value)}}
	}
}
