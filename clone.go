package docref

// CloneValue deep-copies a tree value. Documents, arrays, raw maps, and raw
// slices are duplicated shape-for-shape; opaque scalars and reference handles
// are shared, since both are immutable to callers.
func CloneValue(value any) any {
	switch typed := value.(type) {
	case *Document:
		return typed.Clone()
	case *Array:
		return typed.Clone()
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, elem := range typed {
			out[key] = CloneValue(elem)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, elem := range typed {
			out[i] = CloneValue(elem)
		}
		return out
	default:
		return value
	}
}
