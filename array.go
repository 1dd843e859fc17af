package docref

// Array is a fixed-length indexed container that distinguishes holes from
// stored nils: Set(i, nil) makes index i present with a nil value, while an
// untouched index stays a hole. Decomposition relies on this to keep
// index-to-value alignment when only some elements have resolved.
type Array struct {
	slots   []any
	present []bool
}

// NewArray constructs an Array of length n with every index a hole.
func NewArray(n int) *Array {
	if n < 0 {
		n = 0
	}
	return &Array{
		slots:   make([]any, n),
		present: make([]bool, n),
	}
}

// ArrayOf constructs a dense Array from values.
func ArrayOf(values ...any) *Array {
	arr := NewArray(len(values))
	for i, value := range values {
		arr.Set(i, value)
	}
	return arr
}

// Len returns the length of the array, counting holes.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.slots)
}

// Get returns the value at index i. The second return is false for holes and
// out-of-range indices.
func (a *Array) Get(i int) (any, bool) {
	if a == nil || i < 0 || i >= len(a.slots) || !a.present[i] {
		return nil, false
	}
	return a.slots[i], true
}

// Has reports whether index i holds a value (nil included).
func (a *Array) Has(i int) bool {
	return a != nil && i >= 0 && i < len(a.present) && a.present[i]
}

// Set stores value at index i. Out-of-range writes are ignored; the length is
// fixed at construction.
func (a *Array) Set(i int, value any) {
	if a == nil || i < 0 || i >= len(a.slots) {
		return
	}
	a.slots[i] = value
	a.present[i] = true
}

// Clear turns index i back into a hole.
func (a *Array) Clear(i int) {
	if a == nil || i < 0 || i >= len(a.slots) {
		return
	}
	a.slots[i] = nil
	a.present[i] = false
}

// Range calls fn for each present index in ascending order until fn returns
// false. Holes are skipped.
func (a *Array) Range(fn func(i int, value any) bool) {
	if a == nil || fn == nil {
		return
	}
	for i, ok := range a.present {
		if !ok {
			continue
		}
		if !fn(i, a.slots[i]) {
			return
		}
	}
}

// Clone returns a deep copy of the array, preserving holes.
func (a *Array) Clone() *Array {
	if a == nil {
		return nil
	}
	out := NewArray(len(a.slots))
	for i, ok := range a.present {
		if ok {
			out.Set(i, CloneValue(a.slots[i]))
		}
	}
	return out
}
