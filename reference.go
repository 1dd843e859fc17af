package docref

import "strings"

// Reference is an immutable handle identifying another document by its
// storage path. The handle's identity is distinct from the resolved value of
// the document it points at; resolving is the caller's business.
type Reference struct {
	path      string
	converter Converter
}

// NewReference constructs a handle for the document at path.
func NewReference(path string) *Reference {
	return &Reference{path: path}
}

// Path returns the target storage path.
func (r *Reference) Path() string {
	if r == nil {
		return ""
	}
	return r.path
}

// ID returns the last segment of the target path, the conventional document
// identifier.
func (r *Reference) ID() string {
	if r == nil {
		return ""
	}
	path := strings.TrimSuffix(r.path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Converter returns the decoding adapter attached to the handle, nil when the
// handle relies on the caller's default.
func (r *Reference) Converter() Converter {
	if r == nil {
		return nil
	}
	return r.converter
}

// WithConverter returns a derived handle carrying converter. The receiver is
// left untouched so shared handles stay immutable.
func (r *Reference) WithConverter(converter Converter) *Reference {
	if r == nil {
		return nil
	}
	return &Reference{path: r.path, converter: converter}
}
