package docref

import "time"

// Kind is the closed classification the extraction walker performs once per
// value before deciding how to recurse.
type Kind int

const (
	// KindScalar covers strings, numbers, booleans, and any value the walker
	// does not recognize; all are copied as-is.
	KindScalar Kind = iota
	// KindNil marks nil values, including typed nil handles and containers.
	KindNil
	// KindOpaque marks atomic leaf types (Timestamp, GeoPoint, time.Time)
	// that are never traversed and never treated as references.
	KindOpaque
	// KindReference marks reference handles.
	KindReference
	// KindArray marks indexed containers, raw []any included.
	KindArray
	// KindDocument marks structured containers, raw map[string]any included.
	KindDocument
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindOpaque:
		return "opaque"
	case KindReference:
		return "reference"
	case KindArray:
		return "array"
	case KindDocument:
		return "document"
	default:
		return "scalar"
	}
}

// Classify reports the Kind of value. Raw map[string]any and []any payloads
// classify as containers so decomposition recurses into manually assembled
// trees the same way it does into adopted ones.
func Classify(value any) Kind {
	switch typed := value.(type) {
	case nil:
		return KindNil
	case Timestamp, GeoPoint, time.Time:
		return KindOpaque
	case *Reference:
		if typed == nil {
			return KindNil
		}
		return KindReference
	case *Array:
		if typed == nil {
			return KindNil
		}
		return KindArray
	case []any:
		return KindArray
	case *Document:
		if typed == nil {
			return KindNil
		}
		return KindDocument
	case map[string]any:
		return KindDocument
	default:
		return KindScalar
	}
}
