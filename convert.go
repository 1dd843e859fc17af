package docref

// Snapshot is the read surface the stores hand to converters: one observation
// of a document at a point in time.
type Snapshot interface {
	// Exists reports whether the target document was present.
	Exists() bool
	// ID returns the document identifier.
	ID() string
	// Path returns the document's storage path.
	Path() string
	// Data returns the decoded enumerable fields.
	Data() map[string]any
	// Metadata returns store-side snapshot metadata (cache origin, pending
	// writes, and the like).
	Metadata() map[string]any
}

// Converter adapts between snapshots and decoded Documents. References may
// carry their own Converter; Extract falls back to the caller-supplied
// default for the ones that do not.
type Converter interface {
	// FromStorage decodes a snapshot into a Document, nil when absent.
	FromStorage(snap Snapshot) *Document
	// ToStorage renders a Document back into raw storage fields.
	ToStorage(doc *Document) map[string]any
}

// DefaultConverter is the adapter Extract composes against when a reference
// has no converter of its own. FromStorage adopts the decoded fields and
// decorates the result with identity, snapshot metadata, and a back-reference
// to its own location; because the decoration lives in the metadata record,
// ToStorage reduces to rendering the enumerable fields.
type DefaultConverter struct{}

// FromStorage implements Converter.
func (DefaultConverter) FromStorage(snap Snapshot) *Document {
	if snap == nil || !snap.Exists() {
		return nil
	}
	doc := DocumentFromMap(snap.Data())
	doc.MergeMeta(Meta{
		ID:    snap.ID(),
		Extra: copyExtra(snap.Metadata()),
		Ref:   NewReference(snap.Path()),
	})
	return doc
}

// ToStorage implements Converter.
func (DefaultConverter) ToStorage(doc *Document) map[string]any {
	if doc == nil {
		return nil
	}
	return doc.Map()
}
