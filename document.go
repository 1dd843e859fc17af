package docref

import (
	"sort"
	"strings"
)

// Reserved field names. Names starting with "." are disallowed by the stores'
// own naming rules, so they can never collide with ordinary document fields.
const (
	// FieldID exposes the document identity assigned by the document store.
	FieldID = ".id"
	// FieldMeta exposes snapshot metadata (pending writes, cache origin, ...).
	FieldMeta = ".meta"
	// FieldRef exposes the back-reference to the document's own location.
	FieldRef = ".ref"
	// FieldKey exposes the node key assigned by the realtime tree store.
	FieldKey = ".key"
	// FieldPriority exposes the ordering priority of a tree node.
	FieldPriority = ".priority"
	// FieldSize exposes the child count of a tree node.
	FieldSize = ".size"
	// FieldValue exposes the scalar payload of a wrapper record.
	FieldValue = ".value"
)

// IsReservedField reports whether name belongs to the hidden metadata
// side-channel rather than the enumerable field set.
func IsReservedField(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Meta is the fixed record of reserved fields carried alongside a Document's
// enumerable fields. It replaces the hidden-property convention of the
// original stores: field iteration never sees these values, direct access
// through the reserved names does. The zero value means "no metadata".
type Meta struct {
	ID       string         // document identity (.id)
	Extra    map[string]any // snapshot metadata and custom hidden fields (.meta)
	Ref      *Reference     // back-reference to the owning location (.ref)
	Key      string         // tree node key (.key)
	Priority any            // tree ordering priority (.priority)
	Size     int            // tree child count (.size)
	Value    any            // scalar payload of a wrapper record (.value)
}

// IsZero reports whether no reserved field is populated.
func (m Meta) IsZero() bool {
	return m.ID == "" && len(m.Extra) == 0 && m.Ref == nil &&
		m.Key == "" && m.Priority == nil && m.Size == 0 && m.Value == nil
}

func (m Meta) clone() Meta {
	out := m
	out.Extra = copyExtra(m.Extra)
	return out
}

// Field pairs a name with a value for order-explicit Document construction.
type Field struct {
	Name  string
	Value any
}

// Document is an insertion-ordered, string-keyed container representing one
// decoded node from a remote store. Enumerable fields iterate in the order
// they were set; reserved metadata lives in a side-channel record that Range
// never yields.
type Document struct {
	names  []string
	fields map[string]any
	meta   Meta
}

// NewDocument constructs an empty Document.
func NewDocument() *Document {
	return &Document{fields: map[string]any{}}
}

// DocumentOf constructs a Document from fields in the given order. Reserved
// names route into the metadata record like Set does.
func DocumentOf(fields ...Field) *Document {
	doc := NewDocument()
	for _, field := range fields {
		doc.Set(field.Name, field.Value)
	}
	return doc
}

// DocumentFromMap adopts a raw decoded payload. Keys are sorted so repeated
// adoption of the same payload yields the same field order; nested maps and
// slices are adopted recursively into Documents and Arrays. Reserved names in
// the payload route into the metadata record.
func DocumentFromMap(fields map[string]any) *Document {
	doc := NewDocument()
	if len(fields) == 0 {
		return doc
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		doc.Set(name, adoptValue(fields[name]))
	}
	return doc
}

func adoptValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return DocumentFromMap(typed)
	case []any:
		arr := NewArray(len(typed))
		for i, elem := range typed {
			arr.Set(i, adoptValue(elem))
		}
		return arr
	default:
		return value
	}
}

// Len returns the number of enumerable fields.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}

// Keys returns a copy of the field names in insertion order.
func (d *Document) Keys() []string {
	if d == nil || len(d.names) == 0 {
		return nil
	}
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Get returns the value stored under name. Reserved names resolve from the
// metadata record; presence follows the populated state of the record field
// (Size reports present only when non-zero; read Meta for the exact record).
func (d *Document) Get(name string) (any, bool) {
	if d == nil {
		return nil, false
	}
	if IsReservedField(name) {
		return d.metaField(name)
	}
	value, ok := d.fields[name]
	return value, ok
}

// Set stores value under name, appending the name to the iteration order on
// first write. Reserved names route into the metadata record; values of the
// wrong type for a typed record field are dropped.
func (d *Document) Set(name string, value any) {
	if IsReservedField(name) {
		d.setMetaField(name, value)
		return
	}
	if d.fields == nil {
		d.fields = map[string]any{}
	}
	if _, exists := d.fields[name]; !exists {
		d.names = append(d.names, name)
	}
	d.fields[name] = value
}

// Delete removes name from the enumerable fields. Reserved names are left
// untouched; use SetMeta to replace the metadata record.
func (d *Document) Delete(name string) {
	if d == nil || IsReservedField(name) {
		return
	}
	if _, exists := d.fields[name]; !exists {
		return
	}
	delete(d.fields, name)
	for i, existing := range d.names {
		if existing == name {
			d.names = append(d.names[:i], d.names[i+1:]...)
			break
		}
	}
}

// Range calls fn for each enumerable field in insertion order until fn
// returns false. Reserved fields are never yielded.
func (d *Document) Range(fn func(name string, value any) bool) {
	if d == nil || fn == nil {
		return
	}
	for _, name := range d.names {
		if !fn(name, d.fields[name]) {
			return
		}
	}
}

// Meta returns a copy of the reserved-field record.
func (d *Document) Meta() Meta {
	if d == nil {
		return Meta{}
	}
	return d.meta.clone()
}

// SetMeta replaces the reserved-field record.
func (d *Document) SetMeta(meta Meta) {
	d.meta = meta.clone()
}

// MergeMeta fills only the populated fields of meta into the record, leaving
// the rest untouched.
func (d *Document) MergeMeta(meta Meta) {
	if meta.ID != "" {
		d.meta.ID = meta.ID
	}
	if meta.Extra != nil {
		d.meta.Extra = copyExtra(meta.Extra)
	}
	if meta.Ref != nil {
		d.meta.Ref = meta.Ref
	}
	if meta.Key != "" {
		d.meta.Key = meta.Key
	}
	if meta.Priority != nil {
		d.meta.Priority = meta.Priority
	}
	if meta.Size != 0 {
		d.meta.Size = meta.Size
	}
	if meta.Value != nil {
		d.meta.Value = meta.Value
	}
}

// Clone returns a deep copy of the document. Reference handles are shared
// since they are immutable.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := NewDocument()
	out.meta = d.meta.clone()
	for _, name := range d.names {
		out.Set(name, CloneValue(d.fields[name]))
	}
	return out
}

// Map renders the enumerable fields as a plain tree: nested Documents become
// maps, Arrays become slices with nil in place of holes, everything else is
// carried as-is. Reserved metadata is excluded by construction, which is what
// keeps it out of storage writes.
func (d *Document) Map() map[string]any {
	if d == nil {
		return nil
	}
	out := make(map[string]any, len(d.names))
	for _, name := range d.names {
		out[name] = plainValue(d.fields[name])
	}
	return out
}

func plainValue(value any) any {
	switch typed := value.(type) {
	case *Document:
		if typed == nil {
			return nil
		}
		return typed.Map()
	case *Array:
		if typed == nil {
			return nil
		}
		out := make([]any, typed.Len())
		typed.Range(func(i int, elem any) bool {
			out[i] = plainValue(elem)
			return true
		})
		return out
	default:
		return value
	}
}

func (d *Document) metaField(name string) (any, bool) {
	switch name {
	case FieldID:
		return d.meta.ID, d.meta.ID != ""
	case FieldMeta:
		return copyExtra(d.meta.Extra), d.meta.Extra != nil
	case FieldRef:
		if d.meta.Ref == nil {
			return nil, false
		}
		return d.meta.Ref, true
	case FieldKey:
		return d.meta.Key, d.meta.Key != ""
	case FieldPriority:
		return d.meta.Priority, d.meta.Priority != nil
	case FieldSize:
		return d.meta.Size, d.meta.Size != 0
	case FieldValue:
		return d.meta.Value, d.meta.Value != nil
	default:
		value, ok := d.meta.Extra[strings.TrimPrefix(name, ".")]
		return value, ok
	}
}

func (d *Document) setMetaField(name string, value any) {
	switch name {
	case FieldID:
		if id, ok := value.(string); ok {
			d.meta.ID = id
		}
	case FieldMeta:
		if extra, ok := value.(map[string]any); ok {
			d.meta.Extra = copyExtra(extra)
		}
	case FieldRef:
		if ref, ok := value.(*Reference); ok {
			d.meta.Ref = ref
		}
	case FieldKey:
		if key, ok := value.(string); ok {
			d.meta.Key = key
		}
	case FieldPriority:
		d.meta.Priority = value
	case FieldSize:
		if size, ok := value.(int); ok {
			d.meta.Size = size
		}
	case FieldValue:
		d.meta.Value = value
	default:
		if d.meta.Extra == nil {
			d.meta.Extra = map[string]any{}
		}
		d.meta.Extra[strings.TrimPrefix(name, ".")] = value
	}
}

func copyExtra(origin map[string]any) map[string]any {
	if origin == nil {
		return nil
	}
	out := make(map[string]any, len(origin))
	for key, value := range origin {
		out[key] = value
	}
	return out
}
