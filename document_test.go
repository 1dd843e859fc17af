package docref

import (
	"reflect"
	"testing"
)

func TestDocumentInsertionOrder(t *testing.T) {
	doc := NewDocument()
	doc.Set("b", 1)
	doc.Set("a", 2)
	doc.Set("c", 3)
	doc.Set("a", 4) // overwrite keeps position

	want := []string{"b", "a", "c"}
	if got := doc.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected keys %v, got %v", want, got)
	}

	var visited []string
	doc.Range(func(name string, value any) bool {
		visited = append(visited, name)
		return true
	})
	if !reflect.DeepEqual(visited, want) {
		t.Fatalf("expected range order %v, got %v", want, visited)
	}

	if value, ok := doc.Get("a"); !ok || value != 4 {
		t.Fatalf("expected overwrite to stick, got %v", value)
	}
}

func TestDocumentDelete(t *testing.T) {
	doc := DocumentOf(
		Field{Name: "a", Value: 1},
		Field{Name: "b", Value: 2},
		Field{Name: "c", Value: 3},
	)
	doc.Delete("b")

	if _, ok := doc.Get("b"); ok {
		t.Fatalf("expected b to be gone")
	}
	if got := doc.Keys(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("expected order to close the gap, got %v", got)
	}

	doc.Delete("missing")
	if doc.Len() != 2 {
		t.Fatalf("deleting a missing field should be a no-op")
	}
}

func TestDocumentReservedFieldsRouteToMeta(t *testing.T) {
	doc := NewDocument()
	doc.Set(".id", "7")
	doc.Set(".ref", NewReference("users/7"))
	doc.Set(".key", "k1")
	doc.Set(".priority", 3)
	doc.Set("name", "ada")

	if doc.Len() != 1 {
		t.Fatalf("reserved names must not join the field set, len=%d", doc.Len())
	}
	meta := doc.Meta()
	if meta.ID != "7" || meta.Key != "k1" || meta.Priority != 3 {
		t.Fatalf("unexpected meta record: %+v", meta)
	}
	if meta.Ref == nil || meta.Ref.Path() != "users/7" {
		t.Fatalf("expected ref in meta, got %v", meta.Ref)
	}

	if value, ok := doc.Get(".id"); !ok || value != "7" {
		t.Fatalf("expected .id readback, got %v", value)
	}

	doc.Range(func(name string, _ any) bool {
		if IsReservedField(name) {
			t.Fatalf("range yielded reserved field %q", name)
		}
		return true
	})
}

func TestDocumentMetaPresenceRules(t *testing.T) {
	doc := NewDocument()
	if _, ok := doc.Get(".id"); ok {
		t.Fatalf("empty id should read absent")
	}
	if _, ok := doc.Get(".size"); ok {
		t.Fatalf("zero size should read absent")
	}
	if _, ok := doc.Get(".priority"); ok {
		t.Fatalf("nil priority should read absent")
	}

	doc.MergeMeta(Meta{Size: 4, Priority: "pri"})
	if value, ok := doc.Get(".size"); !ok || value != 4 {
		t.Fatalf("expected size present, got %v", value)
	}
	if value, ok := doc.Get(".priority"); !ok || value != "pri" {
		t.Fatalf("expected priority present, got %v", value)
	}
}

func TestDocumentMetaWrongTypesDropped(t *testing.T) {
	doc := NewDocument()
	doc.Set(".id", 42)
	doc.Set(".ref", "users/7")
	if meta := doc.Meta(); meta.ID != "" || meta.Ref != nil {
		t.Fatalf("mistyped reserved writes should drop, got %+v", meta)
	}
}

func TestDocumentMetaExtraFields(t *testing.T) {
	doc := NewDocument()
	doc.Set(".origin", "cache")

	if value, ok := doc.Get(".origin"); !ok || value != "cache" {
		t.Fatalf("expected custom hidden field, got %v", value)
	}
	if doc.Len() != 0 {
		t.Fatalf("hidden fields must stay out of the field set")
	}
	if extra := doc.Meta().Extra; extra["origin"] != "cache" {
		t.Fatalf("expected extra record, got %v", extra)
	}
}

func TestDocumentFromMapAdoptsSorted(t *testing.T) {
	doc := DocumentFromMap(map[string]any{
		"z":       1,
		"a":       map[string]any{"inner": []any{1, 2}},
		"m":       []any{map[string]any{"deep": true}},
		".id":     "9",
		"untyped": nil,
	})

	if got := doc.Keys(); !reflect.DeepEqual(got, []string{"a", "m", "untyped", "z"}) {
		t.Fatalf("expected sorted adoption, got %v", got)
	}
	if doc.Meta().ID != "9" {
		t.Fatalf("reserved payload keys should land in meta")
	}

	nested, _ := doc.Get("a")
	innerDoc, ok := nested.(*Document)
	if !ok {
		t.Fatalf("expected nested map to adopt into Document, got %T", nested)
	}
	inner, _ := innerDoc.Get("inner")
	if _, ok := inner.(*Array); !ok {
		t.Fatalf("expected nested slice to adopt into Array, got %T", inner)
	}

	list, _ := doc.Get("m")
	arr := list.(*Array)
	elem, _ := arr.Get(0)
	if _, ok := elem.(*Document); !ok {
		t.Fatalf("expected map inside slice to adopt, got %T", elem)
	}
}

func TestDocumentCloneIsDeep(t *testing.T) {
	ref := NewReference("users/7")
	doc := NewDocument()
	doc.SetMeta(Meta{ID: "7", Extra: map[string]any{"k": "v"}})
	doc.Set("nested", DocumentOf(Field{Name: "count", Value: 1}))
	doc.Set("list", ArrayOf("a"))
	doc.Set("ref", ref)

	clone := doc.Clone()

	nested, _ := clone.Get("nested")
	nested.(*Document).Set("count", 99)
	if original, _ := doc.Get("nested"); mustGet(t, original.(*Document), "count") != 1 {
		t.Fatalf("clone mutation leaked into original")
	}

	list, _ := clone.Get("list")
	list.(*Array).Set(0, "changed")
	if original, _ := doc.Get("list"); mustIndex(t, original.(*Array), 0) != "a" {
		t.Fatalf("array clone mutation leaked into original")
	}

	if cloned, _ := clone.Get("ref"); cloned.(*Reference) != ref {
		t.Fatalf("immutable handles should be shared, not copied")
	}

	cloneMeta := clone.Meta()
	cloneMeta.Extra["k"] = "changed"
	if doc.Meta().Extra["k"] != "v" {
		t.Fatalf("meta extra should be detached")
	}
}

func TestDocumentMapRendersPlainTree(t *testing.T) {
	arr := NewArray(3)
	arr.Set(0, "a")
	arr.Set(2, DocumentOf(Field{Name: "deep", Value: true}))

	doc := NewDocument()
	doc.SetMeta(Meta{ID: "7"})
	doc.Set("nested", DocumentOf(Field{Name: "inner", Value: 1}))
	doc.Set("list", arr)

	got := doc.Map()
	want := map[string]any{
		"nested": map[string]any{"inner": 1},
		"list":   []any{"a", nil, map[string]any{"deep": true}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("plain render mismatch:\nwant: %#v\n got: %#v", want, got)
	}
	if _, exists := got[".id"]; exists {
		t.Fatalf("metadata must stay out of the plain render")
	}
}

func TestDocumentMergeMetaFillsOnly(t *testing.T) {
	doc := NewDocument()
	doc.SetMeta(Meta{ID: "7", Key: "k"})
	doc.MergeMeta(Meta{Key: "k2", Priority: 1})

	meta := doc.Meta()
	if meta.ID != "7" {
		t.Fatalf("merge must not clear id, got %q", meta.ID)
	}
	if meta.Key != "k2" || meta.Priority != 1 {
		t.Fatalf("merge should apply populated fields, got %+v", meta)
	}
}

func TestDocumentNilReceiverSafety(t *testing.T) {
	var doc *Document
	if doc.Len() != 0 {
		t.Fatalf("nil doc should report empty")
	}
	if _, ok := doc.Get("x"); ok {
		t.Fatalf("nil doc should always miss")
	}
	if doc.Map() != nil {
		t.Fatalf("nil doc renders nil")
	}
	if doc.Clone() != nil {
		t.Fatalf("nil doc clones to nil")
	}
	doc.Range(func(string, any) bool { return true })
}

func mustGet(t *testing.T, doc *Document, name string) any {
	t.Helper()
	value, ok := doc.Get(name)
	if !ok {
		t.Fatalf("expected field %q", name)
	}
	return value
}

func mustIndex(t *testing.T, arr *Array, i int) any {
	t.Helper()
	value, ok := arr.Get(i)
	if !ok {
		t.Fatalf("expected index %d", i)
	}
	return value
}
