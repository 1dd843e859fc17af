package docref

import (
	"reflect"
	"testing"
)

type fakeSnapshot struct {
	exists   bool
	id       string
	path     string
	data     map[string]any
	metadata map[string]any
}

func (s fakeSnapshot) Exists() bool             { return s.exists }
func (s fakeSnapshot) ID() string               { return s.id }
func (s fakeSnapshot) Path() string             { return s.path }
func (s fakeSnapshot) Data() map[string]any     { return s.data }
func (s fakeSnapshot) Metadata() map[string]any { return s.metadata }

func TestDefaultConverterFromStorage(t *testing.T) {
	snap := fakeSnapshot{
		exists:   true,
		id:       "7",
		path:     "users/7",
		data:     map[string]any{"name": "ada", "tags": []any{"x"}},
		metadata: map[string]any{"fromCache": true},
	}

	doc := DefaultConverter{}.FromStorage(snap)
	if doc == nil {
		t.Fatalf("expected a document for an existing snapshot")
	}
	if value, _ := doc.Get("name"); value != "ada" {
		t.Fatalf("expected decoded field, got %v", value)
	}
	if _, ok := mustGet(t, doc, "tags").(*Array); !ok {
		t.Fatalf("expected slice payloads to adopt into Array")
	}

	meta := doc.Meta()
	if meta.ID != "7" {
		t.Fatalf("expected id decoration, got %q", meta.ID)
	}
	if meta.Ref == nil || meta.Ref.Path() != "users/7" {
		t.Fatalf("expected back-reference decoration, got %v", meta.Ref)
	}
	if meta.Extra["fromCache"] != true {
		t.Fatalf("expected snapshot metadata decoration, got %v", meta.Extra)
	}
}

func TestDefaultConverterAbsentSnapshot(t *testing.T) {
	if doc := (DefaultConverter{}).FromStorage(fakeSnapshot{exists: false, id: "7"}); doc != nil {
		t.Fatalf("absent snapshots decode to nil, got %v", doc)
	}
	if doc := (DefaultConverter{}).FromStorage(nil); doc != nil {
		t.Fatalf("nil snapshots decode to nil, got %v", doc)
	}
}

func TestDefaultConverterToStorage(t *testing.T) {
	doc := DefaultConverter{}.FromStorage(fakeSnapshot{
		exists: true,
		id:     "7",
		path:   "users/7",
		data:   map[string]any{"name": "ada", "nested": map[string]any{"n": 1}},
	})

	fields := DefaultConverter{}.ToStorage(doc)
	want := map[string]any{"name": "ada", "nested": map[string]any{"n": 1}}
	if !reflect.DeepEqual(fields, want) {
		t.Fatalf("expected round trip without decorations:\nwant: %#v\n got: %#v", want, fields)
	}

	if (DefaultConverter{}).ToStorage(nil) != nil {
		t.Fatalf("nil document renders nil fields")
	}
}
