package docref

import (
	"reflect"
	"testing"
)

func TestJoinSplitLastSegment(t *testing.T) {
	if got := JoinPath("", "friend"); got != "friend" {
		t.Fatalf("expected bare segment, got %q", got)
	}
	if got := JoinPath("a.b", "c"); got != "a.b.c" {
		t.Fatalf("expected dotted join, got %q", got)
	}
	if got := SplitPath(""); got != nil {
		t.Fatalf("empty path has no segments, got %v", got)
	}
	if got := SplitPath("a.b.c"); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected segments %v", got)
	}
	if got := LastSegment("a.b.c"); got != "c" {
		t.Fatalf("expected local identifier, got %q", got)
	}
	if got := LastSegment("solo"); got != "solo" {
		t.Fatalf("single segment paths are their own identifier, got %q", got)
	}
}

func TestWalkGet(t *testing.T) {
	tree := DocumentOf(
		Field{Name: "profile", Value: DocumentOf(Field{Name: "name", Value: "ada"})},
		Field{Name: "raw", Value: map[string]any{"inner": []any{"x", "y"}}},
		Field{Name: "list", Value: ArrayOf("a", DocumentOf(Field{Name: "deep", Value: 9}))},
	)

	cases := []struct {
		name string
		path string
		want any
		ok   bool
	}{
		{name: "document field", path: "profile.name", want: "ada", ok: true},
		{name: "raw map and slice", path: "raw.inner.1", want: "y", ok: true},
		{name: "array element field", path: "list.1.deep", want: 9, ok: true},
		{name: "root", path: "", want: tree, ok: true},
		{name: "missing field", path: "profile.age", ok: false},
		{name: "non numeric index", path: "list.first", ok: false},
		{name: "index out of range", path: "list.5", ok: false},
		{name: "descend through scalar", path: "profile.name.x", ok: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, ok := WalkGet(tree, tc.path)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if ok && got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestWalkGetMissesHoles(t *testing.T) {
	arr := NewArray(2)
	arr.Set(0, "present")
	doc := DocumentOf(Field{Name: "list", Value: arr})

	if _, ok := WalkGet(doc, "list.1"); ok {
		t.Fatalf("holes must not resolve")
	}
}

func TestWalkSetCreatesIntermediates(t *testing.T) {
	doc := NewDocument()
	if !WalkSet(doc, "profile.contact.email", "a@b") {
		t.Fatalf("expected write to land")
	}
	if value, ok := WalkGet(doc, "profile.contact.email"); !ok || value != "a@b" {
		t.Fatalf("expected readback, got %v", value)
	}
}

func TestWalkSetNeverGrowsArrays(t *testing.T) {
	doc := DocumentOf(Field{Name: "list", Value: ArrayOf("a", "b")})

	if !WalkSet(doc, "list.1", "B") {
		t.Fatalf("in-range array write should land")
	}
	if value, _ := WalkGet(doc, "list.1"); value != "B" {
		t.Fatalf("expected overwrite, got %v", value)
	}

	if WalkSet(doc, "list.2", "c") {
		t.Fatalf("out-of-range array write must not land")
	}
	if WalkSet(doc, "list.x", "c") {
		t.Fatalf("non numeric array segment must not land")
	}
}

func TestWalkSetRejectsScalarIntermediates(t *testing.T) {
	doc := DocumentOf(Field{Name: "name", Value: "ada"})
	if WalkSet(doc, "name.first", "a") {
		t.Fatalf("cannot descend through a scalar")
	}
	if WalkSet(nil, "a", 1) {
		t.Fatalf("nil root accepts nothing")
	}
	if WalkSet(doc, "", 1) {
		t.Fatalf("empty path accepts nothing")
	}
}

func TestFieldPaths(t *testing.T) {
	doc := DocumentOf(
		Field{Name: "name", Value: "ada"},
		Field{Name: "friend", Value: NewReference("users/2")},
		Field{Name: "profile", Value: DocumentOf(
			Field{Name: "age", Value: 36},
			Field{Name: "tags", Value: ArrayOf("x", "y")},
		)},
		Field{Name: "empty", Value: NewDocument()},
		Field{Name: "none", Value: nil},
	)

	want := []FieldDescriptor{
		{Path: "name", Type: "string"},
		{Path: "friend", Type: "reference"},
		{Path: "profile.age", Type: "int"},
		{Path: "profile.tags.0", Type: "string"},
		{Path: "profile.tags.1", Type: "string"},
		{Path: "empty", Type: "document"},
		{Path: "none", Type: "nil"},
	}
	if got := FieldPaths(doc); !reflect.DeepEqual(got, want) {
		t.Fatalf("descriptor mismatch:\nwant: %v\n got: %v", want, got)
	}
}

func TestFieldPathsEmptyRoot(t *testing.T) {
	if got := FieldPaths(NewDocument()); len(got) != 0 {
		t.Fatalf("empty root has no leaves, got %v", got)
	}
	if got := FieldPaths(nil); len(got) != 0 {
		t.Fatalf("nil root has no leaves, got %v", got)
	}
}
