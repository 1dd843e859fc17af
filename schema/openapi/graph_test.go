package openapi

import (
	"reflect"
	"testing"
	"time"

	docref "github.com/goliatone/go-docref"
)

func TestBuildSchemaGraphDocument(t *testing.T) {
	doc := docref.DocumentOf(
		docref.Field{Name: "name", Value: "ada"},
		docref.Field{Name: "age", Value: 36},
		docref.Field{Name: "score", Value: 9.5},
		docref.Field{Name: "active", Value: true},
		docref.Field{Name: "nickname", Value: nil},
		docref.Field{Name: "friend", Value: docref.NewReference("users/2")},
		docref.Field{Name: "home", Value: docref.GeoPoint{Latitude: 41.4, Longitude: 2.2}},
		docref.Field{Name: "joined", Value: docref.TimestampOf(time.Unix(1700000000, 0))},
		docref.Field{Name: "seen", Value: time.Unix(1700000500, 0)},
		docref.Field{Name: "tags", Value: docref.ArrayOf("vip", "beta")},
	)

	schema := buildSchemaGraph(doc).inlineOpenAPI()

	if schema["type"] != "object" {
		t.Fatalf("expected object type, got %v", schema["type"])
	}

	required, ok := schema["required"].([]string)
	if !ok {
		t.Fatalf("expected required slice, got %T", schema["required"])
	}
	expectedRequired := []string{"active", "age", "friend", "home", "joined", "name", "nickname", "score", "seen", "tags"}
	if !reflect.DeepEqual(expectedRequired, required) {
		t.Fatalf("unexpected required fields\nwant: %v\ngot:  %v", expectedRequired, required)
	}

	props := schema["properties"].(map[string]any)

	scalars := map[string]string{
		"name":     "string",
		"age":      "integer",
		"score":    "number",
		"active":   "boolean",
		"nickname": "null",
	}
	for field, wantType := range scalars {
		prop := props[field].(map[string]any)
		if prop["type"] != wantType {
			t.Fatalf("expected %s type %q, got %v", field, wantType, prop["type"])
		}
	}

	friend := props["friend"].(map[string]any)
	if friend["type"] != "string" || friend["format"] != "reference" {
		t.Fatalf("expected reference-formatted string, got %v", friend)
	}
	relationships := friend["x-relationships"].(map[string]any)
	expectedRel := map[string]any{"collection": "users", "target": "users/2"}
	if !reflect.DeepEqual(expectedRel, relationships) {
		t.Fatalf("unexpected relationships\nwant: %v\ngot:  %v", expectedRel, relationships)
	}

	home := props["home"].(map[string]any)
	if home["type"] != "object" {
		t.Fatalf("expected geo point object, got %v", home["type"])
	}
	geoProps := home["properties"].(map[string]any)
	for _, coord := range []string{"latitude", "longitude"} {
		if geoProps[coord].(map[string]any)["type"] != "number" {
			t.Fatalf("expected %s number, got %v", coord, geoProps[coord])
		}
	}
	if got := home["required"].([]string); !reflect.DeepEqual([]string{"latitude", "longitude"}, got) {
		t.Fatalf("unexpected geo required %v", got)
	}

	for _, field := range []string{"joined", "seen"} {
		prop := props[field].(map[string]any)
		if prop["type"] != "string" || prop["format"] != "date-time" {
			t.Fatalf("expected %s as date-time string, got %v", field, prop)
		}
	}

	tags := props["tags"].(map[string]any)
	if tags["type"] != "array" {
		t.Fatalf("expected tags array, got %v", tags["type"])
	}
	if items := tags["items"].(map[string]any); items["type"] != "string" {
		t.Fatalf("expected string items, got %v", items)
	}
}

func TestBuildSchemaGraphRawContainers(t *testing.T) {
	value := map[string]any{
		"server": map[string]any{
			"host": "primary.local",
			"port": 8080,
		},
		"hosts": []any{"us-east-1", "us-west-2"},
	}

	schema := buildSchemaGraph(value).inlineOpenAPI()
	props := schema["properties"].(map[string]any)

	server := props["server"].(map[string]any)
	if server["type"] != "object" {
		t.Fatalf("expected nested object, got %v", server["type"])
	}
	if got := server["required"].([]string); !reflect.DeepEqual([]string{"host", "port"}, got) {
		t.Fatalf("unexpected nested required %v", got)
	}

	hosts := props["hosts"].(map[string]any)
	if hosts["type"] != "array" || hosts["items"].(map[string]any)["type"] != "string" {
		t.Fatalf("unexpected hosts schema %v", hosts)
	}
}

func TestBuildSchemaGraphArrayItems(t *testing.T) {
	sparse := docref.NewArray(3)
	sparse.Set(1, "x")
	sparse.Set(2, 7)

	schema := buildSchemaGraph(sparse).inlineOpenAPI()
	if schema["type"] != "array" {
		t.Fatalf("expected array type, got %v", schema["type"])
	}
	// The first present element decides the item schema, holes do not count.
	if items := schema["items"].(map[string]any); items["type"] != "string" {
		t.Fatalf("expected items from first present element, got %v", items)
	}

	empty := buildSchemaGraph(docref.NewArray(0)).inlineOpenAPI()
	if items := empty["items"].(map[string]any); len(items) != 0 {
		t.Fatalf("expected unconstrained items for empty array, got %v", items)
	}

	rawEmpty := buildSchemaGraph([]any{}).inlineOpenAPI()
	if items := rawEmpty["items"].(map[string]any); len(items) != 0 {
		t.Fatalf("expected unconstrained items for empty slice, got %v", items)
	}
}

func TestBuildSchemaGraphCycleGuard(t *testing.T) {
	cyclic := map[string]any{}
	cyclic["self"] = cyclic

	schema := buildSchemaGraph(cyclic).inlineOpenAPI()
	self := schema["properties"].(map[string]any)["self"].(map[string]any)
	if self["type"] != "object" {
		t.Fatalf("expected cycle to collapse into object, got %v", self["type"])
	}
	if props := self["properties"].(map[string]any); len(props) != 0 {
		t.Fatalf("expected empty properties on the collapsed node, got %v", props)
	}

	loop := []any{nil}
	loop[0] = loop

	arraySchema := buildSchemaGraph(loop).inlineOpenAPI()
	if arraySchema["type"] != "array" {
		t.Fatalf("expected array type, got %v", arraySchema["type"])
	}
	if items := arraySchema["items"].(map[string]any); items["type"] != "array" {
		t.Fatalf("expected collapsed inner array, got %v", items)
	}
}

func TestReferenceNodeCollections(t *testing.T) {
	nested := buildSchemaGraph(docref.NewReference("users/7/orders/a1")).inlineOpenAPI()
	relationships := nested["x-relationships"].(map[string]any)
	if relationships["collection"] != "users/7/orders" {
		t.Fatalf("expected nested collection, got %v", relationships["collection"])
	}

	bare := buildSchemaGraph(docref.NewReference("users")).inlineOpenAPI()
	relationships = bare["x-relationships"].(map[string]any)
	if _, exists := relationships["collection"]; exists {
		t.Fatalf("single-segment path should not carry a collection, got %v", relationships)
	}
	if relationships["target"] != "users" {
		t.Fatalf("expected target users, got %v", relationships["target"])
	}
}

func TestScalarFallbackFormat(t *testing.T) {
	type customScalar struct{ X int }

	schema := buildSchemaGraph(customScalar{X: 1}).inlineOpenAPI()
	if schema["type"] != "string" {
		t.Fatalf("expected string fallback, got %v", schema["type"])
	}
	if schema["format"] != "go:openapi.customScalar" {
		t.Fatalf("unexpected fallback format %v", schema["format"])
	}
}

func TestSchemaNodeDigest(t *testing.T) {
	first := buildSchemaGraph(map[string]any{"value": "a"})
	second := buildSchemaGraph(map[string]any{"value": "b"})
	if first.Digest() != second.Digest() {
		t.Fatalf("expected identical digests for identical shapes")
	}

	third := buildSchemaGraph(map[string]any{"value": 3})
	if first.Digest() == third.Digest() {
		t.Fatalf("expected differing digests for differing shapes")
	}
}
