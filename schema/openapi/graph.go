package openapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	docref "github.com/goliatone/go-docref"
)

type schemaNode struct {
	Type              string
	Format            string
	Properties        map[string]*schemaNode
	Required          []string
	Items             *schemaNode
	relationships     map[string]string
	additionalMapping map[string]any
}

func newObjectNode() *schemaNode {
	return &schemaNode{
		Type:       "object",
		Properties: map[string]*schemaNode{},
	}
}

func (n *schemaNode) baseMap() map[string]any {
	result := map[string]any{}
	if n.Type != "" {
		result["type"] = n.Type
	}
	if n.Format != "" {
		result["format"] = n.Format
	}
	return result
}

func (n *schemaNode) inlineOpenAPI() map[string]any {
	result := n.baseMap()

	if len(n.Properties) > 0 || n.Type == "object" {
		props := make(map[string]any, len(n.Properties))
		names := make([]string, 0, len(n.Properties))
		for name := range n.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			props[name] = n.Properties[name].inlineOpenAPI()
		}
		result["properties"] = props
	}

	if len(n.Required) > 0 {
		names := append([]string{}, n.Required...)
		sort.Strings(names)
		result["required"] = names
	}

	if n.Items != nil {
		result["items"] = n.Items.inlineOpenAPI()
	}

	if len(n.relationships) > 0 {
		result["x-relationships"] = orderedStringMap(n.relationships)
	}

	if len(n.additionalMapping) > 0 {
		keys := make([]string, 0, len(n.additionalMapping))
		for key := range n.additionalMapping {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			result[key] = n.additionalMapping[key]
		}
	}

	return result
}

func (n *schemaNode) ensureRelationships() map[string]string {
	if n.relationships == nil {
		n.relationships = map[string]string{}
	}
	return n.relationships
}

func (n *schemaNode) Digest() string {
	payload := n.inlineOpenAPI()
	data, err := json.Marshal(payload)
	if err != nil {
		// json.Marshal should never fail for the constructed payload; fall back to
		// an empty digest to avoid panics.
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

type schemaBuilder struct {
	visited map[uintptr]bool
}

func newSchemaBuilder() *schemaBuilder {
	return &schemaBuilder{
		visited: map[uintptr]bool{},
	}
}

// buildSchemaGraph derives a schema from an observed value tree. Documents
// become objects whose observed fields are required, arrays take their item
// schema from the first present element, and reference handles surface as
// reference-formatted strings carrying relationship metadata.
func buildSchemaGraph(value any) *schemaNode {
	node := newSchemaBuilder().build(value)
	if node == nil {
		return newObjectNode()
	}
	if node.Type == "" {
		node.Type = "object"
	}
	if node.Type == "object" && node.Properties == nil {
		node.Properties = map[string]*schemaNode{}
	}
	return node
}

func (b *schemaBuilder) build(value any) *schemaNode {
	switch docref.Classify(value) {
	case docref.KindNil:
		return &schemaNode{Type: "null"}
	case docref.KindOpaque:
		return opaqueNode(value)
	case docref.KindReference:
		return referenceNode(value.(*docref.Reference))
	case docref.KindArray:
		return b.buildArray(value)
	case docref.KindDocument:
		return b.buildDocument(value)
	default:
		return scalarNode(value)
	}
}

func (b *schemaBuilder) buildDocument(value any) *schemaNode {
	if key, ok := pointerKey(value); ok {
		if b.visited[key] {
			return newObjectNode()
		}
		b.visited[key] = true
		defer delete(b.visited, key)
	}

	node := newObjectNode()
	addField := func(name string, field any) {
		node.Properties[name] = b.build(field)
		node.Required = append(node.Required, name)
	}

	switch typed := value.(type) {
	case *docref.Document:
		for _, name := range typed.Keys() {
			field, _ := typed.Get(name)
			addField(name, field)
		}
	case map[string]any:
		names := make([]string, 0, len(typed))
		for name := range typed {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			addField(name, typed[name])
		}
	}
	return node
}

func (b *schemaBuilder) buildArray(value any) *schemaNode {
	if key, ok := pointerKey(value); ok {
		if b.visited[key] {
			return &schemaNode{Type: "array", Items: &schemaNode{}}
		}
		b.visited[key] = true
		defer delete(b.visited, key)
	}

	node := &schemaNode{Type: "array"}
	if element, ok := firstElement(value); ok {
		node.Items = b.build(element)
	} else {
		node.Items = &schemaNode{}
	}
	return node
}

func opaqueNode(value any) *schemaNode {
	if _, ok := value.(docref.GeoPoint); ok {
		return &schemaNode{
			Type: "object",
			Properties: map[string]*schemaNode{
				"latitude":  {Type: "number"},
				"longitude": {Type: "number"},
			},
			Required: []string{"latitude", "longitude"},
		}
	}
	return &schemaNode{Type: "string", Format: "date-time"}
}

func referenceNode(ref *docref.Reference) *schemaNode {
	node := &schemaNode{Type: "string", Format: "reference"}
	meta := node.ensureRelationships()
	meta["target"] = ref.Path()
	if collection := collectionOf(ref.Path()); collection != "" {
		meta["collection"] = collection
	}
	return node
}

func scalarNode(value any) *schemaNode {
	switch value.(type) {
	case bool:
		return &schemaNode{Type: "boolean"}
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr:
		return &schemaNode{Type: "integer"}
	case float32, float64, json.Number:
		return &schemaNode{Type: "number"}
	case string:
		return &schemaNode{Type: "string"}
	default:
		return &schemaNode{
			Type:   "string",
			Format: fmt.Sprintf("go:%T", value),
		}
	}
}

// pointerKey identifies containers that can alias themselves so the builder
// does not recurse into a cycle.
func pointerKey(value any) (uintptr, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	default:
		return 0, false
	}
}

func firstElement(value any) (any, bool) {
	switch typed := value.(type) {
	case *docref.Array:
		var element any
		found := false
		typed.Range(func(i int, item any) bool {
			element = item
			found = true
			return false
		})
		return element, found
	case []any:
		if len(typed) > 0 {
			return typed[0], true
		}
	}
	return nil, false
}

func collectionOf(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return ""
	}
	return path[:idx]
}

func orderedStringMap(values map[string]string) map[string]any {
	out := make(map[string]any, len(values))
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		out[key] = values[key]
	}
	return out
}
