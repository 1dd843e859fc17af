// Package openapi renders OpenAPI documents describing normalized document
// trees. Schemas are derived from observed values rather than Go types:
// pass a document and the generator describes the shape it carries,
// reference fields included.
package openapi

// Generator builds OpenAPI documents for document trees.
type Generator struct {
	config generatorConfig
}

// NewGenerator constructs a Generator. Without options the document exposes
// a single post operation whose request body carries the derived schema.
func NewGenerator(opts ...GeneratorOption) *Generator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Generator{config: cfg}
}

// Generate builds a complete OpenAPI document whose request schema describes
// value. Repeated subtrees are deduplicated into components.
func (g *Generator) Generate(value any) (map[string]any, error) {
	root := buildSchemaGraph(value)
	registry := newComponentRegistry()
	builder := newOpenAPIDocumentBuilder(g.config, registry, root)
	return builder.build()
}

// Schema derives just the inline schema for value, without the surrounding
// OpenAPI document.
func (g *Generator) Schema(value any) map[string]any {
	return buildSchemaGraph(value).inlineOpenAPI()
}
