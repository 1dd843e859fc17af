package openapi

import (
	"fmt"
	"regexp"
)

// componentRegistry deduplicates structurally identical subtrees into
// components/schemas entries. A subtree is promoted once it is seen twice,
// or immediately when forced.
type componentRegistry struct {
	entries   map[string]*componentEntry
	usedNames map[string]struct{}
}

type componentEntry struct {
	name     string
	schema   map[string]any
	count    int
	promoted bool
}

func newComponentRegistry() *componentRegistry {
	return &componentRegistry{
		entries:   map[string]*componentEntry{},
		usedNames: map[string]struct{}{},
	}
}

// register records a sighting of node under nameHint. It returns a $ref
// target once the node is promoted, "" while it is still inline-only.
func (r *componentRegistry) register(nameHint string, node *schemaNode) string {
	return r.track(nameHint, node, false)
}

// forceReference promotes node immediately under the given name.
func (r *componentRegistry) forceReference(name string, node *schemaNode) string {
	return r.track(name, node, true)
}

func (r *componentRegistry) track(nameHint string, node *schemaNode, force bool) string {
	if node == nil {
		return ""
	}
	digest := node.Digest()
	if digest == "" {
		return ""
	}

	entry, ok := r.entries[digest]
	if !ok {
		entry = &componentEntry{name: r.uniqueName(nameHint)}
		r.entries[digest] = entry
	}
	entry.count++
	if force || entry.count >= 2 {
		entry.promoted = true
	}
	if !entry.promoted {
		return ""
	}
	if entry.schema == nil {
		entry.schema = node.inlineOpenAPI()
	}
	return fmt.Sprintf("#/components/schemas/%s", entry.name)
}

func (r *componentRegistry) componentsMap() map[string]any {
	out := map[string]any{}
	for _, entry := range r.entries {
		if !entry.promoted {
			continue
		}
		if entry.schema == nil {
			entry.schema = map[string]any{}
		}
		out[entry.name] = entry.schema
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (r *componentRegistry) uniqueName(name string) string {
	safe := sanitizeComponentName(name)
	if safe == "" {
		safe = "Schema"
	}
	if _, exists := r.usedNames[safe]; !exists {
		r.usedNames[safe] = struct{}{}
		return safe
	}
	suffix := 1
	for {
		candidate := fmt.Sprintf("%s%d", safe, suffix)
		if _, exists := r.usedNames[candidate]; !exists {
			r.usedNames[candidate] = struct{}{}
			return candidate
		}
		suffix++
	}
}

var componentNameRegexp = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

func sanitizeComponentName(name string) string {
	name = componentNameRegexp.ReplaceAllString(name, "_")
	name = trimUnderscores(name)
	if name == "" {
		return ""
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

func trimUnderscores(input string) string {
	start := 0
	for start < len(input) && input[start] == '_' {
		start++
	}
	end := len(input)
	for end > start && input[end-1] == '_' {
		end--
	}
	return input[start:end]
}
