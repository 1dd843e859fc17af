package activity

import (
	"strings"
	"time"
)

// DocumentEventInput describes the common fields for document lifecycle
// events emitted by the stores.
type DocumentEventInput struct {
	ActorID        string
	UserID         string
	TenantID       string
	Store          string // originating store flavor ("docstore", "treestore")
	Path           string // document or node location
	Key            string // tree node key, when applicable
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OldValue       any
	NewValue       any
	OccurredAt     time.Time
}

// BuildDocumentAddedEvent constructs a normalized event for a document minted
// into a collection.
func BuildDocumentAddedEvent(input DocumentEventInput) Event {
	return buildDocumentEvent("document.added", "document", input)
}

// BuildDocumentSetEvent constructs a normalized event for a document write.
func BuildDocumentSetEvent(input DocumentEventInput) Event {
	return buildDocumentEvent("document.set", "document", input)
}

// BuildDocumentRemovedEvent constructs a normalized event for a document
// deletion.
func BuildDocumentRemovedEvent(input DocumentEventInput) Event {
	return buildDocumentEvent("document.removed", "document", input)
}

// BuildNodeWrittenEvent constructs a normalized event for a realtime tree
// node write.
func BuildNodeWrittenEvent(input DocumentEventInput) Event {
	return buildDocumentEvent("tree.node.written", "tree.node", input)
}

// BuildNodeRemovedEvent constructs a normalized event for a realtime tree
// node removal.
func BuildNodeRemovedEvent(input DocumentEventInput) Event {
	return buildDocumentEvent("tree.node.removed", "tree.node", input)
}

// BuildReferenceBoundEvent constructs a normalized event for a reference
// position gaining a resolved target.
func BuildReferenceBoundEvent(input DocumentEventInput) Event {
	return buildDocumentEvent("reference.bound", "reference", input)
}

func buildDocumentEvent(verb, objectType string, input DocumentEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Store != "" {
		metadata = ensureMetadata(metadata)
		metadata["store"] = input.Store
	}
	if input.Path != "" {
		metadata = ensureMetadata(metadata)
		metadata["path"] = input.Path
	}
	if input.Key != "" {
		metadata = ensureMetadata(metadata)
		metadata["key"] = input.Key
	}
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}

	recipients := input.Recipients
	if len(recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	objectID := strings.TrimSpace(input.Path)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Key)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:           verb,
		ActorID:        strings.TrimSpace(input.ActorID),
		UserID:         strings.TrimSpace(input.UserID),
		TenantID:       strings.TrimSpace(input.TenantID),
		ObjectType:     objectType,
		ObjectID:       objectID,
		Channel:        strings.TrimSpace(input.Channel),
		DefinitionCode: strings.TrimSpace(input.DefinitionCode),
		Recipients:     recipients,
		Metadata:       metadata,
		OccurredAt:     input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
