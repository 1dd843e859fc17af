package docstore

import (
	docref "github.com/goliatone/go-docref"
)

// mergeFields composes incoming over existing: nested maps merge key by key,
// everything else (slices included) is replaced wholesale by the incoming
// value. Both inputs stay untouched; the result is freshly allocated.
func mergeFields(existing, incoming map[string]any) map[string]any {
	merged := make(map[string]any, len(existing)+len(incoming))
	for key, value := range existing {
		merged[key] = docref.CloneValue(value)
	}
	for key, value := range incoming {
		incomingMap, incomingIsMap := value.(map[string]any)
		existingMap, existingIsMap := merged[key].(map[string]any)
		if incomingIsMap && existingIsMap {
			merged[key] = mergeFields(existingMap, incomingMap)
			continue
		}
		merged[key] = docref.CloneValue(value)
	}
	return merged
}
