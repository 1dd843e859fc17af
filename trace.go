package docref

import (
	"encoding/json"
	"sort"
)

// ResolutionTrace captures provenance information for one decomposition: the
// document it started from and the per-reference binding state at that point.
type ResolutionTrace struct {
	Path string          `json:"path"`
	Refs []RefProvenance `json:"refs"`
}

// RefProvenance details how a single reference position stands: the
// subscription key it occupies, the path it points at, whether a subscription
// is bound to it, and whether the target document is already resolved.
type RefProvenance struct {
	SubKey     string `json:"sub_key"`
	TargetPath string `json:"target_path"`
	Bound      bool   `json:"bound"`
	Resolved   bool   `json:"resolved"`
}

// NewResolutionTrace builds a trace from the outcome of an Extract call. The
// entries are sorted by subscription key so traces of the same state compare
// equal.
func NewResolutionTrace(path string, refs RefMap, subs Subscriptions) ResolutionTrace {
	trace := ResolutionTrace{Path: path, Refs: make([]RefProvenance, 0, len(refs))}
	index := PathIndex(subs)
	for subKey, ref := range refs {
		_, bound := subs[subKey]
		data, tracked := index[ref.Path()]
		trace.Refs = append(trace.Refs, RefProvenance{
			SubKey:     subKey,
			TargetPath: ref.Path(),
			Bound:      bound,
			Resolved:   tracked && data != nil,
		})
	}
	sort.Slice(trace.Refs, func(i, j int) bool {
		return trace.Refs[i].SubKey < trace.Refs[j].SubKey
	})
	return trace
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t ResolutionTrace) ToJSON() ([]byte, error) {
	type alias ResolutionTrace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (ResolutionTrace, error) {
	type alias ResolutionTrace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return ResolutionTrace{}, err
	}
	return ResolutionTrace(trace), nil
}
