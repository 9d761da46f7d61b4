package domain

// TraceEntry is a single step record: which node acted and a short
// human-readable summary of the outcome. Handlers append exactly one
// entry per visit when a decision worth surfacing occurs.
type TraceEntry struct {
	Node    string `json:"node"`
	Summary string `json:"summary"`
}

// AppendTrace records a step summary on the state.
func (s *State) AppendTrace(node, summary string) {
	s.Trace = append(s.Trace, TraceEntry{Node: node, Summary: summary})
}

// TraceNodes returns the ordered node names of the trace. Convenient for
// assertions and for visualization overlays.
func (s *State) TraceNodes() []string {
	nodes := make([]string, len(s.Trace))
	for i, entry := range s.Trace {
		nodes[i] = entry.Node
	}
	return nodes
}
