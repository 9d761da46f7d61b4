package domain

// Conventional field keys shared by the bundled flows. A State is open:
// any key may be stored, these are just the names the flows agree on.
const (
	KeyQuestion    = "question"
	KeyAnswer      = "answer"
	KeyFound       = "found"
	KeyAttempts    = "attempts"
	KeyHintHistory = "hintHistory"
	KeyError       = "error"
)

// State represents the record threaded through one graph invocation.
// Fields are added or overwritten as nodes execute, never removed.
// The zero value is not usable; construct with NewState.
type State struct {
	// Values holds the named fields of the invocation (User space).
	Values map[string]any `json:"values"`

	// Trace is the ordered, append-only log of step summaries.
	Trace []TraceEntry `json:"trace,omitempty"`
}

// NewState creates an empty state ready for an invocation.
func NewState() *State {
	return &State{
		Values: make(map[string]any),
	}
}

// NewStateWith creates a state pre-populated with the given fields.
func NewStateWith(values map[string]any) *State {
	s := NewState()
	for k, v := range values {
		s.Values[k] = v
	}
	return s
}

// Set stores a field value, overwriting any previous value.
func (s *State) Set(key string, value any) {
	s.Values[key] = value
}

// Merge copies the given fields into the state, overwriting on conflict.
func (s *State) Merge(values map[string]any) {
	for k, v := range values {
		s.Values[k] = v
	}
}

// Get returns the raw value for key and whether it was present.
func (s *State) Get(key string) (any, bool) {
	v, ok := s.Values[key]
	return v, ok
}

// GetString returns the field as a string, or "" if absent or not a string.
func (s *State) GetString(key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

// GetBool returns the field as a bool, or false if absent or not a bool.
func (s *State) GetBool(key string) bool {
	if v, ok := s.Values[key].(bool); ok {
		return v
	}
	return false
}

// GetInt returns the field as an int. Numeric values that arrive as
// float64 (the JSON round-trip through a StateStore) are converted.
func (s *State) GetInt(key string) int {
	switch v := s.Values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// GetStringSlice returns the field as a []string. Slices that arrive as
// []any after a JSON round-trip are converted element by element.
func (s *State) GetStringSlice(key string) []string {
	switch v := s.Values[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// SetError records a recoverable problem on the state. Once set, the error
// field is never cleared within the invocation; subsequent calls overwrite
// the message but an empty message is ignored.
func (s *State) SetError(msg string) {
	if msg == "" {
		return
	}
	s.Values[KeyError] = msg
}

// Err returns the recorded error message, if any.
func (s *State) Err() string {
	return s.GetString(KeyError)
}

// Clone returns a copy with its own Values map and Trace slice.
// Nested values are shared; stores serialize to JSON for full isolation.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	next := NewState()
	for k, v := range s.Values {
		next.Values[k] = v
	}
	next.Trace = append([]TraceEntry(nil), s.Trace...)
	return next
}
