package domain_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/seedworks/arbor/pkg/domain"
)

func TestState_TypedAccessors(t *testing.T) {
	s := domain.NewStateWith(map[string]any{
		"question": "2+2?",
		"found":    true,
		"attempts": 2,
	})

	if s.GetString("question") != "2+2?" {
		t.Errorf("GetString failed: %v", s.Values)
	}
	if !s.GetBool("found") {
		t.Error("GetBool failed")
	}
	if s.GetInt("attempts") != 2 {
		t.Error("GetInt failed")
	}
	if s.GetString("missing") != "" || s.GetBool("missing") || s.GetInt("missing") != 0 {
		t.Error("missing fields should yield zero values")
	}
}

func TestState_JSONRoundTripNumbersAndSlices(t *testing.T) {
	s := domain.NewStateWith(map[string]any{
		"attempts":    2,
		"hintHistory": []string{"think about carrying", "check the sign"},
	})
	s.AppendTrace("give_hint", "hint 2 issued")

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var restored domain.State
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	// JSON turns ints into float64 and []string into []any; the typed
	// accessors must absorb that, or resumed sessions would misbehave.
	if restored.GetInt("attempts") != 2 {
		t.Errorf("attempts lost in round trip: %v", restored.Values["attempts"])
	}
	hints := restored.GetStringSlice("hintHistory")
	if !reflect.DeepEqual(hints, []string{"think about carrying", "check the sign"}) {
		t.Errorf("hintHistory lost in round trip: %v", hints)
	}
	if len(restored.Trace) != 1 || restored.Trace[0].Node != "give_hint" {
		t.Errorf("trace lost in round trip: %v", restored.Trace)
	}
}

func TestState_SetErrorNeverCleared(t *testing.T) {
	s := domain.NewState()
	s.SetError("lookup failed")
	s.SetError("") // Ignored: the error field is never cleared.

	if s.Err() != "lookup failed" {
		t.Errorf("expected error preserved, got %q", s.Err())
	}

	s.SetError("grader failed")
	if s.Err() != "grader failed" {
		t.Errorf("overwrite with a new message should work, got %q", s.Err())
	}
}

func TestState_Clone(t *testing.T) {
	s := domain.NewStateWith(map[string]any{"a": 1})
	s.AppendTrace("n", "x")

	c := s.Clone()
	c.Set("a", 2)
	c.AppendTrace("m", "y")

	if s.GetInt("a") != 1 || len(s.Trace) != 1 {
		t.Errorf("Clone mutated the original: %v %v", s.Values, s.Trace)
	}
}
