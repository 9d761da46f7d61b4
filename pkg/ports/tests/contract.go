// Package tests provides reusable contract suites for ports implementations.
package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/seedworks/arbor/pkg/domain"
	"github.com/seedworks/arbor/pkg/ports"
)

// RunStateStoreContract verifies that a StateStore implementation honors
// the ports.StateStore semantics. Adapters call it from their own tests.
func RunStateStoreContract(t *testing.T, store ports.StateStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("SaveAndLoad", func(t *testing.T) {
		state := domain.NewStateWith(map[string]any{
			"question": "what is an arbor?",
			"attempts": 1,
		})
		state.AppendTrace("check_answer", "incorrect, hint issued")

		if err := store.Save(ctx, "contract-1", state); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		loaded, err := store.Load(ctx, "contract-1")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.GetString("question") != "what is an arbor?" {
			t.Errorf("question not preserved: %v", loaded.Values)
		}
		if loaded.GetInt("attempts") != 1 {
			t.Errorf("attempts not preserved: %v", loaded.Values)
		}
		if len(loaded.Trace) != 1 || loaded.Trace[0].Node != "check_answer" {
			t.Errorf("trace not preserved: %v", loaded.Trace)
		}
	})

	t.Run("LoadIsolation", func(t *testing.T) {
		state := domain.NewStateWith(map[string]any{"counter": 1})
		if err := store.Save(ctx, "contract-2", state); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		first, err := store.Load(ctx, "contract-2")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		first.Set("counter", 99)

		second, err := store.Load(ctx, "contract-2")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if second.GetInt("counter") != 1 {
			t.Errorf("store leaked mutation through Load: %v", second.Values)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "contract-missing")
		if !errors.Is(err, domain.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Save(ctx, "contract-3", domain.NewState()); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if err := store.Delete(ctx, "contract-3"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		_, err := store.Load(ctx, "contract-3")
		if !errors.Is(err, domain.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		if err := store.Save(ctx, "contract-4", domain.NewState()); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		sessions, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		found := false
		for _, id := range sessions {
			if id == "contract-4" {
				found = true
			}
		}
		if !found {
			t.Errorf("expected contract-4 in session list, got %v", sessions)
		}
	})
}
