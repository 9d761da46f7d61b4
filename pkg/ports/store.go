package ports

import (
	"context"

	"github.com/seedworks/arbor/pkg/domain"
)

// StateStore defines the interface for persisting execution state between
// invocations. The engine itself never persists: the caller saves the
// result of one invocation and re-supplies it on the next (resumable
// retry loops carry attempt counters and hint history this way).
type StateStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.State) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.State, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of active sessions.
	List(ctx context.Context) ([]string, error)
}
