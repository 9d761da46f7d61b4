package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/seedworks/arbor/pkg/domain"
)

type nopStore struct{}

func (nopStore) Save(ctx context.Context, sessionID string, state *domain.State) error {
	return nil
}
func (nopStore) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	return domain.NewState(), nil
}
func (nopStore) Delete(ctx context.Context, sessionID string) error { return nil }
func (nopStore) List(ctx context.Context) ([]string, error)        { return nil, nil }

func TestManager_LockEntriesAreCollected(t *testing.T) {
	mgr := NewManager(nopStore{})
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_ = mgr.Save(ctx, sid, domain.NewState())
		_ = mgr.Delete(ctx, sid)
	}

	// Reference counting must reclaim every entry once its last holder
	// releases it.
	if remaining := len(mgr.locks); remaining != 0 {
		t.Errorf("lock map leak: %d entries remaining after all sessions released", remaining)
	}
}
