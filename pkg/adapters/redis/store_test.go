package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seedworks/arbor/pkg/adapters/redis"
	"github.com/seedworks/arbor/pkg/domain"
	"github.com/seedworks/arbor/pkg/ports/tests"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newTestClient(t)
	tests.RunStateStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_JSONRoundTripPreservesRetryContext(t *testing.T) {
	_, client := newTestClient(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	state := domain.NewStateWith(map[string]any{
		domain.KeyQuestion:    "What is 7 + 5?",
		domain.KeyAttempts:    1,
		domain.KeyHintHistory: []string{"count up from 7"},
	})
	state.AppendTrace("give_hint", "issued hint 1 of 2")

	require.NoError(t, store.Save(ctx, "tutor-1", state))

	loaded, err := store.Load(ctx, "tutor-1")
	require.NoError(t, err)

	// JSON turns ints into float64 and slices into []any; the typed
	// accessors must still read the retry context back.
	assert.Equal(t, 1, loaded.GetInt(domain.KeyAttempts))
	assert.Equal(t, []string{"count up from 7"}, loaded.GetStringSlice(domain.KeyHintHistory))
	assert.Equal(t, []string{"give_hint"}, loaded.TraceNodes())
}

func TestRedisStore_TTLExpiryPrunedFromList(t *testing.T) {
	mr, client := newTestClient(t)

	// The store scores index entries with its own clock while miniredis
	// expires payload keys with its internal one; advance both in step.
	current := time.Now()
	store := redis.NewFromClient(client,
		redis.WithTTL(time.Second),
		redis.WithClock(func() time.Time { return current }),
	)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "ephemeral", domain.NewState()))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, sessions, "ephemeral")

	mr.FastForward(2 * time.Second)
	current = current.Add(2 * time.Second)

	_, err = store.Load(ctx, "ephemeral")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	sessions, err = store.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, sessions, "ephemeral", "lazy cleanup must prune expired index entries")
}
