package session_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/robalyx/personaguard/internal/database/types/enum"
	"github.com/robalyx/personaguard/internal/engine/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupStore(t *testing.T) (*session.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return session.NewStore(client, time.Minute, zap.NewNop()), mr
}

func TestMarkPhaseWarned(t *testing.T) {
	t.Parallel()

	store, mr := setupStore(t)
	ctx := t.Context()

	first, err := store.MarkPhaseWarned(ctx, "agent-1", enum.BehaviorTypeYandereObsessive, 7)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.MarkPhaseWarned(ctx, "agent-1", enum.BehaviorTypeYandereObsessive, 7)
	require.NoError(t, err)
	assert.False(t, again)

	// Other phases and agents warn independently.
	other, err := store.MarkPhaseWarned(ctx, "agent-1", enum.BehaviorTypeYandereObsessive, 8)
	require.NoError(t, err)
	assert.True(t, other)

	otherAgent, err := store.MarkPhaseWarned(ctx, "agent-2", enum.BehaviorTypeYandereObsessive, 7)
	require.NoError(t, err)
	assert.True(t, otherAgent)

	// Warnings re-arm once the session entry expires.
	mr.FastForward(2 * time.Minute)

	rearmed, err := store.MarkPhaseWarned(ctx, "agent-1", enum.BehaviorTypeYandereObsessive, 7)
	require.NoError(t, err)
	assert.True(t, rearmed)
}

func TestPendingConsent(t *testing.T) {
	t.Parallel()

	store, _ := setupStore(t)
	ctx := t.Context()

	t.Run("take returns what was set and consumes it", func(t *testing.T) {
		require.NoError(t, store.SetPendingConsent(
			ctx, "user-1", "agent-1", enum.BehaviorTypeYandereObsessive, "YANDERE_OBSESSIVE_phase_8"))

		behavior, key, pending, err := store.TakePendingConsent(ctx, "user-1", "agent-1")
		require.NoError(t, err)
		assert.True(t, pending)
		assert.Equal(t, enum.BehaviorTypeYandereObsessive, behavior)
		assert.Equal(t, "YANDERE_OBSESSIVE_phase_8", key)

		_, _, pending, err = store.TakePendingConsent(ctx, "user-1", "agent-1")
		require.NoError(t, err)
		assert.False(t, pending)
	})

	t.Run("nothing pending for an unknown subject", func(t *testing.T) {
		_, _, pending, err := store.TakePendingConsent(ctx, "user-9", "agent-1")
		require.NoError(t, err)
		assert.False(t, pending)
	})

	t.Run("clear drops the entry", func(t *testing.T) {
		require.NoError(t, store.SetPendingConsent(
			ctx, "user-2", "agent-1", enum.BehaviorTypeHypersexuality, "HYPERSEXUALITY_phase_1"))
		require.NoError(t, store.ClearPendingConsent(ctx, "user-2", "agent-1"))

		_, _, pending, err := store.TakePendingConsent(ctx, "user-2", "agent-1")
		require.NoError(t, err)
		assert.False(t, pending)
	})
}

func TestLocker(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	locker := session.NewLocker(client, time.Minute, zap.NewNop())
	ctx := t.Context()

	release, err := locker.Acquire(ctx, "agent-1", enum.BehaviorTypeYandereObsessive)
	require.NoError(t, err)

	// Second acquisition on the same behavior fails while held.
	_, err = locker.Acquire(ctx, "agent-1", enum.BehaviorTypeYandereObsessive)
	require.ErrorIs(t, err, session.ErrLockHeld)

	// Different behavior locks independently.
	releaseOther, err := locker.Acquire(ctx, "agent-1", enum.BehaviorTypeBorderlinePD)
	require.NoError(t, err)
	releaseOther()

	release()

	// Released locks can be retaken.
	release, err = locker.Acquire(ctx, "agent-1", enum.BehaviorTypeYandereObsessive)
	require.NoError(t, err)
	release()
}
