package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"github.com/robalyx/personaguard/internal/database/types/enum"
	"go.uber.org/zap"
)

// ErrLockHeld is returned when another worker holds the progression lock for
// the same agent and behavior.
var ErrLockHeld = errors.New("progression lock held")

// releaseScript deletes the lock only when the caller still owns it.
var releaseScript = rueidis.NewLuaScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker serializes progression updates per agent and behavior. Locks expire
// on their own so a crashed worker never wedges an agent.
type Locker struct {
	client rueidis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewLocker creates a locker over the lock Redis database.
func NewLocker(client rueidis.Client, ttl time.Duration, logger *zap.Logger) *Locker {
	return &Locker{
		client: client,
		ttl:    ttl,
		logger: logger.Named("lock"),
	}
}

func lockKey(agentID string, behavior enum.BehaviorType) string {
	return fmt.Sprintf("lock:%s:%s", agentID, behavior)
}

// Acquire takes the progression lock, returning a release function on
// success and ErrLockHeld when it is taken.
func (l *Locker) Acquire(
	ctx context.Context, agentID string, behavior enum.BehaviorType,
) (func(), error) {
	key := lockKey(agentID, behavior)
	token := uuid.New().String()

	resp := l.client.Do(ctx, l.client.B().Set().Key(key).Value(token).Nx().Px(l.ttl).Build())
	if err := resp.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrLockHeld, agentID, behavior)
		}

		return nil, fmt.Errorf("failed to acquire progression lock: %w", err)
	}

	release := func() {
		// Best effort; an expired lock releases itself.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()

		if err := releaseScript.Exec(releaseCtx, l.client, []string{key}, []string{token}).Error(); err != nil {
			l.logger.Warn("Failed to release progression lock",
				zap.String("agentID", agentID),
				zap.String("behavior", behavior.String()),
				zap.Error(err))
		}
	}

	return release, nil
}
