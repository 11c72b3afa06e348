// Package session keeps short-lived conversation state in Redis: which
// restricted phases the user has already been warned about, and which consent
// checkpoint a generic affirmative should resolve to. Everything here expires
// on its own; durable state lives in PostgreSQL.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
	"github.com/robalyx/personaguard/internal/database/types/enum"
	"go.uber.org/zap"
)

// Store wraps the session Redis database.
type Store struct {
	client rueidis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewStore creates a session store. Entries expire after ttl.
func NewStore(client rueidis.Client, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
		logger: logger.Named("session"),
	}
}

func warnedKey(agentID string, behavior enum.BehaviorType, phase int) string {
	return fmt.Sprintf("warned:%s:%s:%d", agentID, behavior, phase)
}

func pendingConsentKey(subjectID, agentID string) string {
	return fmt.Sprintf("consent_pending:%s:%s", subjectID, agentID)
}

// MarkPhaseWarned records that the transition warning for a restricted phase
// was shown and reports whether this call was the first. Warnings re-arm when
// the session entry expires.
func (s *Store) MarkPhaseWarned(
	ctx context.Context, agentID string, behavior enum.BehaviorType, phase int,
) (bool, error) {
	key := warnedKey(agentID, behavior, phase)

	resp := s.client.Do(ctx, s.client.B().Set().Key(key).Value("1").Nx().Ex(s.ttl).Build())
	if err := resp.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			// SET NX returns nil when the key already existed.
			return false, nil
		}

		return false, fmt.Errorf("failed to mark phase warned: %w", err)
	}

	return true, nil
}

// SetPendingConsent remembers which consent checkpoint the subject was just
// prompted for, so a bare "sí" can be resolved against it.
func (s *Store) SetPendingConsent(
	ctx context.Context, subjectID, agentID string, behavior enum.BehaviorType, consentKey string,
) error {
	value := fmt.Sprintf("%s|%s", behavior, consentKey)

	key := pendingConsentKey(subjectID, agentID)
	if err := s.client.Do(ctx, s.client.B().Set().Key(key).Value(value).Ex(s.ttl).Build()).Error(); err != nil {
		return fmt.Errorf("failed to set pending consent: %w", err)
	}

	return nil
}

// TakePendingConsent consumes the pending checkpoint for a subject, returning
// ok=false when none is pending.
func (s *Store) TakePendingConsent(
	ctx context.Context, subjectID, agentID string,
) (enum.BehaviorType, string, bool, error) {
	key := pendingConsentKey(subjectID, agentID)

	value, err := s.client.Do(ctx, s.client.B().Getdel().Key(key).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", "", false, nil
		}

		return "", "", false, fmt.Errorf("failed to take pending consent: %w", err)
	}

	behavior, consentKey, found := cutPending(value)
	if !found {
		s.logger.Warn("Malformed pending consent entry", zap.String("value", value))
		return "", "", false, nil
	}

	return enum.BehaviorType(behavior), consentKey, true, nil
}

// ClearPendingConsent drops any pending checkpoint without consuming it.
func (s *Store) ClearPendingConsent(ctx context.Context, subjectID, agentID string) error {
	key := pendingConsentKey(subjectID, agentID)
	if err := s.client.Do(ctx, s.client.B().Del().Key(key).Build()).Error(); err != nil {
		return fmt.Errorf("failed to clear pending consent: %w", err)
	}

	return nil
}

func cutPending(value string) (string, string, bool) {
	for i := range len(value) {
		if value[i] == '|' {
			return value[:i], value[i+1:], true
		}
	}

	return "", "", false
}
