package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robalyx/personaguard/internal/database/models"
	"github.com/robalyx/personaguard/internal/database/types"
	"github.com/robalyx/personaguard/internal/database/types/enum"
	"github.com/robalyx/personaguard/internal/engine/progress"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// casAttempts bounds optimistic-concurrency retries before giving up. A lost
// update here is a safety defect: a stale phase could slip past a consent
// checkpoint, so conflicts reload and re-evaluate rather than overwrite.
const casAttempts = 3

var ErrTooManyConflicts = errors.New("progression update exceeded conflict retries")

// ProgressionService applies trigger events to behavior profiles atomically.
type ProgressionService struct {
	db         *bun.DB
	behavior   *models.BehaviorModel
	counters   *models.CountersModel
	triggerLog *models.TriggerLogModel
	machine    *progress.Machine
	logger     *zap.Logger
}

// NewProgression creates a new progression service.
func NewProgression(
	db *bun.DB,
	behavior *models.BehaviorModel,
	counters *models.CountersModel,
	triggerLog *models.TriggerLogModel,
	logger *zap.Logger,
) *ProgressionService {
	return &ProgressionService{
		db:         db,
		behavior:   behavior,
		counters:   counters,
		triggerLog: triggerLog,
		machine:    progress.NewMachine(logger),
		logger:     logger.Named("progression"),
	}
}

// RecordInteraction bumps the agent's message-level counters for one inbound
// message. Called once per message before the per-behavior updates, so an
// agent with several active behaviors still counts each message once.
func (s *ProgressionService) RecordInteraction(
	ctx context.Context, agentID string, events []progress.Event,
) error {
	var lastErr error

	for range casAttempts {
		counters, err := s.counters.GetOrCreate(ctx, agentID)
		if err != nil {
			return err
		}

		s.machine.CountMessage(counters, events)

		err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return s.counters.UpdateTx(ctx, tx, counters)
		})
		if err == nil {
			return nil
		}

		if !errors.Is(err, types.ErrVersionConflict) {
			return fmt.Errorf("failed to record interaction: %w", err)
		}

		lastErr = err
	}

	return fmt.Errorf("%w: %w", ErrTooManyConflicts, lastErr)
}

// ApplyMessage folds one message's events into a profile and the agent's
// counters in a single transaction. The profile and counters rows carry a
// version column; on conflict the state is reloaded and the machine re-runs
// so the decision always reflects the latest persisted phase.
func (s *ProgressionService) ApplyMessage(
	ctx context.Context, agentID string, behavior enum.BehaviorType, events []progress.Event,
) (*progress.Outcome, error) {
	var lastErr error

	for attempt := range casAttempts {
		profile, err := s.behavior.GetProfile(ctx, agentID, behavior)
		if err != nil {
			return nil, err
		}

		counters, err := s.counters.GetOrCreate(ctx, agentID)
		if err != nil {
			return nil, err
		}

		triggerCounts, err := s.triggerLog.CountSince(ctx, agentID, behavior, profile.PhaseStartedAt)
		if err != nil {
			return nil, err
		}

		outcome := s.machine.Apply(profile, counters, events, triggerCounts, time.Now())

		err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if err := s.behavior.UpdateProfileTx(ctx, tx, profile); err != nil {
				return err
			}

			return s.counters.UpdateTx(ctx, tx, counters)
		})
		if err == nil {
			return &outcome, nil
		}

		if !errors.Is(err, types.ErrVersionConflict) {
			return nil, fmt.Errorf("failed to apply message: %w", err)
		}

		lastErr = err

		s.logger.Debug("Progression update conflicted, retrying",
			zap.String("agentID", agentID),
			zap.String("behavior", behavior.String()),
			zap.Int("attempt", attempt+1))
	}

	return nil, fmt.Errorf("%w: %w", ErrTooManyConflicts, lastErr)
}

// Reset clears a behavior back to phase zero while preserving the profile row
// and the trigger log for audit.
func (s *ProgressionService) Reset(ctx context.Context, agentID string, behavior enum.BehaviorType) error {
	var lastErr error

	for range casAttempts {
		profile, err := s.behavior.GetProfile(ctx, agentID, behavior)
		if err != nil {
			return err
		}

		counters, err := s.counters.GetOrCreate(ctx, agentID)
		if err != nil {
			return err
		}

		s.machine.Reset(profile, counters, time.Now())

		err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if err := s.behavior.UpdateProfileTx(ctx, tx, profile); err != nil {
				return err
			}

			return s.counters.UpdateTx(ctx, tx, counters)
		})
		if err == nil {
			return nil
		}

		if !errors.Is(err, types.ErrVersionConflict) {
			return fmt.Errorf("failed to reset behavior: %w", err)
		}

		lastErr = err
	}

	return fmt.Errorf("%w: %w", ErrTooManyConflicts, lastErr)
}

// HardDelete removes a behavior profile and the agent's trigger log rows.
// Only for explicit owner deletion requests.
func (s *ProgressionService) HardDelete(ctx context.Context, agentID string, behavior enum.BehaviorType) error {
	if err := s.behavior.HardDeleteProfile(ctx, agentID, behavior); err != nil {
		return err
	}

	return s.triggerLog.HardDelete(ctx, agentID)
}
