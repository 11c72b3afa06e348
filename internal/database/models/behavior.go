package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/personaguard/internal/database/dbretry"
	"github.com/robalyx/personaguard/internal/database/types"
	"github.com/robalyx/personaguard/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// BehaviorModel handles database operations for behavior profiles.
type BehaviorModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewBehavior creates a new behavior profile model.
func NewBehavior(db *bun.DB, logger *zap.Logger) *BehaviorModel {
	return &BehaviorModel{
		db:     db,
		logger: logger.Named("db_behavior"),
	}
}

// GetProfile fetches one profile by agent and behavior.
func (m *BehaviorModel) GetProfile(
	ctx context.Context, agentID string, behavior enum.BehaviorType,
) (*types.BehaviorProfile, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.BehaviorProfile, error) {
		profile := new(types.BehaviorProfile)

		err := m.db.NewSelect().
			Model(profile).
			Where("agent_id = ?", agentID).
			Where("behavior = ?", behavior).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrProfileNotFound
			}
			return nil, fmt.Errorf("failed to get behavior profile: %w", err)
		}

		return profile, nil
	})
}

// GetActiveProfiles fetches every profile for an agent.
func (m *BehaviorModel) GetActiveProfiles(ctx context.Context, agentID string) ([]*types.BehaviorProfile, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.BehaviorProfile, error) {
		var profiles []*types.BehaviorProfile

		err := m.db.NewSelect().
			Model(&profiles).
			Where("agent_id = ?", agentID).
			Order("behavior ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get behavior profiles: %w", err)
		}

		return profiles, nil
	})
}

// CreateProfile inserts a fresh profile at phase 1 with an open history entry.
func (m *BehaviorModel) CreateProfile(
	ctx context.Context, agentID string, behavior enum.BehaviorType, baseIntensity, volatility, escalationRate, deEscalationRate float64,
) (*types.BehaviorProfile, error) {
	now := time.Now()
	profile := &types.BehaviorProfile{
		AgentID:          agentID,
		Behavior:         behavior,
		UUID:             uuid.New(),
		BaseIntensity:    baseIntensity,
		CurrentPhase:     1,
		Volatility:       volatility,
		EscalationRate:   escalationRate,
		DeEscalationRate: deEscalationRate,
		DisplayThreshold: baseIntensity,
		PhaseStartedAt:   now,
		PhaseHistory: []types.PhaseInterval{
			{Phase: 1, EnteredAt: now, FinalIntensity: baseIntensity},
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(profile).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create behavior profile: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Debug("Created behavior profile",
		zap.String("agentID", agentID),
		zap.String("behavior", behavior.String()))

	return profile, nil
}

// UpdateProfileTx writes back a mutated profile inside an existing transaction,
// guarded by a compare-and-swap on the row version. Returns
// types.ErrVersionConflict when another writer got there first; callers are
// expected to reload and retry so a phase can never advance past a consent
// checkpoint on stale state.
func (m *BehaviorModel) UpdateProfileTx(ctx context.Context, tx bun.Tx, profile *types.BehaviorProfile) error {
	previousVersion := profile.Version
	profile.Version++
	profile.UpdatedAt = time.Now()

	res, err := tx.NewUpdate().
		Model(profile).
		WherePK().
		Where("version = ?", previousVersion).
		Exec(ctx)
	if err != nil {
		profile.Version = previousVersion
		return fmt.Errorf("failed to update behavior profile: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		profile.Version = previousVersion
		return fmt.Errorf("failed to read update result: %w", err)
	}

	if rows == 0 {
		profile.Version = previousVersion
		return types.ErrVersionConflict
	}

	return nil
}

// HardDeleteProfile removes a profile row entirely. Only invoked by an
// explicit owner request; normal reset keeps the row.
func (m *BehaviorModel) HardDeleteProfile(ctx context.Context, agentID string, behavior enum.BehaviorType) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewDelete().
			Model((*types.BehaviorProfile)(nil)).
			Where("agent_id = ?", agentID).
			Where("behavior = ?", behavior).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to hard-delete behavior profile: %w", err)
		}

		return nil
	})
}
