package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robalyx/personaguard/internal/database/dbretry"
	"github.com/robalyx/personaguard/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// CountersModel handles database operations for progression counters.
type CountersModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewCounters creates a new progression counters model.
func NewCounters(db *bun.DB, logger *zap.Logger) *CountersModel {
	return &CountersModel{
		db:     db,
		logger: logger.Named("db_counters"),
	}
}

// GetOrCreate fetches the counters row for an agent, creating a zeroed row on
// first use.
func (m *CountersModel) GetOrCreate(ctx context.Context, agentID string) (*types.ProgressionCounters, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.ProgressionCounters, error) {
		counters := new(types.ProgressionCounters)

		err := m.db.NewSelect().
			Model(counters).
			Where("agent_id = ?", agentID).
			Scan(ctx)
		if err == nil {
			return counters, nil
		}

		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to get progression counters: %w", err)
		}

		counters = &types.ProgressionCounters{
			AgentID:            agentID,
			CurrentIntensities: make(map[string]float64),
			Version:            1,
			UpdatedAt:          time.Now(),
		}

		_, err = m.db.NewInsert().
			Model(counters).
			On("CONFLICT (agent_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create progression counters: %w", err)
		}

		return counters, nil
	})
}

// UpdateTx writes back mutated counters inside an existing transaction with a
// compare-and-swap on the row version.
func (m *CountersModel) UpdateTx(ctx context.Context, tx bun.Tx, counters *types.ProgressionCounters) error {
	previousVersion := counters.Version
	counters.Version++
	counters.UpdatedAt = time.Now()

	res, err := tx.NewUpdate().
		Model(counters).
		WherePK().
		Where("version = ?", previousVersion).
		Exec(ctx)
	if err != nil {
		counters.Version = previousVersion
		return fmt.Errorf("failed to update progression counters: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		counters.Version = previousVersion
		return fmt.Errorf("failed to read update result: %w", err)
	}

	if rows == 0 {
		counters.Version = previousVersion
		return types.ErrVersionConflict
	}

	return nil
}
