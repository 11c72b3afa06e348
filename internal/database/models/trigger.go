package models

import (
	"context"
	"fmt"
	"time"

	"github.com/robalyx/personaguard/internal/database/dbretry"
	"github.com/robalyx/personaguard/internal/database/types"
	"github.com/robalyx/personaguard/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// TriggerLogModel handles database operations for the append-only trigger log.
type TriggerLogModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewTriggerLog creates a new trigger log model.
func NewTriggerLog(db *bun.DB, logger *zap.Logger) *TriggerLogModel {
	return &TriggerLogModel{
		db:     db,
		logger: logger.Named("db_trigger_log"),
	}
}

// Append writes detected trigger entries. Entries are never mutated after
// insertion.
func (m *TriggerLogModel) Append(ctx context.Context, entries []*types.TriggerLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	now := time.Now()
	for _, entry := range entries {
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = now
		}
	}

	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(&entries).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to append trigger log entries: %w", err)
		}

		return nil
	})
}

// CountSince returns per-trigger-type counts for an agent and behavior since
// the given time. Used to evaluate phase transition requirements.
func (m *TriggerLogModel) CountSince(
	ctx context.Context, agentID string, behavior enum.BehaviorType, since time.Time,
) (map[enum.TriggerType]int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (map[enum.TriggerType]int, error) {
		var rows []struct {
			TriggerType enum.TriggerType `bun:"trigger_type"`
			Count       int              `bun:"count"`
		}

		err := m.db.NewSelect().
			Model((*types.TriggerLogEntry)(nil)).
			Column("trigger_type").
			ColumnExpr("COUNT(*) AS count").
			Where("agent_id = ?", agentID).
			Where("behavior = ?", behavior).
			Where("created_at >= ?", since).
			Group("trigger_type").
			Scan(ctx, &rows)
		if err != nil {
			return nil, fmt.Errorf("failed to count trigger log entries: %w", err)
		}

		counts := make(map[enum.TriggerType]int, len(rows))
		for _, row := range rows {
			counts[row.TriggerType] = row.Count
		}

		return counts, nil
	})
}

// HardDelete removes every trigger log row for an agent. Only invoked by an
// explicit owner request; normal reset keeps the audit trail.
func (m *TriggerLogModel) HardDelete(ctx context.Context, agentID string) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewDelete().
			Model((*types.TriggerLogEntry)(nil)).
			Where("agent_id = ?", agentID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to hard-delete trigger log: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Warn("Trigger log hard-deleted", zap.String("agentID", agentID))

	return nil
}
