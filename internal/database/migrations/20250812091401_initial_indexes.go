package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			-- Trigger log is queried by agent/behavior since phase start
			CREATE INDEX IF NOT EXISTS idx_trigger_log_agent_behavior_time
			ON trigger_log_entries (agent_id, behavior, created_at DESC);

			-- Consent lookups are point reads on (subject, key); the primary
			-- key covers them. Revoke-all scans by subject only.
			CREATE INDEX IF NOT EXISTS idx_consent_records_subject
			ON consent_records (subject_id);
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			DROP INDEX IF EXISTS idx_trigger_log_agent_behavior_time;
			DROP INDEX IF EXISTS idx_consent_records_subject;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop indexes: %w", err)
		}

		return nil
	})
}
