package migrations

import (
	"context"
	"fmt"

	"github.com/robalyx/personaguard/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.BehaviorProfile)(nil),
			(*types.ProgressionCounters)(nil),
			(*types.TriggerLogEntry)(nil),
			(*types.ConsentRecord)(nil),
		}

		for _, model := range models {
			_, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table %T: %w", model, err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.ConsentRecord)(nil),
			(*types.TriggerLogEntry)(nil),
			(*types.ProgressionCounters)(nil),
			(*types.BehaviorProfile)(nil),
		}

		for _, model := range models {
			_, err := db.NewDropTable().
				Model(model).
				IfExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table %T: %w", model, err)
			}
		}

		return nil
	})
}
