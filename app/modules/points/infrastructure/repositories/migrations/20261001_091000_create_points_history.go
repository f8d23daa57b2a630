package pointsmigrations

import (
	"context"
	"fmt"

	pointsdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating points_history table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().
				Model((*pointsdb.PointsHistory)(nil)).
				IfNotExists().
				ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create points_history table: %w", err)
			}

			for _, stmt := range []string{
				`ALTER TABLE points_history ADD CONSTRAINT points_history_source_check
					CHECK (source IN ('CLASS_MILESTONE', 'SPECIALTY_AWARD', 'MANUAL'))`,
				`CREATE INDEX IF NOT EXISTS idx_points_history_user_created
					ON points_history (user_id, created_at DESC)`,
			} {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to apply points_history constraint: %w", err)
				}
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping points_history table...")

		_, err := db.NewDropTable().Model((*pointsdb.PointsHistory)(nil)).IfExists().Exec(ctx)
		return err
	})
}
