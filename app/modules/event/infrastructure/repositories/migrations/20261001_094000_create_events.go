package eventmigrations

import (
	"context"
	"fmt"

	eventdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating events table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().
				Model((*eventdb.Event)(nil)).
				IfNotExists().
				ForeignKey(`("club_id") REFERENCES "clubs" ("id") ON DELETE CASCADE`).
				ForeignKey(`("created_by") REFERENCES "users" ("id") ON DELETE SET NULL`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create events table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_events_club_starts
				ON events (club_id, starts_at)`); err != nil {
				return fmt.Errorf("failed to index events: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping events table...")

		_, err := db.NewDropTable().Model((*eventdb.Event)(nil)).IfExists().Exec(ctx)
		return err
	})
}
