package notificationmigrations

import (
	"context"
	"fmt"

	notificationdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating notifications table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().
				Model((*notificationdb.Notification)(nil)).
				IfNotExists().
				ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create notifications table: %w", err)
			}

			for _, stmt := range []string{
				`ALTER TABLE notifications ADD CONSTRAINT notifications_severity_check
					CHECK (severity IN ('INFO', 'SUCCESS', 'WARNING', 'ERROR'))`,
				`CREATE INDEX IF NOT EXISTS idx_notifications_user_created
					ON notifications (user_id, created_at DESC)`,
				`CREATE INDEX IF NOT EXISTS idx_notifications_user_unread
					ON notifications (user_id) WHERE read = FALSE`,
			} {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to apply notifications constraint: %w", err)
				}
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping notifications table...")

		_, err := db.NewDropTable().Model((*notificationdb.Notification)(nil)).IfExists().Exec(ctx)
		return err
	})
}
