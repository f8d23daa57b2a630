package clubmigrations

import (
	"context"
	"fmt"

	clubdb "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating clubs and users tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().
				Model((*clubdb.Club)(nil)).
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create clubs table: %w", err)
			}

			if _, err := tx.NewCreateTable().
				Model((*clubdb.User)(nil)).
				IfNotExists().
				ForeignKey(`("club_id") REFERENCES "clubs" ("id") ON DELETE SET NULL`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create users table: %w", err)
			}

			for _, stmt := range []string{
				`ALTER TABLE users ADD CONSTRAINT users_role_check
					CHECK (role IN ('PATHFINDER', 'COUNSELOR', 'INSTRUCTOR', 'ADMIN', 'OWNER'))`,
				`ALTER TABLE users ADD CONSTRAINT users_last_class_milestone_check
					CHECK (last_class_milestone BETWEEN 0 AND 100)`,
				`CREATE INDEX IF NOT EXISTS idx_users_club_id ON users (club_id)`,
				`CREATE INDEX IF NOT EXISTS idx_users_club_points ON users (club_id, points DESC)`,
			} {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to apply users constraint: %w", err)
				}
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping users and clubs tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewDropTable().Model((*clubdb.User)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop users table: %w", err)
			}
			if _, err := tx.NewDropTable().Model((*clubdb.Club)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop clubs table: %w", err)
			}
			return nil
		})
	})
}
