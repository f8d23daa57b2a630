package specialtymigrations

import (
	"context"
	"fmt"

	specialtydb "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating user_specialties and user_requirements tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().
				Model((*specialtydb.UserSpecialty)(nil)).
				IfNotExists().
				ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
				ForeignKey(`("specialty_id") REFERENCES "specialties" ("id") ON DELETE CASCADE`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create user_specialties table: %w", err)
			}

			if _, err := tx.NewCreateTable().
				Model((*specialtydb.UserRequirement)(nil)).
				IfNotExists().
				ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
				ForeignKey(`("requirement_id") REFERENCES "requirements" ("id") ON DELETE CASCADE`).
				ForeignKey(`("reviewed_by") REFERENCES "users" ("id") ON DELETE SET NULL`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create user_requirements table: %w", err)
			}

			for _, stmt := range []string{
				`ALTER TABLE user_specialties ADD CONSTRAINT user_specialties_status_check
					CHECK (status IN ('IN_PROGRESS', 'WAITING_APPROVAL', 'COMPLETED'))`,
				`ALTER TABLE user_requirements ADD CONSTRAINT user_requirements_status_check
					CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED'))`,
				`CREATE INDEX IF NOT EXISTS idx_user_specialties_status
					ON user_specialties (status, updated_at)`,
				`CREATE INDEX IF NOT EXISTS idx_user_requirements_status
					ON user_requirements (status, updated_at)`,
				`CREATE INDEX IF NOT EXISTS idx_user_requirements_requirement
					ON user_requirements (requirement_id)`,
			} {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to apply progress constraint: %w", err)
				}
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping user_specialties and user_requirements tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, model := range []any{(*specialtydb.UserRequirement)(nil), (*specialtydb.UserSpecialty)(nil)} {
				if _, err := tx.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
					return err
				}
			}
			return nil
		})
	})
}
