package specialtymigrations

import (
	"context"
	"fmt"

	specialtydb "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating specialties and requirements tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().
				Model((*specialtydb.Specialty)(nil)).
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create specialties table: %w", err)
			}

			if _, err := tx.NewCreateTable().
				Model((*specialtydb.Requirement)(nil)).
				IfNotExists().
				ForeignKey(`("specialty_id") REFERENCES "specialties" ("id") ON DELETE CASCADE`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create requirements table: %w", err)
			}

			for _, stmt := range []string{
				`ALTER TABLE requirements ADD CONSTRAINT requirements_owner_check
					CHECK ((specialty_id IS NULL) <> (dbv_class IS NULL))`,
				`ALTER TABLE requirements ADD CONSTRAINT requirements_type_check
					CHECK (type IN ('TEXT', 'FILE'))`,
				`CREATE INDEX IF NOT EXISTS idx_requirements_specialty
					ON requirements (specialty_id, position) WHERE specialty_id IS NOT NULL`,
				`CREATE INDEX IF NOT EXISTS idx_requirements_class
					ON requirements (dbv_class, position) WHERE dbv_class IS NOT NULL`,
			} {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to apply requirements constraint: %w", err)
				}
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping specialties and requirements tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, model := range []any{(*specialtydb.Requirement)(nil), (*specialtydb.Specialty)(nil)} {
				if _, err := tx.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
					return err
				}
			}
			return nil
		})
	})
}
