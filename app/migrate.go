package app

import (
	"context"
	"fmt"
	"log/slog"

	clubmigrations "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/infrastructure/repositories/migrations"
	eventmigrations "github.com/Black-And-White-Club/pathfinder-club/app/modules/event/infrastructure/repositories/migrations"
	notificationmigrations "github.com/Black-And-White-Club/pathfinder-club/app/modules/notification/infrastructure/repositories/migrations"
	pointsmigrations "github.com/Black-And-White-Club/pathfinder-club/app/modules/points/infrastructure/repositories/migrations"
	specialtymigrations "github.com/Black-And-White-Club/pathfinder-club/app/modules/specialty/infrastructure/repositories/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// ModuleMigrator pairs a module name with its bun migrator.
type ModuleMigrator struct {
	Module   string
	Migrator *migrate.Migrator
}

// Migrators returns one migrator per module in foreign-key order. Each
// module tracks its migrations in its own table.
func Migrators(db *bun.DB) []ModuleMigrator {
	sets := []struct {
		name string
		set  *migrate.Migrations
	}{
		{"club", clubmigrations.Migrations},
		{"points", pointsmigrations.Migrations},
		{"notification", notificationmigrations.Migrations},
		{"specialty", specialtymigrations.Migrations},
		{"event", eventmigrations.Migrations},
	}

	out := make([]ModuleMigrator, 0, len(sets))
	for _, s := range sets {
		out = append(out, ModuleMigrator{
			Module: s.name,
			Migrator: migrate.NewMigrator(db, s.set,
				migrate.WithTableName("bun_migrations_"+s.name),
				migrate.WithLocksTableName("bun_migration_locks_"+s.name),
			),
		})
	}
	return out
}

// InitMigrations creates the migration bookkeeping tables.
func InitMigrations(ctx context.Context, migrators []ModuleMigrator) error {
	for _, m := range migrators {
		if err := m.Migrator.Init(ctx); err != nil {
			return fmt.Errorf("init migrations for %s: %w", m.Module, err)
		}
	}
	return nil
}

// MigrateUp applies pending migrations module by module.
func MigrateUp(ctx context.Context, migrators []ModuleMigrator, logger *slog.Logger) error {
	for _, m := range migrators {
		if err := m.Migrator.Lock(ctx); err != nil {
			return fmt.Errorf("lock migrations for %s: %w", m.Module, err)
		}
		group, err := m.Migrator.Migrate(ctx)
		unlockErr := m.Migrator.Unlock(ctx)
		if err != nil {
			return fmt.Errorf("migrate %s: %w", m.Module, err)
		}
		if unlockErr != nil {
			return fmt.Errorf("unlock migrations for %s: %w", m.Module, unlockErr)
		}
		if group.IsZero() {
			logger.InfoContext(ctx, "No new migrations", slog.String("module", m.Module))
			continue
		}
		logger.InfoContext(ctx, "Migrated module",
			slog.String("module", m.Module),
			slog.String("group", group.String()),
		)
	}
	return nil
}

// MigrateDown rolls back the last group of every module in reverse order.
func MigrateDown(ctx context.Context, migrators []ModuleMigrator, logger *slog.Logger) error {
	for i := len(migrators) - 1; i >= 0; i-- {
		m := migrators[i]
		group, err := m.Migrator.Rollback(ctx)
		if err != nil {
			return fmt.Errorf("rollback %s: %w", m.Module, err)
		}
		if group.IsZero() {
			logger.InfoContext(ctx, "No groups to roll back", slog.String("module", m.Module))
			continue
		}
		logger.InfoContext(ctx, "Rolled back module",
			slog.String("module", m.Module),
			slog.String("group", group.String()),
		)
	}
	return nil
}

// MigrationStatus reports applied and pending migrations per module.
func MigrationStatus(ctx context.Context, migrators []ModuleMigrator) (map[string]migrate.MigrationSlice, error) {
	out := make(map[string]migrate.MigrationSlice, len(migrators))
	for _, m := range migrators {
		ms, err := m.Migrator.MigrationsWithStatus(ctx)
		if err != nil {
			return nil, fmt.Errorf("status for %s: %w", m.Module, err)
		}
		out[m.Module] = ms
	}
	return out, nil
}
