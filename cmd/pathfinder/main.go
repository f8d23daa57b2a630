package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/Black-And-White-Club/pathfinder-club/app"
	"github.com/Black-And-White-Club/pathfinder-club/config"
	"github.com/Black-And-White-Club/pathfinder-club/internal/db"
	"github.com/Black-And-White-Club/pathfinder-club/internal/queue"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "pathfinder",
		Usage: "Pathfinder club backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			seedCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func load(c *cli.Context) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, app.NewLogger(cfg, os.Stdout), nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API and background workers",
		Action: func(c *cli.Context) error {
			cfg, logger, err := load(c)
			if err != nil {
				return err
			}
			ctx, stop := app.WithShutdownSignals(c.Context)
			defer stop()

			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					logger.Error("Error during shutdown", slog.Any("error", err))
				}
			}()

			logger.Info("Application started", slog.String("address", cfg.HTTP.Address))
			if err := a.Run(ctx); err != nil {
				return err
			}
			logger.Info("Application shut down gracefully")
			return nil
		},
	}
}

// withMigrators opens only the database; migrations do not need the bus,
// the queue or a JWT secret.
func withMigrators(c *cli.Context, fn func(ctx context.Context, migrators []app.ModuleMigrator, cfg *config.Config, logger *slog.Logger) error) error {
	cfg, logger, err := load(c)
	if err != nil {
		return err
	}
	database, err := db.Open(c.Context, db.Options{DSN: cfg.Postgres.DSN, MaxOpenConns: 2}, logger)
	if err != nil {
		return err
	}
	defer database.Close()
	return fn(c.Context, app.Migrators(database), cfg, logger)
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, m []app.ModuleMigrator, _ *config.Config, _ *slog.Logger) error {
						return app.InitMigrations(ctx, m)
					})
				},
			},
			{
				Name:  "up",
				Usage: "apply module and job queue migrations",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, m []app.ModuleMigrator, cfg *config.Config, logger *slog.Logger) error {
						if err := app.InitMigrations(ctx, m); err != nil {
							return err
						}
						if err := app.MigrateUp(ctx, m, logger); err != nil {
							return err
						}
						return queue.Migrate(ctx, cfg.Postgres.DSN, logger)
					})
				},
			},
			{
				Name:  "down",
				Usage: "roll back the last migration group of every module",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, m []app.ModuleMigrator, _ *config.Config, logger *slog.Logger) error {
						return app.MigrateDown(ctx, m, logger)
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, m []app.ModuleMigrator, _ *config.Config, _ *slog.Logger) error {
						status, err := app.MigrationStatus(ctx, m)
						if err != nil {
							return err
						}
						for _, mm := range m {
							ms := status[mm.Module]
							fmt.Printf("%s\n  applied:   %s\n  unapplied: %s\n", mm.Module, ms.Applied(), ms.Unapplied())
						}
						return nil
					})
				},
			},
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "create a demo club with members, specialties and a class checklist",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "club", Usage: "club name (random when empty)"},
			&cli.IntFlag{Name: "pathfinders", Value: 8, Usage: "number of pathfinder members"},
			&cli.Uint64Flag{Name: "seed", Usage: "faker seed (time based when zero)"},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := load(c)
			if err != nil {
				return err
			}
			a, err := app.New(c.Context, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			seed := c.Uint64("seed")
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			res, err := app.NewSeeder(a, seed).Seed(c.Context, app.SeedOptions{
				ClubName:    c.String("club"),
				Pathfinders: c.Int("pathfinders"),
			})
			if err != nil {
				return err
			}

			fmt.Printf("club %s with %d specialties\n\n", res.ClubID, res.Specialties)
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ROLE\tNAME\tEMAIL\tTOKEN")
			for _, m := range res.Members {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Role, m.Name, m.Email, m.Token)
			}
			return tw.Flush()
		},
	}
}
