package admin

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/config"
	"github.com/AlephzainCArpio/Thesis-sub000/internal/logging"
)

const defaultMigrationsSource = "file://migrations"

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Apply or roll back database migrations",
		Long:  "Apply all pending migrations (up) or roll back the most recent one (down)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

			source, _ := cmd.Flags().GetString("source")
			switch direction {
			case "up":
				return runMigrations(cfg.DatabaseURL, source)
			case "down":
				return rollbackMigration(cfg.DatabaseURL, source)
			default:
				return fmt.Errorf("unknown direction %q: expected up or down", direction)
			}
		},
	}

	cmd.Flags().String("source", defaultMigrationsSource, "Migration source URL")

	return cmd
}

func newMigrate(databaseURL, source string) (*migrate.Migrate, func(), error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return m, func() { db.Close() }, nil
}

func runMigrations(databaseURL, source string) error {
	m, closeDB, err := newMigrate(databaseURL, source)
	if err != nil {
		return err
	}
	defer closeDB()

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logging.Info().Msg("migrations: no migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to get migration version: %w", err)
	case dirty:
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	case errors.Is(upErr, migrate.ErrNoChange):
		logging.Info().Uint("version", version).Msg("migrations: database is up to date")
	default:
		logging.Info().Uint("version", version).Msg("migrations: applied successfully")
	}

	return nil
}

func rollbackMigration(databaseURL, source string) error {
	m, closeDB, err := newMigrate(databaseURL, source)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := m.Steps(-1); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logging.Info().Msg("migrations: nothing to roll back")
			return nil
		}
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	logging.Info().Msg("migrations: rolled back one step")
	return nil
}
