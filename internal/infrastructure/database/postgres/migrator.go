package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/logging"
)

// MigrateUp applies all pending migrations from the given source directory
// (e.g. "file://migrations").  A database already at the latest version is
// not an error.
func MigrateUp(sourceURL string, cfg Config, logger logging.Logger) error {
	m, err := migrate.New(sourceURL, cfg.DSN())
	if err != nil {
		return fmt.Errorf("postgres: open migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			if logger != nil {
				logger.Info("schema up to date")
			}
			return nil
		}
		return fmt.Errorf("postgres: migrate up: %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("postgres: read version: %w", err)
	}
	if logger != nil {
		logger.Info("schema migrated",
			logging.Int("version", int(version)),
			logging.Bool("dirty", dirty))
	}
	return nil
}
