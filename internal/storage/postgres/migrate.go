package postgres

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cinelist/proj/internal/lib/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies every pending up migration. It refuses to run against a dirty schema.
func Migrate(dsn string, log *slog.Logger) error {
	const op = "postgres.Migrate"
	log = log.With("op", op)

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("%s: open migrations: %w", op, err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, toPgx5DSN(dsn))
	if err != nil {
		return fmt.Errorf("%s: init: %w", op, err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Error("failed to close migration source", "error", srcErr)
		}
		if dbErr != nil {
			log.Error("failed to close migration database", "error", dbErr)
		}
	}()
	m.Log = logger.PrintfAdapter{Log: log}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("%s: current version: %w", op, err)
	}
	if dirty {
		return fmt.Errorf("%s: database is dirty at version %d", op, version)
	}
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("schema is up to date", "version", version)
			return nil
		}
		return fmt.Errorf("%s: up: %w", op, err)
	}
	newVersion, _, _ := m.Version()
	log.Info("schema migrated", "from", version, "to", newVersion)
	return nil
}

// toPgx5DSN rewrites postgres:// URLs to the scheme the pgx/v5 migrate driver registers.
func toPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}
