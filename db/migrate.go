package db

import (
	"embed"
	"errors"
	"fmt"

	// `golang-migrate` applies the versioned SQL files under migrations/.
	"github.com/golang-migrate/migrate/v4"
	// The postgres database driver for golang-migrate; it talks through lib/pq.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	// `iofs` lets migrate read migrations from the embedded filesystem.
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/user/may15-go/apperror"
)

// Migrations holds the schema of the PostgreSQL backend. MongoDB needs none.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// RunMigrations applies every pending migration to the database at dsn
// (a postgres:// or postgresql:// URL). Already being up to date is not an error.
func RunMigrations(dsn string) error {
	src, err := iofs.New(Migrations, "migrations")
	if err != nil {
		return apperror.NewMigrationError("failed to open embedded migrations", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return apperror.NewMigrationError("failed to create migrator", err)
	}
	defer func() {
		// Close errors are not actionable once the migration outcome is known.
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewMigrationError(fmt.Sprintf("failed to run migrations: %v", err), err)
	}

	return nil
}
