package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/cory-johannsen/dungeonmap/migrations"
)

// MigrationResult reports the schema state after a migration run.
type MigrationResult struct {
	Version uint
	Dirty   bool
	// Changed is false when the schema was already at the target.
	Changed bool
}

// Migrate applies the embedded schema migrations to the database at dsn.
// steps > 0 applies that many up migrations, steps < 0 rolls back, and
// steps == 0 runs every pending up migration (or every down when down is set).
//
// Postcondition: migrate.ErrNoChange is reported as Changed == false, not an error.
func Migrate(dsn string, steps int, down bool) (MigrationResult, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return MigrationResult{}, fmt.Errorf("opening embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	switch {
	case steps != 0:
		err = m.Steps(steps)
	case down:
		err = m.Down()
	default:
		err = m.Up()
	}
	changed := true
	if errors.Is(err, migrate.ErrNoChange) {
		changed, err = false, nil
	}
	if err != nil {
		return MigrationResult{}, fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrationResult{}, fmt.Errorf("reading schema version: %w", err)
	}
	return MigrationResult{Version: version, Dirty: dirty, Changed: changed}, nil
}
