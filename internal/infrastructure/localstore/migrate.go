package localstore

import (
	"embed"

	crerr "github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrator builds a migrate instance over the store's connection. Closing
// the returned Migrate closes the store's database as well.
func (s *SQLStore) Migrator() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, crerr.Wrap(err, "open embedded cache migrations")
	}

	var driver database.Driver
	switch s.driver {
	case DriverPostgres:
		driver, err = postgres.WithInstance(s.db.DB, &postgres.Config{})
	default:
		driver, err = sqlite.WithInstance(s.db.DB, &sqlite.Config{})
	}
	if err != nil {
		_ = src.Close()
		return nil, crerr.Wrapf(err, "init %s migration driver", s.driver)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(s.driver), driver)
	if err != nil {
		_ = src.Close()
		return nil, crerr.Wrap(err, "create cache migrator")
	}
	return m, nil
}

// Migrate applies every pending cache schema migration. The migrator is not
// closed so the store's connection stays usable.
func (s *SQLStore) Migrate() error {
	m, err := s.Migrator()
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !crerr.Is(err, migrate.ErrNoChange) {
		return crerr.Wrap(err, "apply cache migrations")
	}
	s.logger.Debug("cache schema up to date", "driver", string(s.driver))
	return nil
}
