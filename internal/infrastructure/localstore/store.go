package localstore

import (
	"context"
	"database/sql"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"

	"github.com/riskibarqy/hockey-roster/internal/platform/cache"
	"github.com/riskibarqy/hockey-roster/internal/platform/logging"
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

const sqlitePragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

type Config struct {
	Driver Driver
	DSN    string
	Clock  clockwork.Clock
	Logger *logging.Logger
}

// SQLStore keeps cache entries in a single cache_entries table so snapshots
// survive restarts.
type SQLStore struct {
	db     *sqlx.DB
	driver Driver
	clock  clockwork.Clock
	logger *logging.Logger

	getQuery    string
	upsertQuery string
	deleteQuery string
}

// Open connects to the cache database. Call Migrate before first use.
func Open(ctx context.Context, cfg Config) (*SQLStore, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, crerr.New("cache dsn is required")
	}

	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, crerr.Newf("unsupported cache driver %q", driver)
	}

	db, err := otelsqlx.Open(string(driver), dsn,
		otelsql.WithAttributes(attribute.String("db.system", string(driver))),
		otelsql.WithDBName(dbName(driver, dsn)),
		otelsql.WithQueryFormatter(formatQueryForTrace),
	)
	if err != nil {
		return nil, crerr.Wrapf(err, "open %s cache", driver)
	}
	if driver == DriverSQLite {
		// one writer keeps WAL mode free of SQLITE_BUSY between our own goroutines
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, crerr.Wrapf(err, "ping %s cache", driver)
	}

	return newSQLStore(db, driver, cfg.Clock, cfg.Logger), nil
}

func newSQLStore(db *sqlx.DB, driver Driver, clock clockwork.Clock, logger *logging.Logger) *SQLStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &SQLStore{
		db:     db,
		driver: driver,
		clock:  clock,
		logger: logger.Named("localstore"),

		getQuery: db.Rebind(`SELECT value FROM cache_entries WHERE cache_key = ?`),
		upsertQuery: db.Rebind(`INSERT INTO cache_entries (cache_key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (cache_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		deleteQuery: db.Rebind(`DELETE FROM cache_entries WHERE cache_key = ?`),
	}
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.getQuery, key)
	if crerr.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, cache.Wrap(cache.OpGet, key, err)
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.upsertQuery, key, value, s.clock.Now().UTC()); err != nil {
		return cache.Wrap(cache.OpSet, key, err)
	}
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.deleteQuery, key); err != nil {
		return cache.Wrap(cache.OpRemove, key, err)
	}
	return nil
}

func (s *SQLStore) Driver() Driver {
	return s.driver
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
