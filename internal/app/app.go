package app

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"

	"github.com/riskibarqy/hockey-roster/internal/config"
	"github.com/riskibarqy/hockey-roster/internal/domain/event"
	"github.com/riskibarqy/hockey-roster/internal/domain/player"
	"github.com/riskibarqy/hockey-roster/internal/domain/session"
	"github.com/riskibarqy/hockey-roster/internal/domain/team"
	"github.com/riskibarqy/hockey-roster/internal/infrastructure/backend"
	"github.com/riskibarqy/hockey-roster/internal/infrastructure/localstore"
	"github.com/riskibarqy/hockey-roster/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/hockey-roster/internal/infrastructure/repository/rest"
	"github.com/riskibarqy/hockey-roster/internal/platform/cache"
	idgen "github.com/riskibarqy/hockey-roster/internal/platform/id"
	"github.com/riskibarqy/hockey-roster/internal/platform/logging"
	"github.com/riskibarqy/hockey-roster/internal/platform/resilience"
	"github.com/riskibarqy/hockey-roster/internal/usecase"
)

// Client is the assembled data-access layer. Every service shares one cache
// store and one backend connection.
type Client struct {
	Teams   *usecase.TeamService
	Players *usecase.PlayerService
	Events  *usecase.EventService
	Session *usecase.SessionService
	Sync    *usecase.SyncService

	store   cache.Store
	closers []func() error
}

type repositories struct {
	teams   team.Repository
	players player.Repository
	events  event.Repository
	auth    session.Provider
}

// Option overrides a dependency New would otherwise build from config.
type Option func(*options)

type options struct {
	clock clockwork.Clock
	store cache.Store
}

func WithClock(clock clockwork.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithStore makes New use store instead of opening the configured cache.
func WithStore(store cache.Store) Option {
	return func(o *options) { o.store = store }
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger, opts ...Option) (*Client, error) {
	if logger == nil {
		logger = logging.Default()
	}
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	ids := idgen.NewClockGenerator(o.clock)

	c := &Client{}
	store := o.store
	if store == nil {
		var err error
		store, err = c.openStore(ctx, cfg, o.clock, logger)
		if err != nil {
			return nil, err
		}
	}
	c.store = store

	repos, err := newRepositories(cfg, o.clock, ids, logger)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Teams = usecase.NewTeamService(repos.teams, store, o.clock, ids, logger)
	c.Players = usecase.NewPlayerService(repos.players, c.Teams, store, o.clock, ids, logger)
	c.Events = usecase.NewEventService(repos.events, store, o.clock, ids, logger)
	c.Session = usecase.NewSessionService(repos.auth, store, logger)
	c.Sync = usecase.NewSyncService(c.Teams, c.Players, c.Events, cfg.SyncWorkers, o.clock, logger)

	if err := c.Session.Restore(ctx); err != nil {
		_ = c.Close()
		return nil, crerr.Wrap(err, "restore session")
	}

	logger.Debug("roster client ready",
		"backend_mode", cfg.BackendMode,
		"cache_driver", cfg.CacheDriver,
	)
	return c, nil
}

// Store is the cache every service writes through to.
func (c *Client) Store() cache.Store {
	return c.store
}

// Close releases the cache database, if one was opened.
func (c *Client) Close() error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = crerr.CombineErrors(err, c.closers[i]())
	}
	c.closers = nil
	return err
}

func (c *Client) openStore(ctx context.Context, cfg config.Config, clock clockwork.Clock, logger *logging.Logger) (cache.Store, error) {
	if cfg.CacheDriver == config.CacheDriverMemory {
		return cache.NewMemoryStore(), nil
	}

	store, err := localstore.Open(ctx, localstore.Config{
		Driver: localstore.Driver(cfg.CacheDriver),
		DSN:    cfg.CacheDSN,
		Clock:  clock,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}

	c.closers = append(c.closers, store.Close)
	return store, nil
}

func newRepositories(cfg config.Config, clock clockwork.Clock, ids idgen.Generator, logger *logging.Logger) (repositories, error) {
	if cfg.BackendMode == config.BackendModeMemory {
		return repositories{
			teams:   memory.NewTeamRepository(nil),
			players: memory.NewPlayerRepository(nil),
			events:  memory.NewEventRepository(nil),
			auth:    memory.NewAuthProvider(ids),
		}, nil
	}

	client, err := backend.NewClient(backend.ClientConfig{
		BaseURL: cfg.BackendURL,
		APIKey:  cfg.BackendAPIKey,
		Timeout: cfg.BackendTimeout,
		Logger:  logger,
		Clock:   clock,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.BackendCircuitEnabled,
			FailureThreshold: cfg.BackendCircuitFailureCount,
			OpenTimeout:      cfg.BackendCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.BackendCircuitHalfOpenMaxReq,
		},
	})
	if err != nil {
		return repositories{}, crerr.Wrap(err, "create backend client")
	}

	return repositories{
		teams:   rest.NewTeamRepository(client),
		players: rest.NewPlayerRepository(client),
		events:  rest.NewEventRepository(client),
		auth:    rest.NewAuthClient(client),
	}, nil
}
