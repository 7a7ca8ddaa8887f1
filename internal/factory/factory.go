package factory

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/crackthecode/internal/config"
	"github.com/mcoot/crackthecode/internal/dependencies/clock"
	"github.com/mcoot/crackthecode/internal/dependencies/random"
	"github.com/mcoot/crackthecode/internal/filestore"
	"github.com/mcoot/crackthecode/internal/passhash"
	"github.com/mcoot/crackthecode/internal/services/auth"
	"github.com/mcoot/crackthecode/internal/services/chat"
	"github.com/mcoot/crackthecode/internal/services/daily"
	"github.com/mcoot/crackthecode/internal/services/encoder"
	"github.com/mcoot/crackthecode/internal/services/pool"
	"github.com/mcoot/crackthecode/internal/services/profile"
	"github.com/mcoot/crackthecode/internal/services/quote"
	"github.com/mcoot/crackthecode/internal/services/relationship"
	"github.com/mcoot/crackthecode/internal/services/scheduler"
	"github.com/mcoot/crackthecode/internal/services/scoreboard"
	"github.com/mcoot/crackthecode/internal/storage"
	"github.com/mcoot/crackthecode/internal/storage/memory"
	"github.com/mcoot/crackthecode/internal/storage/postgres"
	redisstorage "github.com/mcoot/crackthecode/internal/storage/redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage
	Files   filestore.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Quotes quote.Provider
	Hasher *passhash.Hasher

	// Services
	AuthService   *auth.Service
	Profiles      *profile.Service
	Relationships *relationship.Controller
	Chat          *chat.Service
	Daily         *daily.Engine
	Scores        *scoreboard.Service
	Pool          *pool.Service

	// StreakReset zeroes broken streaks once a day. Not started by the factory.
	StreakReset *scheduler.Scheduler

	closers []io.Closer
}

// Close releases storage connections
func (a *App) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// dependencies are the swappable parts of an App
type dependencies struct {
	store    storage.Storage
	files    filestore.Store
	clock    clock.Clock
	random   random.Random
	quotes   quote.Provider
	hasher   *passhash.Hasher
	authCfg  auth.Config
	resetCfg scheduler.Config
	logger   *slog.Logger
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	// Use no-op logger if not provided
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, closer, err := newStorage(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	files, err := filestore.NewLocal(cfg.Uploads.Dir, cfg.Uploads.URLPrefix)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}

	app := newWithDependencies(dependencies{
		store:  store,
		files:  files,
		clock:  clock.New(),
		random: random.New(),
		quotes: quote.NewZenQuotes(cfg.Daily.QuoteURL, cfg.Daily.QuoteTimeout),
		hasher: passhash.New(cfg.Auth.BcryptCost),
		authCfg: auth.Config{
			Secret:   cfg.Auth.JWTSecret,
			TokenTTL: cfg.Auth.TokenTTL,
		},
		resetCfg: scheduler.Config{Hour: cfg.Daily.ResetHour, Minute: cfg.Daily.ResetMinute},
		logger:   logger,
	})
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	return app, nil
}

// newStorage opens the configured backend
func newStorage(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (storage.Storage, io.Closer, error) {
	switch cfg.Type {
	case "", config.StorageMemory:
		return memory.New(), nil, nil

	case config.StorageRedis:
		store, err := redisstorage.New(ctx, redisstorage.ConfigFrom(cfg))
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("using redis storage", "prefix", cfg.RedisKeyPrefix, "pool_size", cfg.RedisPoolSize)
		return store, store, nil

	case config.StoragePostgres:
		if cfg.Migrate {
			if err := postgres.Migrate(ctx, cfg.PostgresDSN); err != nil {
				return nil, nil, fmt.Errorf("migrate postgres: %w", err)
			}
		}
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		store := postgres.New(db)
		logger.Info("using postgres storage", "migrated", cfg.Migrate)
		return store, store, nil

	default:
		return nil, nil, fmt.Errorf("invalid storage type %q: must be memory, redis or postgres", cfg.Type)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(deps dependencies) *App {
	enc := encoder.New(deps.random)

	authService := auth.New(deps.store, deps.clock, deps.hasher, deps.authCfg)
	profiles := profile.New(deps.store, deps.files, deps.logger)
	relationships := relationship.NewController(deps.store, deps.hasher, deps.clock)
	chatService := chat.New(deps.store)
	dailyEngine := daily.NewEngine(deps.store, deps.quotes, enc, deps.clock, deps.logger)
	scores := scoreboard.New(deps.store, deps.clock)
	poolService := pool.New(deps.store, enc, deps.random, deps.clock)
	streakReset := scheduler.New("reset-streaks", dailyEngine.ResetStreaks, deps.resetCfg, deps.clock, deps.logger)

	return &App{
		Storage:       deps.store,
		Files:         deps.files,
		Clock:         deps.clock,
		Random:        deps.random,
		Quotes:        deps.quotes,
		Hasher:        deps.hasher,
		AuthService:   authService,
		Profiles:      profiles,
		Relationships: relationships,
		Chat:          chatService,
		Daily:         dailyEngine,
		Scores:        scores,
		Pool:          poolService,
		StreakReset:   streakReset,
	}
}
