package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/triviagame/internal/api/events"
	"github.com/mcoot/triviagame/internal/config"
	"github.com/mcoot/triviagame/internal/dependencies/clock"
	"github.com/mcoot/triviagame/internal/dependencies/random"
	"github.com/mcoot/triviagame/internal/metrics"
	"github.com/mcoot/triviagame/internal/services/game"
	"github.com/mcoot/triviagame/internal/services/player"
	"github.com/mcoot/triviagame/internal/services/questionbank"
	"github.com/mcoot/triviagame/internal/services/scoring"
	"github.com/mcoot/triviagame/internal/storage"
	"github.com/mcoot/triviagame/internal/storage/memory"
	redisstorage "github.com/mcoot/triviagame/internal/storage/redis"
	sqlitestorage "github.com/mcoot/triviagame/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	QuestionBank   *questionbank.Service
	ScoringService *scoring.Service
	GameController *game.Controller
	PlayerService  *player.Service

	// Live events
	HubManager  *events.HubManager
	Broadcaster *events.Broadcaster

	Metrics *metrics.Recorder

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLiteConfig holds the database location (required if StorageType is "sqlite")
	SQLiteConfig *sqlitestorage.Config
	// Game tunes the compare-and-swap retry loop. Zero value means game.DefaultConfig()
	Game game.Config
}

// ConfigFrom derives factory settings from the environment-loaded config
func ConfigFrom(cfg config.Config, logger *slog.Logger) Config {
	gameCfg := game.DefaultConfig()
	gameCfg.MaxUpdateAttempts = cfg.MaxUpdateAttempts

	factoryCfg := Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
		Game:        gameCfg,
	}

	switch cfg.StorageType {
	case StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	case StorageTypeSQLite:
		sqliteCfg := sqlitestorage.DefaultConfig()
		sqliteCfg.Path = cfg.SQLitePath
		factoryCfg.SQLiteConfig = &sqliteCfg
	}

	return factoryCfg
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	rnd := random.New()

	var (
		store   storage.Storage
		closers []io.Closer
	)

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New(rnd)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig, rnd)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore)
	case StorageTypeSQLite:
		if cfg.SQLiteConfig == nil {
			return nil, errors.New("SQLiteConfig required when StorageType is sqlite")
		}
		sqliteStore, err := sqlitestorage.Open(ctx, *cfg.SQLiteConfig, rnd)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
		closers = append(closers, sqliteStore)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be memory, redis or sqlite", storageType)
	}

	gameCfg := cfg.Game
	if gameCfg.MaxUpdateAttempts == 0 {
		gameCfg = game.DefaultConfig()
	}

	app := newWithDependencies(store, clk, rnd, metrics.NewRecorder(), gameCfg, logger)
	app.closers = closers
	logger.Info("application wired", slog.String("storage", storageType))
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	recorder *metrics.Recorder,
	gameCfg game.Config,
	logger *slog.Logger,
) *App {
	hubManager := events.NewHubManager(logger)
	broadcaster := events.NewBroadcaster(hubManager, logger)

	questionBank := questionbank.New(store)
	scoringService := scoring.New(rnd)
	gameController := game.NewController(store, scoringService, broadcaster, recorder, clk, gameCfg, logger)
	playerService := player.New(store, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		QuestionBank:   questionBank,
		ScoringService: scoringService,
		GameController: gameController,
		PlayerService:  playerService,
		HubManager:     hubManager,
		Broadcaster:    broadcaster,
		Metrics:        recorder,
	}
}

// Close stops event hubs and releases storage connections
func (a *App) Close() error {
	a.HubManager.Close()

	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
