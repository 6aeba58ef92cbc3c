package commands

import (
	"fmt"
	"os"

	"github.com/alphadesk/compass/internal/emitter"
	"github.com/alphadesk/compass/internal/engine"
	"github.com/alphadesk/compass/internal/marketdata"
	"github.com/alphadesk/compass/internal/scoreconfig"
	"github.com/alphadesk/compass/pkg/config"
	"github.com/alphadesk/compass/pkg/database"
	"github.com/alphadesk/compass/pkg/logger"
	"github.com/alphadesk/compass/pkg/redis"
)

// deps bundles the shared collaborators every command starts from
type deps struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	cache    *redis.Cache
	repo     *emitter.Repository
	strategy *scoreconfig.Config
}

// initDeps loads configuration and connects the shared infrastructure
func initDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	cache := redis.NewCache(redisClient, "compass")
	repo := emitter.NewRepository(db.Pool, cache, cfg.Scoring.CacheTopN, log)

	strategy, err := loadStrategy(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &deps{
		cfg:      cfg,
		log:      log,
		db:       db,
		cache:    cache,
		repo:     repo,
		strategy: strategy,
	}, nil
}

// loadStrategy reads the strategy YAML, falling back to the built-in
// default when no file is configured.
func loadStrategy(cfg *config.Config) (*scoreconfig.Config, error) {
	path := cfg.Scoring.StrategyPath
	if configFile != "" {
		path = configFile
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return scoreconfig.Default(), nil
	}

	strategy, err := scoreconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load strategy %s: %w", path, err)
	}

	return strategy, nil
}

// initEngine builds the scoring engine on top of the shared deps
func initEngine(d *deps) (*engine.Engine, error) {
	source := marketdata.NewSource(d.db.Pool)

	eng, err := engine.New(source, source, d.repo, d.strategy, d.cfg.Scoring.Workers, d.cfg.Scoring.BatchSize, d.log)
	if err != nil {
		return nil, fmt.Errorf("init engine: %w", err)
	}

	return eng, nil
}
