package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/polycopy/polyscore/internal/markets"
	"github.com/polycopy/polyscore/internal/ml"
	"github.com/polycopy/polyscore/internal/scoring"
	"github.com/polycopy/polyscore/internal/storage"
	"github.com/polycopy/polyscore/pkg/cache"
	"github.com/polycopy/polyscore/pkg/config"
	"github.com/polycopy/polyscore/pkg/healthprobe"
	"github.com/polycopy/polyscore/pkg/httpserver"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New()

	marketCache, err := setupCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	store, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	provider := setupMarketProvider(cfg, logger, store, marketCache)
	predictor := setupPredictor(cfg, logger)
	engine := setupEngine(cfg, logger, provider, store, predictor)
	httpServer := setupHTTPServer(cfg, logger, healthChecker, engine)

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		engine:        engine,
		storage:       store,
		marketCache:   marketCache,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 10000, // 10x expected max items (1000 markets)
		MaxCost:     1000,  // Maximum 1000 items in cache
		BufferItems: 64,    // Buffer size for Get operations
		Logger:      logger,
	})
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode == "postgres" {
		return storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
	}

	return storage.NewMemoryStorage(logger), nil
}

func setupMarketProvider(cfg *config.Config, logger *zap.Logger, store storage.Storage, marketCache cache.Cache) markets.Provider {
	gamma := markets.NewGammaClient(markets.GammaConfig{
		BaseURL: cfg.GammaURL,
		Timeout: cfg.MetadataTimeout,
		Retries: cfg.MetadataRetries,
		Logger:  logger,
	})

	return markets.NewCachedProvider(gamma, store, marketCache, cfg.MetadataCacheTTL, logger)
}

func setupPredictor(cfg *config.Config, logger *zap.Logger) ml.Predictor {
	return ml.NewClient(ml.Config{
		URL:     cfg.MLPredictURL,
		Timeout: cfg.MLTimeout,
		Retries: cfg.MLRetries,
		Logger:  logger,
	})
}

func setupEngine(cfg *config.Config, logger *zap.Logger, provider markets.Provider, store storage.Storage, predictor ml.Predictor) *scoring.Engine {
	return scoring.NewEngine(provider, store, store, predictor, scoring.Config{
		BankrollUSD:           cfg.BankrollUSD,
		KellyFraction:         cfg.KellyFraction,
		DefaultMaxSlippagePct: cfg.DefaultMaxSlippagePct,
		MinProfileSample:      cfg.MinProfileSample,
	}, logger)
}

func setupHTTPServer(cfg *config.Config, logger *zap.Logger, healthChecker *healthprobe.HealthChecker, engine *scoring.Engine) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Scorer:        engine,
	})
}
