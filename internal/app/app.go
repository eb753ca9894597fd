// Package app wires configuration into the long-lived components shared by
// the server and the CLI.
package app

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/po-tracker/internal/cache"
	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/extraction"
	"github.com/joseph-ayodele/po-tracker/internal/metrics"
	"github.com/joseph-ayodele/po-tracker/internal/ocr"
	"github.com/joseph-ayodele/po-tracker/internal/pipeline"
	"github.com/joseph-ayodele/po-tracker/internal/purchaseorders"
	"github.com/joseph-ayodele/po-tracker/internal/repository"
	"github.com/joseph-ayodele/po-tracker/internal/tempfiles"
)

type App struct {
	Config *common.Config
	Logger *slog.Logger

	DB             *repository.DB
	Results        repository.OCRResultRepository
	Engine         *extraction.Engine
	OCR            *ocr.Extractor
	Cache          cache.Cache
	Temp           *tempfiles.Manager
	Metrics        *metrics.Metrics
	Processor      *pipeline.Processor
	PurchaseOrders *purchaseorders.Service
}

// New connects and migrates the database and builds every component.
// Call Close when done.
func New(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	db, err := repository.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	a.DB = db
	if err := repository.Migrate(ctx, db, logger); err != nil {
		a.Close()
		return nil, err
	}

	engine, err := extraction.NewEngine(extraction.WithLogger(logger))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Engine = engine

	temp, err := tempfiles.NewManager(cfg.TempDir.Dir, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Temp = temp

	a.Cache = openCache(ctx, cfg.Cache, logger)
	a.OCR = ocr.NewExtractor(ocr.ConfigFrom(cfg.OCR), logger)
	a.Metrics = metrics.New()
	a.Results = repository.NewOCRResultRepository(db, logger)

	a.Processor = pipeline.NewProcessor(logger, a.OCR, engine, temp, a.Results,
		pipeline.WithCache(a.Cache, cfg.Cache.TTL),
		pipeline.WithMetrics(a.Metrics),
	)

	pos, err := purchaseorders.NewService(repository.NewPurchaseOrderRepository(db, logger), logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.PurchaseOrders = pos
	return a, nil
}

// openCache prefers Redis and falls back to process memory when Redis is
// not configured or unreachable.
func openCache(ctx context.Context, cfg common.CacheConfig, logger *slog.Logger) cache.Cache {
	if cfg.RedisURL == "" {
		logger.Info("ocr cache: in-memory")
		return cache.NewMemoryCache()
	}
	rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.Prefix)
	if err != nil {
		logger.Warn("ocr cache: redis unavailable, using memory", "error", err)
		return cache.NewMemoryCache()
	}
	logger.Info("ocr cache: redis")
	return rc
}

func (a *App) Close() {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Logger.Warn("cache close failed", "error", err)
		}
	}
	if a.DB != nil {
		a.DB.Close(a.Logger)
	}
}
