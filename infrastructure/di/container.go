package di

import (
	"context"

	"destek-backend/application/services"
	"destek-backend/infrastructure/config"
	"destek-backend/pkg/auth"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	RateLimiter *auth.FixedWindowLimiter
	Cache       *services.EmbeddingCache
	Metrics     *services.MetricsRecorder
	AskService  *services.AskService
	Corpus      *services.CorpusService
}

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := ProvideKeyValueStore(awsCfg, cfg, logger)

	provider, err := ProvideEmbeddingProvider(cfg, logger)
	if err != nil {
		return nil, err
	}

	index := ProvideVectorIndex(cfg, logger)
	sink := ProvideAnalyticsSink(awsCfg, cfg, logger)

	limiter := ProvideRateLimiter(store, cfg, logger)
	cache := ProvideEmbeddingCache(store, provider, logger)
	metrics := ProvideMetricsRecorder(store, sink, logger)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		RateLimiter: limiter,
		Cache:       cache,
		Metrics:     metrics,
		AskService:  ProvideAskService(limiter, cache, index, metrics, cfg, logger),
		Corpus:      ProvideCorpusService(provider, index, logger),
	}, nil
}

// Shutdown drains fire-and-forget work before the process exits
func (c *Container) Shutdown() {
	c.Cache.Flush()
	c.Metrics.Flush()
}
