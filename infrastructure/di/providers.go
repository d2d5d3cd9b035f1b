package di

import (
	"context"

	"destek-backend/application/ports"
	"destek-backend/application/services"
	"destek-backend/infrastructure/analytics"
	"destek-backend/infrastructure/config"
	"destek-backend/infrastructure/embedding"
	ddbstore "destek-backend/infrastructure/persistence/dynamodb"
	"destek-backend/infrastructure/persistence/memory"
	"destek-backend/infrastructure/vectorindex"
	"destek-backend/pkg/auth"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideKeyValueStore picks the shared store implementation.
// Development runs against an in-memory store so no AWS account is
// needed locally.
func ProvideKeyValueStore(awsCfg aws.Config, cfg *config.Config, logger *zap.Logger) ports.KeyValueStore {
	if cfg.IsDevelopment() {
		logger.Info("using in-memory key value store")
		return memory.NewStore()
	}
	client := awsdynamodb.NewFromConfig(awsCfg)
	return ddbstore.NewKVStore(client, cfg.DynamoDBTable, logger)
}

// ProvideEmbeddingProvider picks the embedding backend
func ProvideEmbeddingProvider(cfg *config.Config, logger *zap.Logger) (ports.EmbeddingProvider, error) {
	if cfg.OpenAIAPIKey == "" && cfg.IsDevelopment() {
		logger.Warn("no OpenAI key configured, using local hash embedder")
		return embedding.NewLocalProvider(), nil
	}
	return embedding.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
}

// ProvideVectorIndex picks the vector index implementation
func ProvideVectorIndex(cfg *config.Config, logger *zap.Logger) ports.VectorIndex {
	if cfg.VectorIndexURL == "" && cfg.IsDevelopment() {
		logger.Warn("no vector index configured, using in-memory index")
		return vectorindex.NewMemoryIndex()
	}
	return vectorindex.NewRESTIndex(cfg.VectorIndexURL, cfg.VectorIndexToken, logger)
}

// ProvideAnalyticsSink creates the analytics sink, or nil when disabled
func ProvideAnalyticsSink(awsCfg aws.Config, cfg *config.Config, logger *zap.Logger) ports.AnalyticsSink {
	if !cfg.EnableAnalytics {
		return nil
	}
	client := awseventbridge.NewFromConfig(awsCfg)
	return analytics.NewEventBridgeSink(client, cfg.EventBusName, logger)
}

// ProvideRateLimiter creates the fixed-window request governor
func ProvideRateLimiter(store ports.KeyValueStore, cfg *config.Config, logger *zap.Logger) *auth.FixedWindowLimiter {
	return auth.NewFixedWindowLimiter(store, cfg.RequestsPerMinute, logger)
}

// ProvideEmbeddingCache creates the embedding cache
func ProvideEmbeddingCache(store ports.KeyValueStore, provider ports.EmbeddingProvider, logger *zap.Logger) *services.EmbeddingCache {
	return services.NewEmbeddingCache(store, provider, logger)
}

// ProvideMetricsRecorder creates the metrics recorder
func ProvideMetricsRecorder(store ports.KeyValueStore, sink ports.AnalyticsSink, logger *zap.Logger) *services.MetricsRecorder {
	return services.NewMetricsRecorder(store, sink, logger)
}

// ProvideAskService wires the question answering pipeline
func ProvideAskService(
	limiter *auth.FixedWindowLimiter,
	cache *services.EmbeddingCache,
	index ports.VectorIndex,
	metrics *services.MetricsRecorder,
	cfg *config.Config,
	logger *zap.Logger,
) *services.AskService {
	return services.NewAskService(limiter, cache, index, metrics, services.AskConfig{
		TopK:             cfg.TopK,
		PrimaryThreshold: cfg.PrimaryThreshold,
		FuzzyThreshold:   cfg.FuzzyThreshold,
	}, logger)
}

// ProvideCorpusService wires the corpus maintenance service
func ProvideCorpusService(provider ports.EmbeddingProvider, index ports.VectorIndex, logger *zap.Logger) *services.CorpusService {
	return services.NewCorpusService(provider, index, logger)
}
