package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"destek-backend/application/ports"
	apperrors "destek-backend/pkg/errors"

	"go.uber.org/zap"
)

const (
	cacheKeyPrefix = "emb:"
	statsKey       = "emb:stats"

	// cache entries expire via store TTL only; there is no LRU
	cacheTTL = 7 * 24 * time.Hour

	// leading slice of the normalized text appended to the hash,
	// purely to narrow hash collisions
	keyTextSlice = 32

	writeBackTimeout = 5 * time.Second
)

// CacheEntry is an immutable cached embedding. Entries are replaced,
// never mutated in place.
type CacheEntry struct {
	Vector     []float32 `json:"vector"`
	SourceText string    `json:"source_text"`
	CreatedAt  time.Time `json:"created_at"`
}

// cacheCounters is the single shared stats record under emb:stats.
// Updates are plain read-modify-write; concurrent requests may
// under-count. That imprecision is accepted.
type cacheCounters struct {
	TotalQueries int64     `json:"total_queries"`
	Hits         int64     `json:"hits"`
	Misses       int64     `json:"misses"`
	LastReset    time.Time `json:"last_reset"`
}

// CacheStats is the externally reported view of cache accounting
type CacheStats struct {
	Enabled      bool      `json:"enabled"`
	TotalQueries int64     `json:"total_queries"`
	Hits         int64     `json:"hits"`
	Misses       int64     `json:"misses"`
	HitRate      float64   `json:"hit_rate"`
	Size         int       `json:"size"`
	LastReset    time.Time `json:"last_reset,omitempty"`
}

// EmbeddingCache fronts the embedding provider with a content-addressed
// cache in the shared store. A failing store never fails the caller:
// lookups silently fall through to the provider.
type EmbeddingCache struct {
	store    ports.KeyValueStore
	provider ports.EmbeddingProvider
	logger   *zap.Logger

	pending sync.WaitGroup
}

// NewEmbeddingCache creates an embedding cache. A nil store disables
// caching entirely and every call goes straight to the provider.
func NewEmbeddingCache(store ports.KeyValueStore, provider ports.EmbeddingProvider, logger *zap.Logger) *EmbeddingCache {
	return &EmbeddingCache{
		store:    store,
		provider: provider,
		logger:   logger,
	}
}

// CacheKey derives the store key for a normalized question
func CacheKey(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	runes := []rune(normalized)
	if len(runes) > keyTextSlice {
		runes = runes[:keyTextSlice]
	}
	return cacheKeyPrefix + hex.EncodeToString(sum[:]) + ":" + string(runes)
}

// GetEmbedding returns the embedding vector for a normalized question,
// serving from the cache when possible. The second return value reports
// whether the vector came from the cache.
func (c *EmbeddingCache) GetEmbedding(ctx context.Context, normalized string) ([]float32, bool, error) {
	if c.store == nil {
		vector, err := c.embed(ctx, normalized)
		return vector, false, err
	}

	key := CacheKey(normalized)

	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var entry CacheEntry
		if jsonErr := json.Unmarshal(raw, &entry); jsonErr == nil && len(entry.Vector) > 0 {
			c.recordLookup(ctx, true)
			return entry.Vector, true, nil
		}
		c.logger.Warn("discarding corrupt cache entry", zap.String("key", key))
	case errors.Is(err, ports.ErrKeyNotFound):
		// plain miss
	default:
		// store fault: bypass the cache, never fail the caller
		c.logger.Warn("cache store unavailable, bypassing", zap.Error(err))
		vector, embedErr := c.embed(ctx, normalized)
		return vector, false, embedErr
	}

	vector, err := c.embed(ctx, normalized)
	if err != nil {
		return nil, false, err
	}

	c.writeBack(key, normalized, vector)
	c.recordLookup(ctx, false)

	return vector, false, nil
}

// embed calls the provider on the critical path
func (c *EmbeddingCache) embed(ctx context.Context, text string) ([]float32, error) {
	vector, err := c.provider.Embed(ctx, text)
	if err != nil {
		return nil, apperrors.NewProviderError("embedding", err)
	}
	return vector, nil
}

// writeBack persists a fresh embedding without blocking the response.
// Persistence failures are logged and swallowed.
func (c *EmbeddingCache) writeBack(key, sourceText string, vector []float32) {
	entry := CacheEntry{
		Vector:     vector,
		SourceText: sourceText,
		CreatedAt:  time.Now().UTC(),
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		c.logger.Error("marshal cache entry", zap.Error(err))
		return
	}

	c.pending.Add(1)
	go func() {
		defer c.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), writeBackTimeout)
		defer cancel()

		if err := c.store.Put(ctx, key, raw, cacheTTL); err != nil {
			c.logger.Warn("cache write-back failed", zap.String("key", key), zap.Error(err))
		}
	}()
}

// Flush waits for in-flight write-backs. Used on shutdown and in tests.
func (c *EmbeddingCache) Flush() {
	c.pending.Wait()
}

// recordLookup folds one hit or miss into the shared stats record.
// Best effort: store failures are swallowed.
func (c *EmbeddingCache) recordLookup(ctx context.Context, hit bool) {
	counters, err := c.readCounters(ctx)
	if err != nil {
		c.logger.Debug("cache stats read failed", zap.Error(err))
		return
	}

	counters.TotalQueries++
	if hit {
		counters.Hits++
	} else {
		counters.Misses++
	}

	raw, err := json.Marshal(counters)
	if err != nil {
		return
	}
	if err := c.store.Put(ctx, statsKey, raw, 0); err != nil {
		c.logger.Debug("cache stats write failed", zap.Error(err))
	}
}

func (c *EmbeddingCache) readCounters(ctx context.Context) (cacheCounters, error) {
	counters := cacheCounters{LastReset: time.Now().UTC()}

	raw, err := c.store.Get(ctx, statsKey)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return counters, nil
	}
	if err != nil {
		return counters, err
	}

	if err := json.Unmarshal(raw, &counters); err != nil {
		return cacheCounters{LastReset: time.Now().UTC()}, nil
	}
	return counters, nil
}

// Stats reports cache accounting. With no store configured it reports
// the cache as disabled.
func (c *EmbeddingCache) Stats(ctx context.Context) (CacheStats, error) {
	if c.store == nil {
		return CacheStats{Enabled: false}, nil
	}

	counters, err := c.readCounters(ctx)
	if err != nil {
		return CacheStats{Enabled: false}, apperrors.NewUnavailableError("cache store", err)
	}

	stats := CacheStats{
		Enabled:      true,
		TotalQueries: counters.TotalQueries,
		Hits:         counters.Hits,
		Misses:       counters.Misses,
		LastReset:    counters.LastReset,
	}
	if counters.TotalQueries > 0 {
		stats.HitRate = float64(counters.Hits) / float64(counters.TotalQueries)
	}

	keys, err := c.store.ListKeys(ctx, cacheKeyPrefix)
	if err == nil {
		size := 0
		for _, k := range keys {
			if k != statsKey {
				size++
			}
		}
		stats.Size = size
	}

	return stats, nil
}

// ClearCache removes every cache entry and the stats record, returning
// the number of keys removed. Idempotent.
func (c *EmbeddingCache) ClearCache(ctx context.Context) (int, error) {
	if c.store == nil {
		return 0, nil
	}

	keys, err := c.store.ListKeys(ctx, cacheKeyPrefix)
	if err != nil {
		return 0, apperrors.NewUnavailableError("cache store", err)
	}

	removed := 0
	for _, key := range keys {
		if err := c.store.Delete(ctx, key); err != nil {
			c.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
			continue
		}
		removed++
	}

	return removed, nil
}
