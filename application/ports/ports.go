package ports

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by KeyValueStore.Get when a key does not exist
var ErrKeyNotFound = errors.New("key not found")

// EmbeddingProvider turns text into a fixed-length vector.
// Implementations must reject empty input.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// Document is an FAQ entry together with its question embedding,
// as stored in the vector index.
type Document struct {
	ID       string
	Vector   []float32
	Question string
	Answer   string
	Category string
}

// Match is one ranked result from a vector index query
type Match struct {
	ID       string
	Score    float64 // cosine similarity in [0,1]
	Question string
	Answer   string
	Category string
}

// VectorIndex is a managed similarity index over FAQ documents.
// Query returns up to topK matches sorted by descending score.
type VectorIndex interface {
	Upsert(ctx context.Context, docs []Document) error
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}

// KeyValueStore is the shared store holding cache entries, rate limit
// windows and metrics. No cross-key transactions; expiry is the store's
// native TTL. A zero ttl means no expiry.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// AnalyticsEvent is a structured event posted to the analytics sink
type AnalyticsEvent struct {
	Type    string
	Payload map[string]interface{}
	Time    time.Time
}

// AnalyticsSink receives query events. Callers treat Publish as
// fire-and-forget; a failing sink must never affect request handling.
type AnalyticsSink interface {
	Publish(ctx context.Context, event AnalyticsEvent) error
}
