package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"time"

	"destek-backend/application/ports"

	"go.uber.org/zap"
)

const rateLimitKeyPrefix = "ratelimit:"

// DefaultRequestsPerMinute is the limit applied when none is configured
const DefaultRequestsPerMinute = 60

// Admission is the outcome of a rate limit check
type Admission struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration // only set when denied
}

// windowRecord is the per-client counter stored under ratelimit:<clientKey>
type windowRecord struct {
	ClientKey   string    `json:"client_key"`
	WindowStart time.Time `json:"window_start"`
	Count       int       `json:"count"`
}

// FixedWindowLimiter is a fixed-window request governor backed by the
// shared store, so the count is shared across instances. The counter
// resets abruptly at the window boundary; adjacent windows can admit up
// to twice the limit. Increments are read-then-write, an accepted race.
// If the store is unreachable the limiter fails open.
type FixedWindowLimiter struct {
	store  ports.KeyValueStore
	limit  int
	window time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewFixedWindowLimiter creates a limiter with a 60 second window
func NewFixedWindowLimiter(store ports.KeyValueStore, requestsPerMinute int, logger *zap.Logger) *FixedWindowLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	return &FixedWindowLimiter{
		store:  store,
		limit:  requestsPerMinute,
		window: time.Minute,
		logger: logger,
		now:    time.Now,
	}
}

// Limit returns the configured per-window limit
func (l *FixedWindowLimiter) Limit() int {
	return l.limit
}

// Admit decides whether a request from clientKey may proceed
func (l *FixedWindowLimiter) Admit(ctx context.Context, clientKey string) Admission {
	if l.store == nil {
		return Admission{Allowed: true, Remaining: l.limit}
	}

	now := l.now()
	key := rateLimitKeyPrefix + clientKey

	record, err := l.read(ctx, key)
	if err != nil && !errors.Is(err, ports.ErrKeyNotFound) {
		l.logger.Warn("rate limit store unavailable, failing open",
			zap.String("client", clientKey), zap.Error(err))
		return Admission{Allowed: true, Remaining: l.limit}
	}

	windowEnd := record.WindowStart.Add(l.window)

	// absent or expired window: start a fresh one
	if errors.Is(err, ports.ErrKeyNotFound) || !now.Before(windowEnd) {
		fresh := windowRecord{ClientKey: clientKey, WindowStart: now, Count: 1}
		l.write(ctx, key, fresh)
		return Admission{Allowed: true, Remaining: l.limit - 1}
	}

	if record.Count >= l.limit {
		retryAfter := windowEnd.Sub(now)
		return Admission{Allowed: false, RetryAfter: retryAfter}
	}

	record.Count++
	l.write(ctx, key, record)
	return Admission{Allowed: true, Remaining: l.limit - record.Count}
}

func (l *FixedWindowLimiter) read(ctx context.Context, key string) (windowRecord, error) {
	raw, err := l.store.Get(ctx, key)
	if err != nil {
		return windowRecord{}, err
	}

	var record windowRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		// treat a corrupt record as absent
		return windowRecord{}, ports.ErrKeyNotFound
	}
	return record, nil
}

// write persists the window record
// failures are swallowed so a flaky store cannot block traffic
func (l *FixedWindowLimiter) write(ctx context.Context, key string, record windowRecord) {
	raw, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := l.store.Put(ctx, key, raw, 2*l.window); err != nil {
		l.logger.Warn("rate limit write failed", zap.String("key", key), zap.Error(err))
	}
}

// RetryAfterSeconds renders a denial's retry delay for the Retry-After
// header, rounding up so clients never retry early
func RetryAfterSeconds(a Admission) int {
	if a.Allowed {
		return 0
	}
	secs := int(math.Ceil(a.RetryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// ClientKey builds the store key segment for an IP-based client.
// Accepts either a bare IP or the host:port form of http.Request.RemoteAddr.
func ClientKey(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		remoteAddr = host
	}
	return fmt.Sprintf("ip#%s", remoteAddr)
}
