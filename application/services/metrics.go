package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"destek-backend/application/ports"
	"destek-backend/domain/faq"
	apperrors "destek-backend/pkg/errors"
	"destek-backend/pkg/utils"

	"go.uber.org/zap"
)

const (
	metricsDailyKeyPrefix = "metrics:daily:"
	metricsRecentKey      = "metrics:recent"

	// recent queries are a bounded ring, newest first
	recentLimit = 100

	dailyTTL        = 90 * 24 * time.Hour
	metricsDispatch = 5 * time.Second
)

// QueryMetric captures one answered question. Write-once: metrics are
// folded into aggregates and never edited afterwards.
type QueryMetric struct {
	Timestamp          time.Time   `json:"timestamp"`
	NormalizedQuestion string      `json:"normalized_question"`
	Outcome            faq.Outcome `json:"outcome"`
	Confidence         float64     `json:"confidence,omitempty"`
	CacheHit           bool        `json:"cache_hit"`
	LatencyMs          int64       `json:"latency_ms"`
	Category           string      `json:"category,omitempty"`
}

// DailyMetrics is the per-day aggregate under metrics:daily:<date>.
// Closed days are never edited.
type DailyMetrics struct {
	Date         string  `json:"date"`
	Total        int64   `json:"total"`
	Direct       int64   `json:"direct"`
	Fuzzy        int64   `json:"fuzzy"`
	NoMatch      int64   `json:"no_match"`
	CacheHits    int64   `json:"cache_hits"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// MetricsRecorder dispatches per-query metrics to the shared store and
// the analytics sink. Every write is asynchronous and best-effort; a
// failing store or sink only produces a log line.
type MetricsRecorder struct {
	store  ports.KeyValueStore
	sink   ports.AnalyticsSink
	logger *zap.Logger

	pending sync.WaitGroup
}

// NewMetricsRecorder creates a metrics recorder. Either dependency may
// be nil, which disables that destination.
func NewMetricsRecorder(store ports.KeyValueStore, sink ports.AnalyticsSink, logger *zap.Logger) *MetricsRecorder {
	return &MetricsRecorder{
		store:  store,
		sink:   sink,
		logger: logger,
	}
}

// Record dispatches one metric without blocking the caller
func (m *MetricsRecorder) Record(metric QueryMetric) {
	m.pending.Add(1)
	go func() {
		defer m.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), metricsDispatch)
		defer cancel()

		m.foldDaily(ctx, metric)
		m.pushRecent(ctx, metric)
		m.publish(ctx, metric)
	}()
}

// Flush waits for in-flight dispatches. Used on shutdown and in tests.
func (m *MetricsRecorder) Flush() {
	m.pending.Wait()
}

// foldDaily merges the metric into its day's aggregate with a plain
// read-modify-write; concurrent writers can lose an increment
func (m *MetricsRecorder) foldDaily(ctx context.Context, metric QueryMetric) {
	if m.store == nil {
		return
	}

	key := metricsDailyKeyPrefix + utils.DayKey(metric.Timestamp)

	agg := DailyMetrics{Date: utils.DayKey(metric.Timestamp)}
	raw, err := m.store.Get(ctx, key)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, &agg); jsonErr != nil {
			agg = DailyMetrics{Date: utils.DayKey(metric.Timestamp)}
		}
	case errors.Is(err, ports.ErrKeyNotFound):
		// first metric of the day
	default:
		m.logger.Debug("daily metrics read failed", zap.Error(err))
		return
	}

	// running mean keeps the record small
	agg.AvgLatencyMs = (agg.AvgLatencyMs*float64(agg.Total) + float64(metric.LatencyMs)) / float64(agg.Total+1)
	agg.Total++
	switch metric.Outcome {
	case faq.OutcomeDirect:
		agg.Direct++
	case faq.OutcomeFuzzy:
		agg.Fuzzy++
	case faq.OutcomeNoMatch:
		agg.NoMatch++
	}
	if metric.CacheHit {
		agg.CacheHits++
	}

	out, err := json.Marshal(agg)
	if err != nil {
		return
	}
	if err := m.store.Put(ctx, key, out, dailyTTL); err != nil {
		m.logger.Debug("daily metrics write failed", zap.Error(err))
	}
}

// pushRecent prepends the metric to the bounded recent ring
func (m *MetricsRecorder) pushRecent(ctx context.Context, metric QueryMetric) {
	if m.store == nil {
		return
	}

	var recent []QueryMetric
	raw, err := m.store.Get(ctx, metricsRecentKey)
	if err == nil {
		if jsonErr := json.Unmarshal(raw, &recent); jsonErr != nil {
			recent = nil
		}
	} else if !errors.Is(err, ports.ErrKeyNotFound) {
		m.logger.Debug("recent metrics read failed", zap.Error(err))
		return
	}

	recent = append([]QueryMetric{metric}, recent...)
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	out, err := json.Marshal(recent)
	if err != nil {
		return
	}
	if err := m.store.Put(ctx, metricsRecentKey, out, 0); err != nil {
		m.logger.Debug("recent metrics write failed", zap.Error(err))
	}
}

// publish posts the metric to the analytics sink, fire-and-forget
func (m *MetricsRecorder) publish(ctx context.Context, metric QueryMetric) {
	if m.sink == nil {
		return
	}

	event := ports.AnalyticsEvent{
		Type: "faq.query",
		Time: metric.Timestamp,
		Payload: map[string]interface{}{
			"question":   metric.NormalizedQuestion,
			"outcome":    string(metric.Outcome),
			"confidence": metric.Confidence,
			"cache_hit":  metric.CacheHit,
			"latency_ms": metric.LatencyMs,
			"category":   metric.Category,
		},
	}

	if err := m.sink.Publish(ctx, event); err != nil {
		m.logger.Debug("analytics publish failed", zap.Error(err))
	}
}

// Daily reads one day's aggregate
func (m *MetricsRecorder) Daily(ctx context.Context, date string) (DailyMetrics, error) {
	if m.store == nil {
		return DailyMetrics{}, apperrors.NewUnavailableError("metrics store", nil)
	}

	raw, err := m.store.Get(ctx, metricsDailyKeyPrefix+date)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return DailyMetrics{Date: date}, nil
	}
	if err != nil {
		return DailyMetrics{}, apperrors.NewUnavailableError("metrics store", err)
	}

	var agg DailyMetrics
	if err := json.Unmarshal(raw, &agg); err != nil {
		return DailyMetrics{}, apperrors.Wrap(err, "decode daily metrics")
	}
	return agg, nil
}

// Recent reads the bounded recent-query ring, newest first
func (m *MetricsRecorder) Recent(ctx context.Context) ([]QueryMetric, error) {
	if m.store == nil {
		return nil, apperrors.NewUnavailableError("metrics store", nil)
	}

	raw, err := m.store.Get(ctx, metricsRecentKey)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return []QueryMetric{}, nil
	}
	if err != nil {
		return nil, apperrors.NewUnavailableError("metrics store", err)
	}

	var recent []QueryMetric
	if err := json.Unmarshal(raw, &recent); err != nil {
		return nil, apperrors.Wrap(err, "decode recent metrics")
	}
	return recent, nil
}
