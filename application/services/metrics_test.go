package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"destek-backend/application/ports"
	"destek-backend/domain/faq"
	"destek-backend/infrastructure/persistence/memory"
	"destek-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureSink struct {
	mu     sync.Mutex
	events []ports.AnalyticsEvent
}

func (s *captureSink) Publish(ctx context.Context, event ports.AnalyticsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func sampleMetric(outcome faq.Outcome, latencyMs int64) QueryMetric {
	return QueryMetric{
		Timestamp:          time.Now().UTC(),
		NormalizedQuestion: "şifremi unuttum",
		Outcome:            outcome,
		Confidence:         0.8,
		CacheHit:           outcome == faq.OutcomeDirect,
		LatencyMs:          latencyMs,
	}
}

func TestMetricsRecorder_FoldsDailyAggregate(t *testing.T) {
	store := memory.NewStore()
	recorder := NewMetricsRecorder(store, nil, zap.NewNop())
	ctx := context.Background()

	recorder.Record(sampleMetric(faq.OutcomeDirect, 100))
	recorder.Flush()
	recorder.Record(sampleMetric(faq.OutcomeFuzzy, 200))
	recorder.Flush()
	recorder.Record(sampleMetric(faq.OutcomeNoMatch, 300))
	recorder.Flush()

	daily, err := recorder.Daily(ctx, utils.DayKey(time.Now()))
	require.NoError(t, err)
	assert.Equal(t, int64(3), daily.Total)
	assert.Equal(t, int64(1), daily.Direct)
	assert.Equal(t, int64(1), daily.Fuzzy)
	assert.Equal(t, int64(1), daily.NoMatch)
	assert.Equal(t, int64(1), daily.CacheHits)
	assert.InDelta(t, 200, daily.AvgLatencyMs, 0.01)
}

func TestMetricsRecorder_RecentIsNewestFirstAndBounded(t *testing.T) {
	store := memory.NewStore()
	recorder := NewMetricsRecorder(store, nil, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < recentLimit+5; i++ {
		metric := sampleMetric(faq.OutcomeDirect, int64(i))
		recorder.pushRecent(ctx, metric)
	}

	recent, err := recorder.Recent(ctx)
	require.NoError(t, err)
	assert.Len(t, recent, recentLimit)
	assert.Equal(t, int64(recentLimit+4), recent[0].LatencyMs, "newest entry first")
}

func TestMetricsRecorder_PublishesToSink(t *testing.T) {
	sink := &captureSink{}
	recorder := NewMetricsRecorder(memory.NewStore(), sink, zap.NewNop())

	recorder.Record(sampleMetric(faq.OutcomeDirect, 42))
	recorder.Flush()

	require.Len(t, sink.events, 1)
	assert.Equal(t, "faq.query", sink.events[0].Type)
	assert.Equal(t, "direct", sink.events[0].Payload["outcome"])
}

func TestMetricsRecorder_EmptyDayReadsAsZero(t *testing.T) {
	recorder := NewMetricsRecorder(memory.NewStore(), nil, zap.NewNop())

	daily, err := recorder.Daily(context.Background(), "2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", daily.Date)
	assert.Equal(t, int64(0), daily.Total)
}
