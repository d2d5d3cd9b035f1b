package services

import (
	"context"
	"time"

	"destek-backend/application/ports"
	"destek-backend/domain/faq"
	"destek-backend/pkg/auth"
	apperrors "destek-backend/pkg/errors"

	"go.uber.org/zap"
)

// AskConfig carries the matching parameters of the pipeline
type AskConfig struct {
	TopK             int
	PrimaryThreshold float64
	FuzzyThreshold   float64
}

// Suggestion is an alternate FAQ question offered to the user
type Suggestion struct {
	ID       string  `json:"id"`
	Question string  `json:"question"`
	Category string  `json:"category,omitempty"`
	Score    float64 `json:"score"`
}

// AskResult is the graded answer for one question. Outcome determines
// which fields are populated: Direct carries Answer and Confidence,
// Fuzzy carries SuggestedQuestion, TentativeAnswer and Confidence,
// NoMatch carries only Alternates.
type AskResult struct {
	Outcome           faq.Outcome  `json:"outcome"`
	Answer            string       `json:"answer,omitempty"`
	Confidence        float64      `json:"confidence,omitempty"`
	SuggestedQuestion string       `json:"suggested_question,omitempty"`
	TentativeAnswer   string       `json:"tentative_answer,omitempty"`
	Category          string       `json:"category,omitempty"`
	Alternates        []Suggestion `json:"alternates,omitempty"`
	CacheHit          bool         `json:"cache_hit"`
}

// AskService runs the question answering pipeline: rate limit, normalize,
// embed through the cache, query the vector index, grade the result.
// One metric is recorded per decision, off the response path.
type AskService struct {
	limiter *auth.FixedWindowLimiter
	cache   *EmbeddingCache
	index   ports.VectorIndex
	metrics *MetricsRecorder
	config  AskConfig
	logger  *zap.Logger
}

// NewAskService wires the pipeline
func NewAskService(
	limiter *auth.FixedWindowLimiter,
	cache *EmbeddingCache,
	index ports.VectorIndex,
	metrics *MetricsRecorder,
	config AskConfig,
	logger *zap.Logger,
) *AskService {
	if config.TopK <= 0 {
		config.TopK = 5
	}
	return &AskService{
		limiter: limiter,
		cache:   cache,
		index:   index,
		metrics: metrics,
		config:  config,
		logger:  logger,
	}
}

// Ask answers a free-form question for the given client
func (s *AskService) Ask(ctx context.Context, question, clientKey string) (*AskResult, error) {
	started := time.Now()

	if s.limiter != nil {
		admission := s.limiter.Admit(ctx, clientKey)
		if !admission.Allowed {
			return nil, apperrors.NewRateLimitError(s.limiter.Limit(), auth.RetryAfterSeconds(admission))
		}
	}

	normalized := faq.Normalize(question)
	if normalized == "" {
		return nil, apperrors.NewValidationError("question is empty after normalization")
	}

	vector, cacheHit, err := s.cache.GetEmbedding(ctx, normalized)
	if err != nil {
		return nil, err
	}

	matches, err := s.index.Query(ctx, vector, s.config.TopK)
	if err != nil {
		return nil, apperrors.NewProviderError("vector index", err)
	}

	decision, err := faq.Decide(toCandidates(matches), s.config.PrimaryThreshold, s.config.FuzzyThreshold)
	if err != nil {
		return nil, apperrors.NewInternalError("invalid matcher thresholds").WithCause(err)
	}

	result := buildResult(decision, cacheHit)

	s.recordMetric(normalized, decision, cacheHit, time.Since(started))

	return result, nil
}

// recordMetric dispatches exactly one metric per decision
func (s *AskService) recordMetric(normalized string, decision faq.Decision, cacheHit bool, latency time.Duration) {
	if s.metrics == nil {
		return
	}

	metric := QueryMetric{
		Timestamp:          time.Now().UTC(),
		NormalizedQuestion: normalized,
		Outcome:            decision.Outcome,
		CacheHit:           cacheHit,
		LatencyMs:          latency.Milliseconds(),
	}
	if decision.Best != nil {
		metric.Confidence = decision.Best.Score
		metric.Category = decision.Best.Category
	}

	s.metrics.Record(metric)
}

func toCandidates(matches []ports.Match) []faq.MatchCandidate {
	out := make([]faq.MatchCandidate, len(matches))
	for i, m := range matches {
		out[i] = faq.MatchCandidate{
			ID:       m.ID,
			Question: m.Question,
			Answer:   m.Answer,
			Category: m.Category,
			Score:    m.Score,
		}
	}
	return out
}

func buildResult(decision faq.Decision, cacheHit bool) *AskResult {
	result := &AskResult{
		Outcome:    decision.Outcome,
		Alternates: toSuggestions(decision.Alternates),
		CacheHit:   cacheHit,
	}

	switch decision.Outcome {
	case faq.OutcomeDirect:
		result.Answer = decision.Best.Answer
		result.Confidence = decision.Best.Score
		result.Category = decision.Best.Category
	case faq.OutcomeFuzzy:
		result.SuggestedQuestion = decision.Best.Question
		result.TentativeAnswer = decision.Best.Answer
		result.Confidence = decision.Best.Score
		result.Category = decision.Best.Category
	}

	return result
}

func toSuggestions(candidates []faq.MatchCandidate) []Suggestion {
	out := make([]Suggestion, len(candidates))
	for i, c := range candidates {
		out[i] = Suggestion{
			ID:       c.ID,
			Question: c.Question,
			Category: c.Category,
			Score:    c.Score,
		}
	}
	return out
}
