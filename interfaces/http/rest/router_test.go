package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"destek-backend/application/services"
	"destek-backend/domain/faq"
	"destek-backend/infrastructure/config"
	"destek-backend/infrastructure/di"
	"destek-backend/infrastructure/embedding"
	"destek-backend/infrastructure/persistence/memory"
	"destek-backend/infrastructure/vectorindex"
	"destek-backend/pkg/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func testContainer(t *testing.T, requestsPerMinute int) *di.Container {
	t.Helper()

	cfg := &config.Config{
		Environment:       "development",
		PrimaryThreshold:  0.7,
		FuzzyThreshold:    0.6,
		TopK:              5,
		RequestsPerMinute: requestsPerMinute,
		JWTSecret:         testSecret,
		JWTIssuer:         "destek-backend",
	}

	logger := zap.NewNop()
	store := memory.NewStore()
	provider := embedding.NewLocalProvider()
	index := vectorindex.NewMemoryIndex()

	limiter := auth.NewFixedWindowLimiter(store, cfg.RequestsPerMinute, logger)
	cache := services.NewEmbeddingCache(store, provider, logger)
	metrics := services.NewMetricsRecorder(store, nil, logger)

	container := &di.Container{
		Config:      cfg,
		Logger:      logger,
		RateLimiter: limiter,
		Cache:       cache,
		Metrics:     metrics,
		AskService: services.NewAskService(limiter, cache, index, metrics, services.AskConfig{
			TopK:             cfg.TopK,
			PrimaryThreshold: cfg.PrimaryThreshold,
			FuzzyThreshold:   cfg.FuzzyThreshold,
		}, logger),
		Corpus: services.NewCorpusService(provider, index, logger),
	}

	// seed one FAQ entry
	require.NoError(t, container.Corpus.UpsertEntries(context.Background(), []faq.Entry{
		{
			ID:       "faq-1",
			Question: "Şifremi unuttum",
			Answer:   "Giriş sayfasındaki bağlantıyı kullanın.",
			Category: "hesap",
		},
	}))

	return container
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "destek-backend",
		"sub": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func postAsk(handler http.Handler, question string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"question": question})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_AskDirectMatch(t *testing.T) {
	handler := NewRouter(testContainer(t, 60)).Setup()

	rec := postAsk(handler, "sifremi unuttum")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool               `json:"success"`
		Data    services.AskResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, faq.OutcomeDirect, resp.Data.Outcome)
	assert.Equal(t, "Giriş sayfasındaki bağlantıyı kullanın.", resp.Data.Answer)
	assert.InDelta(t, 1.0, resp.Data.Confidence, 1e-6)
}

func TestRouter_AskRejectsMissingQuestion(t *testing.T) {
	handler := NewRouter(testContainer(t, 60)).Setup()

	rec := postAsk(handler, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestRouter_AskRateLimited(t *testing.T) {
	handler := NewRouter(testContainer(t, 2)).Setup()

	require.Equal(t, http.StatusOK, postAsk(handler, "sifremi unuttum").Code)
	require.Equal(t, http.StatusOK, postAsk(handler, "sifremi unuttum").Code)

	rec := postAsk(handler, "sifremi unuttum")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRouter_CacheStats(t *testing.T) {
	handler := NewRouter(testContainer(t, 60)).Setup()

	postAsk(handler, "sifremi unuttum")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cache/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data services.CacheStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Enabled)
	assert.GreaterOrEqual(t, resp.Data.TotalQueries, int64(1))
}

func TestRouter_AdminRequiresToken(t *testing.T) {
	handler := NewRouter(testContainer(t, 60)).Setup()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/cache/clear", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/cache/clear", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AdminUpsertAndDeleteFAQs(t *testing.T) {
	container := testContainer(t, 60)
	handler := NewRouter(container).Setup()
	token := adminToken(t)

	body, _ := json.Marshal(map[string]interface{}{
		"entries": []faq.Entry{
			{ID: "faq-2", Question: "Ödeme nasıl yapılır?", Answer: "Kart ile ödeyebilirsiniz.", Category: "ödeme"},
		},
	})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/faqs", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// the new entry is now answerable
	askRec := postAsk(handler, "odeme nasil yapilir?")
	require.Equal(t, http.StatusOK, askRec.Code)
	var resp struct {
		Data services.AskResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(askRec.Body.Bytes(), &resp))
	assert.Equal(t, faq.OutcomeDirect, resp.Data.Outcome)

	body, _ = json.Marshal(map[string]interface{}{"ids": []string{"faq-2"}})
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/admin/faqs", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_HealthEndpoints(t *testing.T) {
	handler := NewRouter(testContainer(t, 60)).Setup()

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
