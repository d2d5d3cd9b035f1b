package vectorindex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"destek-backend/application/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRESTIndex_Query(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req struct {
			Vector []float32 `json:"vector"`
			TopK   int       `json:"topK"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 3, req.TopK)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": []map[string]interface{}{
				{
					"id":    "faq-1",
					"score": 0.82,
					"metadata": map[string]string{
						"question": "şifremi nasıl sıfırlarım?",
						"answer":   "Bağlantıyı kullanın.",
						"category": "hesap",
					},
				},
			},
		})
	}))
	defer server.Close()

	index := NewRESTIndex(server.URL, "test-token", zap.NewNop())

	matches, err := index.Query(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "faq-1", matches[0].ID)
	assert.Equal(t, 0.82, matches[0].Score)
	assert.Equal(t, "şifremi nasıl sıfırlarım?", matches[0].Question)
	assert.Equal(t, "hesap", matches[0].Category)
}

func TestRESTIndex_UpsertSendsMetadata(t *testing.T) {
	var received []upsertItem
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upsert", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	index := NewRESTIndex(server.URL, "test-token", zap.NewNop())

	err := index.Upsert(context.Background(), []ports.Document{
		{ID: "faq-1", Vector: []float32{1, 0}, Question: "soru", Answer: "cevap", Category: "genel"},
	})
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "soru", received[0].Metadata["question"])
}

func TestRESTIndex_ErrorStatusSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	index := NewRESTIndex(server.URL, "test-token", zap.NewNop())

	_, err := index.Query(context.Background(), []float32{1}, 1)
	assert.Error(t, err)
}
