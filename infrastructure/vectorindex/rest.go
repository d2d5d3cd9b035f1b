package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"destek-backend/application/ports"

	"go.uber.org/zap"
)

// RESTIndex is a client for a managed vector index exposing an
// Upstash-style JSON API with upsert, query and delete endpoints.
// The service guarantees descending score order on query responses.
type RESTIndex struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRESTIndex creates a managed vector index client
func NewRESTIndex(baseURL, token string, logger *zap.Logger) *RESTIndex {
	return &RESTIndex{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

type upsertItem struct {
	ID       string            `json:"id"`
	Vector   []float32         `json:"vector"`
	Metadata map[string]string `json:"metadata"`
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResult struct {
	ID       string            `json:"id"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata"`
}

type deleteRequest struct {
	IDs []string `json:"ids"`
}

// Upsert inserts or replaces documents
func (r *RESTIndex) Upsert(ctx context.Context, docs []ports.Document) error {
	items := make([]upsertItem, len(docs))
	for i, doc := range docs {
		items[i] = upsertItem{
			ID:     doc.ID,
			Vector: doc.Vector,
			Metadata: map[string]string{
				"question": doc.Question,
				"answer":   doc.Answer,
				"category": doc.Category,
			},
		}
	}
	return r.post(ctx, "/upsert", items, nil)
}

// Query returns the nearest neighbors of the given vector
func (r *RESTIndex) Query(ctx context.Context, vector []float32, topK int) ([]ports.Match, error) {
	var results []queryResult
	err := r.post(ctx, "/query", queryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
	}, &results)
	if err != nil {
		return nil, err
	}

	matches := make([]ports.Match, len(results))
	for i, res := range results {
		matches[i] = ports.Match{
			ID:       res.ID,
			Score:    clampScore(res.Score),
			Question: res.Metadata["question"],
			Answer:   res.Metadata["answer"],
			Category: res.Metadata["category"],
		}
	}
	return matches, nil
}

// DeleteByIDs removes documents by id
func (r *RESTIndex) DeleteByIDs(ctx context.Context, ids []string) error {
	return r.post(ctx, "/delete", deleteRequest{IDs: ids}, nil)
}

// post sends a JSON request and decodes the response envelope
func (r *RESTIndex) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.token)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vector index %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("vector index %s: unexpected status %d", path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	// responses arrive as {"result": ...}
	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", path, err)
	}
	return nil
}
