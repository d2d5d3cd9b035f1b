package vectorindex

import (
	"context"
	"math"
	"sort"
	"sync"

	"destek-backend/application/ports"
)

// MemoryIndex is a linear-scan cosine similarity index, used for local
// development, importer dry runs and tests. Scores are clamped to [0,1].
type MemoryIndex struct {
	mu   sync.RWMutex
	docs map[string]ports.Document
}

// NewMemoryIndex creates an empty in-memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{docs: make(map[string]ports.Document)}
}

// Upsert inserts or replaces documents by id
func (m *MemoryIndex) Upsert(ctx context.Context, docs []ports.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range docs {
		m.docs[doc.ID] = doc
	}
	return nil
}

// Query returns up to topK matches sorted by descending score
func (m *MemoryIndex) Query(ctx context.Context, vector []float32, topK int) ([]ports.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]ports.Match, 0, len(m.docs))
	for _, doc := range m.docs {
		matches = append(matches, ports.Match{
			ID:       doc.ID,
			Score:    clampScore(cosineSimilarity(vector, doc.Vector)),
			Question: doc.Question,
			Answer:   doc.Answer,
			Category: doc.Category,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if topK > 0 && topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

// DeleteByIDs removes documents by id
func (m *MemoryIndex) DeleteByIDs(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.docs, id)
	}
	return nil
}

// Size returns the number of indexed documents
func (m *MemoryIndex) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// cosineSimilarity computes the cosine similarity between two vectors
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
