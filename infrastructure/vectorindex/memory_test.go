package vectorindex

import (
	"context"
	"testing"

	"destek-backend/application/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(id string, vector []float32) ports.Document {
	return ports.Document{ID: id, Vector: vector, Question: "soru " + id, Answer: "cevap " + id}
}

func TestMemoryIndex_QueryRanksByCosineSimilarity(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, []ports.Document{
		doc("exact", []float32{1, 0, 0}),
		doc("close", []float32{0.9, 0.1, 0}),
		doc("far", []float32{0, 1, 0}),
	}))

	matches, err := index.Query(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "exact", matches[0].ID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
	assert.Equal(t, "close", matches[1].ID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestMemoryIndex_UpsertReplacesAndDeleteRemoves(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, []ports.Document{doc("a", []float32{1, 0})}))
	require.NoError(t, index.Upsert(ctx, []ports.Document{doc("a", []float32{0, 1})}))
	assert.Equal(t, 1, index.Size())

	matches, err := index.Query(ctx, []float32{0, 1}, 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)

	require.NoError(t, index.DeleteByIDs(ctx, []string{"a"}))
	assert.Equal(t, 0, index.Size())
}

func TestMemoryIndex_NegativeSimilarityClampsToZero(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, []ports.Document{doc("opposite", []float32{-1, 0})}))

	matches, err := index.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 0.0, matches[0].Score)
}
