package embedding

import (
	"context"
	"hash/fnv"
)

const localDimension = 256

// LocalProvider is a deterministic hash-based embedder for development
// and tests. It carries no semantic signal; identical texts map to
// identical unit vectors.
type LocalProvider struct{}

// NewLocalProvider creates a local embedding provider
func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

// Embed produces a deterministic unit vector for the text
func (p *LocalProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}

	v := make([]float32, localDimension)
	h := fnv.New32a()
	for i, r := range text {
		h.Reset()
		h.Write([]byte{byte(i)})
		h.Write([]byte(string(r)))
		v[h.Sum32()%localDimension] += 1.0
	}
	l2normalize(v)
	return v, nil
}

// Dimension returns the embedding dimension
func (p *LocalProvider) Dimension() int {
	return localDimension
}
