package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
)

// ErrEmptyInput is returned when asked to embed an empty string
var ErrEmptyInput = errors.New("cannot embed empty text")

// OpenAIProvider implements ports.EmbeddingProvider with the OpenAI
// embeddings API. Vectors are L2-normalized so cosine similarity can be
// computed as a dot product.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	dim    int
}

// NewOpenAIProvider creates an OpenAI embedding provider
func NewOpenAIProvider(apiKey, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is not set")
	}
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}

	dim := 1536 // text-embedding-3-small
	if model == string(openai.LargeEmbedding3) {
		dim = 3072
	}

	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
		dim:    dim,
	}, nil
}

// Embed generates an embedding for a single text
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	v := resp.Data[0].Embedding
	l2normalize(v)
	return v, nil
}

// Dimension returns the embedding dimension for the configured model
func (p *OpenAIProvider) Dimension() int {
	return p.dim
}

// l2normalize scales a vector to unit length
func l2normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
