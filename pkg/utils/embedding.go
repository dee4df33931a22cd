package utils

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strings"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"
)

// EmbeddingDimensions matches the vector(1536) column of place_embeddings.
const EmbeddingDimensions = 1536

type EmbeddingClientInterface interface {
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
}

type OpenAIEmbeddingClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIEmbeddingClient(apiKey, model string) *OpenAIEmbeddingClient {
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	return &OpenAIEmbeddingClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIEmbeddingClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return pgvector.Vector{}, err
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, errors.New("openai: empty embedding response")
	}
	return pgvector.NewVector(resp.Data[0].Embedding), nil
}

// HashEmbeddingClient is a deterministic bag-of-words embedding used when no
// embedding provider is configured. Texts sharing words land close together.
type HashEmbeddingClient struct{}

func NewHashEmbeddingClient() *HashEmbeddingClient { return &HashEmbeddingClient{} }

func (HashEmbeddingClient) GetEmbedding(_ context.Context, text string) (pgvector.Vector, error) {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	vector := make([]float32, EmbeddingDimensions)

	for _, word := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		hash := h.Sum32()
		for i := 0; i < EmbeddingDimensions; i++ {
			vector[i] += float32(math.Sin(float64(hash+uint32(i))) * 0.1)
		}
	}

	var magnitude float64
	for _, v := range vector {
		magnitude += float64(v * v)
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude > 0 {
		for i := range vector {
			vector[i] = float32(float64(vector[i]) / magnitude)
		}
	}

	return pgvector.NewVector(vector), nil
}

func NewEmbeddingClient(provider, apiKey, model string) (EmbeddingClientInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		if apiKey == "" {
			return nil, errors.New("openai embedding provider requires an api key")
		}
		return NewOpenAIEmbeddingClient(apiKey, model), nil
	case "", "hash":
		return NewHashEmbeddingClient(), nil
	default:
		return nil, errors.New("unsupported embedding provider: " + provider)
	}
}
