package llm

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

const (
	defaultOpenAIEmbeddingModel = "text-embedding-3-small"
	defaultGeminiEmbeddingModel = "text-embedding-004"
	defaultMockDimension        = 64
)

// Embedder turns text into a dense vector. It matches the sampler's
// Embedder interface, so every implementation here can back the
// diversity guard directly.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// OpenAIEmbedder implements Embedder with the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client    *openai.Client
	model     string
	dimension int
}

// NewOpenAIEmbedder creates an embedder sharing the OpenAI credentials.
func NewOpenAIEmbedder(cfg OpenAIConfig, ecfg EmbeddingConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	model := ecfg.Model
	if model == "" {
		model = defaultOpenAIEmbeddingModel
	}
	return &OpenAIEmbedder{
		client:    newOpenAIClient(cfg.APIKey, cfg.BaseURL),
		model:     model,
		dimension: ecfg.Dimension,
	}, nil
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(e.model),
		Dimensions: e.dimension,
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("no embedding in OpenAI response")}
	}
	return resp.Data[0].Embedding, nil
}

// GeminiEmbedder implements Embedder with the Gemini EmbedContent API.
type GeminiEmbedder struct {
	client    *genai.Client
	model     string
	dimension int
}

// NewGeminiEmbedder creates an embedder sharing the Gemini credentials.
func NewGeminiEmbedder(ctx context.Context, cfg GeminiConfig, ecfg EmbeddingConfig) (*GeminiEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := newGeminiClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	model := ecfg.Model
	if model == "" {
		model = defaultGeminiEmbeddingModel
	}
	return &GeminiEmbedder{client: client, model: model, dimension: ecfg.Dimension}, nil
}

func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var config *genai.EmbedContentConfig
	if e.dimension > 0 {
		dim := int32(e.dimension)
		config = &genai.EmbedContentConfig{OutputDimensionality: &dim}
	}

	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	res, err := e.client.Models.EmbedContent(ctx, e.model, contents, config)
	if err != nil {
		return nil, mapGeminiError(err)
	}
	if len(res.Embeddings) == 0 || len(res.Embeddings[0].Values) == 0 {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("no embedding in Gemini response")}
	}
	return res.Embeddings[0].Values, nil
}

// MockEmbedder is a deterministic Embedder for tests and offline runs. It
// hashes lowercased words into a fixed number of buckets, so texts sharing
// vocabulary get similar vectors.
type MockEmbedder struct {
	mu        sync.Mutex
	dimension int
	calls     int

	// Err, when set, is returned by every Embed call.
	Err error
}

// NewMockEmbedder creates a MockEmbedder; dimension <= 0 uses 64.
func NewMockEmbedder(dimension int) *MockEmbedder {
	if dimension <= 0 {
		dimension = defaultMockDimension
	}
	return &MockEmbedder{dimension: dimension}
}

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	err := m.Err
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	vec := make([]float32, m.dimension)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(w))
		vec[h.Sum32()%uint32(m.dimension)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec, nil
	}
	inv := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= inv
	}
	return vec, nil
}

// CallCount returns the number of Embed calls made.
func (m *MockEmbedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
