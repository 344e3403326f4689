package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the OpenAI-compatible embedder.
// Works with TEI (Hugging Face Text Embeddings Inference), LocalAI and the
// OpenAI cloud API.
type OpenAIConfig struct {
	// BaseURL of the embedding endpoint, e.g. "http://localhost:8082/v1"
	BaseURL string

	// Model is the embedding model name
	Model string

	// APIKey is optional for local services
	APIKey string

	// Dimension is the expected vector dimensionality. 0 disables the check.
	Dimension int

	// Timeout for HTTP requests (default: 30s)
	Timeout time.Duration
}

// OpenAIEmbedder calls an OpenAI-compatible embedding endpoint
type OpenAIEmbedder struct {
	client    *openai.Client
	model     string
	dimension int
}

// NewOpenAIEmbedder creates an embedder for an OpenAI-compatible endpoint
func NewOpenAIEmbedder(config OpenAIConfig) (*OpenAIEmbedder, error) {
	if config.BaseURL == "" {
		return nil, newError("configuration", errors.New("base URL is empty"))
	}
	if config.Model == "" {
		return nil, newError("configuration", errors.New("model is empty"))
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	apiKey := config.APIKey
	if apiKey == "" {
		// Local services don't need a real key
		apiKey = "dummy-key"
	}

	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = config.BaseURL
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIEmbedder{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     config.Model,
		dimension: config.Dimension,
	}, nil
}

// Embed requests an embedding for the given text
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, newError("request validation", errors.New("text is empty"))
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, newError("call service", err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, newError("decode response", errors.New("embedding missing or empty in response"))
	}

	vector := resp.Data[0].Embedding
	if e.dimension > 0 && len(vector) != e.dimension {
		return nil, newError("decode response", fmt.Errorf("embedding has dimension %d, expected %d", len(vector), e.dimension))
	}

	return vector, nil
}

// Dimension returns the configured vector dimensionality
func (e *OpenAIEmbedder) Dimension() int {
	return e.dimension
}
