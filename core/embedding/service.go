package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"google.golang.org/api/idtoken"
)

// ServiceConfig configures the embedder backed by the dedicated embedding service.
type ServiceConfig struct {
	// URL is the embedding service endpoint. Also used as the audience for
	// the identity token.
	URL string

	// Dimension is the expected vector dimensionality. 0 disables the check.
	Dimension int

	// Timeout for HTTP requests (default: 30s)
	Timeout time.Duration

	// HTTPClient overrides the authenticated client, used in tests. When nil
	// a client carrying identity tokens for URL is built from the execution
	// environment's credentials.
	HTTPClient *http.Client
}

// ServiceEmbedder calls the dedicated embedding service over authenticated
// HTTPS. Requests carry an identity token scoped to the service URL.
type ServiceEmbedder struct {
	url       string
	dimension int
	client    *http.Client
}

type serviceRequest struct {
	Text           string   `json:"text"`
	EmbeddingTypes []string `json:"embedding_types"`
}

type serviceResponse struct {
	Embedding []float32 `json:"embedding"`
}

// NewServiceEmbedder creates an embedder for the dedicated embedding service
func NewServiceEmbedder(ctx context.Context, config ServiceConfig) (*ServiceEmbedder, error) {
	if config.URL == "" {
		return nil, newError("configuration", errors.New("embedding service URL is empty"))
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	client := config.HTTPClient
	if client == nil {
		var err error
		client, err = idtoken.NewClient(ctx, config.URL)
		if err != nil {
			return nil, newError("identity token client", err)
		}
	}
	client.Timeout = timeout

	return &ServiceEmbedder{
		url:       config.URL,
		dimension: config.Dimension,
		client:    client,
	}, nil
}

// Embed requests an embedding for the given text
func (e *ServiceEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, newError("request validation", errors.New("text is empty"))
	}

	body, err := json.Marshal(serviceRequest{
		Text:           text,
		EmbeddingTypes: []string{"semantic_query"},
	})
	if err != nil {
		return nil, newError("encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, newError("create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, newError("call service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, newError("call service", fmt.Errorf("service returned status %d: %s", resp.StatusCode, payload))
	}

	var parsed serviceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, newError("decode response", err)
	}

	if len(parsed.Embedding) == 0 {
		return nil, newError("decode response", errors.New("embedding missing or empty in response"))
	}
	if e.dimension > 0 && len(parsed.Embedding) != e.dimension {
		return nil, newError("decode response", fmt.Errorf("embedding has dimension %d, expected %d", len(parsed.Embedding), e.dimension))
	}

	return parsed.Embedding, nil
}

// Dimension returns the configured vector dimensionality
func (e *ServiceEmbedder) Dimension() int {
	return e.dimension
}
