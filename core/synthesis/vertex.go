package synthesis

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// VertexConfig configures the Vertex AI generation client
type VertexConfig struct {
	Project  string
	Location string
	// Model defaults to gemini-2.5-flash
	Model string
}

// DefaultVertexModel is the generation model used when none is configured
const DefaultVertexModel = "gemini-2.5-flash"

// VertexGenerator generates text through Vertex AI
type VertexGenerator struct {
	client *genai.Client
	model  string
}

// NewVertexGenerator creates a generation client against Vertex AI using the
// execution environment's credentials
func NewVertexGenerator(ctx context.Context, config VertexConfig) (*VertexGenerator, error) {
	if config.Project == "" || config.Location == "" {
		return nil, newError("configuration", errors.New("project and location must be set"))
	}

	model := config.Model
	if model == "" {
		model = DefaultVertexModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  config.Project,
		Location: config.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, newError("create client", err)
	}

	return &VertexGenerator{
		client: client,
		model:  model,
	}, nil
}

// Generate runs one synchronous generation call for the prompt
func (g *VertexGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", newError("generate content", err)
	}

	text := resp.Text()
	if text == "" {
		return "", newError("generate content", errors.New("model returned no text"))
	}

	return text, nil
}
