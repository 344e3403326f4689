package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/siherrmann/graphquery/helper"
)

const (
	localModelName = "sentence-transformers/all-MiniLM-L6-v2"
	localDimension = 384
)

// LocalEmbedder generates embeddings in process using a sentence transformer
// model. Useful for development and tests where no embedding service is
// available. Produces 384-dimensional vectors (all-MiniLM-L6-v2).
type LocalEmbedder struct {
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
}

// NewLocalEmbedder downloads the model if needed and initializes the
// in-process embedding pipeline
func NewLocalEmbedder() (*LocalEmbedder, error) {
	modelPath, err := helper.PrepareModel(localModelName, "onnx/model.onnx")
	if err != nil {
		return nil, newError("prepare model", err)
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, newError("create session", fmt.Errorf("failed to create hugot session: %w", err))
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "embedder-pipeline",
	}
	sentencePipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, newError("create pipeline", fmt.Errorf("failed to create sentence pipeline: %w (cleanup error: %v)", err, destroyErr))
		}
		return nil, newError("create pipeline", fmt.Errorf("failed to create sentence pipeline: %w", err))
	}

	return &LocalEmbedder{
		session:  session,
		pipeline: sentencePipeline,
	}, nil
}

// Embed generates an embedding for the text in process
func (e *LocalEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, newError("request validation", errors.New("text is empty"))
	}

	result, err := e.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, newError("run pipeline", err)
	}

	if len(result.Embeddings) == 0 {
		return nil, newError("run pipeline", errors.New("no embedding generated"))
	}

	return result.Embeddings[0], nil
}

// Dimension returns the model's vector dimensionality
func (e *LocalEmbedder) Dimension() int {
	return localDimension
}

// Close destroys the underlying model session
func (e *LocalEmbedder) Close() error {
	if e.session != nil {
		return e.session.Destroy()
	}
	return nil
}
