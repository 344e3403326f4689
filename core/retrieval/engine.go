// Package retrieval selects the candidates most relevant to a query vector.
package retrieval

import (
	"context"

	"github.com/siherrmann/graphquery/model"
)

// CandidateReader reads candidate records from the graph store
type CandidateReader interface {
	// SelectAllCandidates returns every entity and community record from one
	// consistent snapshot, embeddings included when present
	SelectAllCandidates(ctx context.Context) ([]*model.Candidate, error)
	// SelectCandidatesBySimilarity computes similarity, ordering and limit in
	// the store itself
	SelectCandidatesBySimilarity(ctx context.Context, embedding []float32, limit int) ([]*model.RankedCandidate, error)
}

// Engine provides candidate retrieval over the graph store
type Engine struct {
	candidates CandidateReader
}

// NewEngine creates a new retrieval engine
func NewEngine(candidates CandidateReader) *Engine {
	return &Engine{
		candidates: candidates,
	}
}

// Retrieve returns the top candidates for the query embedding using the
// strategy selected by the config
func (e *Engine) Retrieve(ctx context.Context, embedding []float32, config model.QueryConfig) ([]*model.RankedCandidate, error) {
	var strategy Strategy
	switch config.RetrievalMode {
	case model.RetrievalInStore:
		strategy = NewInStoreStrategy(e)
	default:
		strategy = NewFullScanStrategy(e)
	}

	return strategy.Retrieve(ctx, embedding, config)
}
