package retrieval

import (
	"context"

	"github.com/siherrmann/graphquery/core/ranking"
	"github.com/siherrmann/graphquery/model"
)

// Strategy defines a retrieval strategy.
// Every strategy returns at most TopK candidates ordered by descending
// similarity, never including candidates without an embedding.
type Strategy interface {
	Retrieve(ctx context.Context, embedding []float32, config model.QueryConfig) ([]*model.RankedCandidate, error)
}

// FullScanStrategy reads all candidates in one snapshot and ranks them in
// process
type FullScanStrategy struct {
	engine *Engine
}

// NewFullScanStrategy creates a new full-scan strategy
func NewFullScanStrategy(engine *Engine) *FullScanStrategy {
	return &FullScanStrategy{engine: engine}
}

// Retrieve performs the snapshot read and in-process ranking
func (s *FullScanStrategy) Retrieve(ctx context.Context, embedding []float32, config model.QueryConfig) ([]*model.RankedCandidate, error) {
	candidates, err := s.engine.candidates.SelectAllCandidates(ctx)
	if err != nil {
		return nil, err
	}

	return ranking.Rank(embedding, candidates, config.TopK)
}

// InStoreStrategy pushes distance computation, ordering and limiting into the
// graph store in a single round trip
type InStoreStrategy struct {
	engine *Engine
}

// NewInStoreStrategy creates a new in-store strategy
func NewInStoreStrategy(engine *Engine) *InStoreStrategy {
	return &InStoreStrategy{engine: engine}
}

// Retrieve performs the server-side similarity search
func (s *InStoreStrategy) Retrieve(ctx context.Context, embedding []float32, config model.QueryConfig) ([]*model.RankedCandidate, error) {
	if config.TopK <= 0 {
		return []*model.RankedCandidate{}, nil
	}

	ranked, err := s.engine.candidates.SelectCandidatesBySimilarity(ctx, embedding, config.TopK)
	if err != nil {
		return nil, err
	}

	return ranked, nil
}
