// Package ranking scores candidates against a query vector.
// All functions are pure and deterministic.
package ranking

import (
	"fmt"
	"math"
	"sort"

	"github.com/siherrmann/graphquery/model"
)

// DimensionError reports vectors of differing dimensionality.
// Comparing such vectors is fatal, never truncated or padded.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: want %d, got %d", e.Want, e.Got)
}

// CosineSimilarity computes the normalized dot product of two vectors.
// A zero-magnitude vector yields similarity 0 instead of NaN.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, &DimensionError{Want: len(a), Got: len(b)}
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Rank scores all candidates carrying an embedding against the query vector
// and returns the top k by descending similarity. Candidates without an
// embedding are discarded. Ties keep the original candidate order (stable
// sort). If fewer than k candidates survive the filter, all of them are
// returned.
func Rank(queryVector []float32, candidates []*model.Candidate, k int) ([]*model.RankedCandidate, error) {
	if k <= 0 {
		return []*model.RankedCandidate{}, nil
	}

	ranked := make([]*model.RankedCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if !candidate.HasEmbedding() {
			continue
		}

		similarity, err := CosineSimilarity(queryVector, candidate.Embedding)
		if err != nil {
			return nil, err
		}

		ranked = append(ranked, &model.RankedCandidate{
			Candidate:  candidate,
			Similarity: similarity,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}

	return ranked, nil
}
