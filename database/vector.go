package database

import (
	"github.com/pgvector/pgvector-go"
)

// vectorParam converts an embedding into the pgvector wire value.
// An empty embedding becomes NULL so embeddingless records stay valid.
func vectorParam(embedding []float32) any {
	if len(embedding) == 0 {
		return nil
	}
	return pgvector.NewVector(embedding)
}
