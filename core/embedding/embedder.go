// Package embedding turns text into fixed-dimensionality vectors.
package embedding

import (
	"context"
	"fmt"
)

// Embedder generates an embedding vector for a text.
// Implementations are process-wide and must be safe for concurrent use.
type Embedder interface {
	// Embed returns the embedding vector for the given non-empty text
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimension returns the dimensionality of produced vectors, 0 if unknown
	Dimension() int
}

// Error reports a failed embedding call
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("embedding %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}
