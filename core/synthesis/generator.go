// Package synthesis produces the per-candidate partial answers and the
// combined final answer via a generation model.
package synthesis

import (
	"context"
	"fmt"
)

// Generator produces text from a fully-formed prompt.
// Implementations are process-wide and must be safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Error reports a failed generation call
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("synthesis %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}
