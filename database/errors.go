package database

import "fmt"

// QueryError reports a failed query against the graph store
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("graph query %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func newQueryError(op string, err error) *QueryError {
	return &QueryError{Op: op, Err: err}
}
