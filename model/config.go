package model

// PartialFailurePolicy decides what happens when a single partial-answer
// generation fails
type PartialFailurePolicy string

const (
	// FailFast aborts the whole request on the first failed partial
	FailFast PartialFailurePolicy = "fail_fast"
	// SkipFailed drops failed partials and continues with the rest
	SkipFailed PartialFailurePolicy = "skip_failed"
)

// RetrievalMode selects where similarity ranking happens
type RetrievalMode string

const (
	// RetrievalFullScan reads all candidates in one snapshot and ranks in process
	RetrievalFullScan RetrievalMode = "full_scan"
	// RetrievalInStore pushes distance computation and ordering into the store
	RetrievalInStore RetrievalMode = "in_store"
)

// QueryConfig represents configuration for answering a query
type QueryConfig struct {
	// TopK is the number of ranked candidates used for answer synthesis
	TopK int `json:"top_k"`
	// MaxConcurrentPartials bounds the parallel partial-answer generation calls
	MaxConcurrentPartials int `json:"max_concurrent_partials"`
	// PartialFailurePolicy decides whether one failed partial aborts the request
	PartialFailurePolicy PartialFailurePolicy `json:"partial_failure_policy"`
	// RetrievalMode selects in-process or in-store similarity search
	RetrievalMode RetrievalMode `json:"retrieval_mode"`
}

// DefaultQueryConfig returns a sensible default configuration
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		TopK:                  5,
		MaxConcurrentPartials: 4,
		PartialFailurePolicy:  FailFast,
		RetrievalMode:         RetrievalFullScan,
	}
}
