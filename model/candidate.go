package model

import (
	"time"
)

// CandidateKind distinguishes the two record sets a candidate can come from
type CandidateKind string

const (
	CandidateEntity    CandidateKind = "entity"
	CandidateCommunity CandidateKind = "community"
)

// Candidate is the unified, read-only view over entity and community records
// used for similarity ranking. A nil Embedding means the record carries no
// embedding and is never eligible for ranking.
type Candidate struct {
	ID         string        `json:"id"`
	Kind       CandidateKind `json:"kind"`
	Properties Properties    `json:"properties,omitempty"`
	Embedding  []float32     `json:"embedding,omitempty"`
	CreatedAt  time.Time     `json:"created_at,omitempty"`
}

// HasEmbedding reports whether the candidate is eligible for ranking
func (c *Candidate) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// Summary extracts the text used to ground answer generation.
// Communities carry a generated summary directly; entities designate one of
// their properties. Records without any usable text fall back to the full
// property set as JSON. Returns "" when nothing can be extracted.
func (c *Candidate) Summary() string {
	switch c.Kind {
	case CandidateCommunity:
		if s, ok := c.Properties.StringField("summary"); ok {
			return s
		}
	case CandidateEntity:
		for _, key := range []string{"summary", "name", "description"} {
			if s, ok := c.Properties.StringField(key); ok {
				return s
			}
		}
	}

	if len(c.Properties) == 0 {
		return ""
	}

	b, err := c.Properties.Marshal()
	if err != nil {
		return ""
	}
	return string(b)
}

// RankedCandidate is a candidate scored against the current query vector.
// The ordering is per-request and never persisted.
type RankedCandidate struct {
	Candidate  *Candidate `json:"candidate"`
	Similarity float64    `json:"similarity"`
}

// PartialAnswer is an answer draft generated from a single candidate
type PartialAnswer struct {
	CandidateID string `json:"candidate_id"`
	Text        string `json:"text"`
}

// Entity represents a graph node with a type tag and arbitrary properties
type Entity struct {
	EID        string     `json:"eid"`
	Type       string     `json:"entity_type"`
	Properties Properties `json:"properties,omitempty"`
	Embedding  []float32  `json:"embedding,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Candidate converts the entity into its unified candidate view
func (e *Entity) Candidate() *Candidate {
	props := e.Properties
	if props == nil {
		props = Properties{}
	}
	return &Candidate{
		ID:         e.EID,
		Kind:       CandidateEntity,
		Properties: props,
		Embedding:  e.Embedding,
		CreatedAt:  e.CreatedAt,
	}
}

// Community represents a higher-level graph construct summarizing a cluster
// of entities
type Community struct {
	CID       string    `json:"cid"`
	Summary   string    `json:"summary"`
	Embedding []float32 `json:"embedding,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Candidate converts the community into its unified candidate view with the
// summary exposed as its property set
func (c *Community) Candidate() *Candidate {
	return &Candidate{
		ID:         c.CID,
		Kind:       CandidateCommunity,
		Properties: Properties{"summary": StringValue(c.Summary)},
		Embedding:  c.Embedding,
		CreatedAt:  c.CreatedAt,
	}
}
