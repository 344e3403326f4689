package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/siherrmann/graphquery/helper"
	"github.com/siherrmann/graphquery/model"
	loadSql "github.com/siherrmann/graphquery/sql"
)

// CandidatesDBHandlerFunctions defines the interface for the unified candidate reads.
type CandidatesDBHandlerFunctions interface {
	SelectAllCandidates(ctx context.Context) ([]*model.Candidate, error)
	SelectCandidatesBySimilarity(ctx context.Context, embedding []float32, limit int) ([]*model.RankedCandidate, error)
}

// CandidatesDBHandler reads the unified candidate view over entities and
// communities. All reads are point-in-time consistent across both record sets.
type CandidatesDBHandler struct {
	db *helper.Database
}

// NewCandidatesDBHandler creates a new candidates database handler.
// It expects the entities and communities tables to already be initialized
// by their respective handlers.
// If force is true, it will reload the SQL functions even if they already exist.
func NewCandidatesDBHandler(db *helper.Database, force bool) (*CandidatesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	candidatesDbHandler := &CandidatesDBHandler{
		db: db,
	}

	err := loadSql.LoadCandidatesSql(candidatesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load candidates sql", err)
	}

	db.Logger.Info("Initialized CandidatesDBHandler")

	return candidatesDbHandler, nil
}

// SelectAllCandidates returns every entity and community record as a
// candidate, embeddings included when present. Both record sets are read in
// a single read-only REPEATABLE READ transaction so the result is a
// consistent snapshot.
func (h *CandidatesDBHandler) SelectAllCandidates(ctx context.Context) ([]*model.Candidate, error) {
	tx, err := h.db.Instance.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return nil, newQueryError("begin snapshot", err)
	}
	defer tx.Rollback()

	var candidates []*model.Candidate

	entityRows, err := tx.QueryContext(ctx, `SELECT * FROM select_all_entities()`)
	if err != nil {
		return nil, newQueryError("select entities", err)
	}
	defer entityRows.Close()

	for entityRows.Next() {
		entity := &model.Entity{}
		err := entityRows.Scan(
			&entity.EID,
			&entity.Type,
			&entity.Properties,
			pq.Array(&entity.Embedding),
			&entity.CreatedAt,
		)
		if err != nil {
			return nil, newQueryError("scan entity", err)
		}
		candidates = append(candidates, entity.Candidate())
	}
	if err := entityRows.Err(); err != nil {
		return nil, newQueryError("entity rows", err)
	}

	communityRows, err := tx.QueryContext(ctx, `SELECT * FROM select_all_communities()`)
	if err != nil {
		return nil, newQueryError("select communities", err)
	}
	defer communityRows.Close()

	for communityRows.Next() {
		community := &model.Community{}
		err := communityRows.Scan(
			&community.CID,
			&community.Summary,
			pq.Array(&community.Embedding),
			&community.CreatedAt,
		)
		if err != nil {
			return nil, newQueryError("scan community", err)
		}
		candidates = append(candidates, community.Candidate())
	}
	if err := communityRows.Err(); err != nil {
		return nil, newQueryError("community rows", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, newQueryError("commit snapshot", err)
	}

	h.db.Logger.Debug("Selected all candidates", slog.Int("count", len(candidates)))

	return candidates, nil
}

// SelectCandidatesBySimilarity pushes cosine similarity, ordering and limit
// into the store. Records without an embedding never appear in the result.
func (h *CandidatesDBHandler) SelectCandidatesBySimilarity(ctx context.Context, embedding []float32, limit int) ([]*model.RankedCandidate, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_candidates_by_similarity($1, $2)`,
		vectorParam(embedding),
		limit,
	)
	if err != nil {
		return nil, newQueryError("select by similarity", err)
	}
	defer rows.Close()

	var ranked []*model.RankedCandidate
	for rows.Next() {
		candidate := &model.Candidate{}
		var similarity float64
		err := rows.Scan(
			&candidate.ID,
			&candidate.Kind,
			&candidate.Properties,
			pq.Array(&candidate.Embedding),
			&candidate.CreatedAt,
			&similarity,
		)
		if err != nil {
			return nil, newQueryError("scan candidate", err)
		}

		ranked = append(ranked, &model.RankedCandidate{
			Candidate:  candidate,
			Similarity: similarity,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, newQueryError("candidate rows", err)
	}

	return ranked, nil
}
