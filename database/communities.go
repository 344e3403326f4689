package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/siherrmann/graphquery/helper"
	"github.com/siherrmann/graphquery/model"
	loadSql "github.com/siherrmann/graphquery/sql"
)

// CommunitiesDBHandlerFunctions defines the interface for Communities database operations.
type CommunitiesDBHandlerFunctions interface {
	InsertCommunity(community *model.Community) error
	SelectCommunity(cid string) (*model.Community, error)
	SelectAllCommunities() ([]*model.Community, error)
	DeleteCommunity(cid string) error
}

// CommunitiesDBHandler handles community-related database operations
type CommunitiesDBHandler struct {
	db *helper.Database
}

// NewCommunitiesDBHandler creates a new communities database handler.
// It initializes the database connection and loads community-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewCommunitiesDBHandler(db *helper.Database, embeddingDim int, force bool) (*CommunitiesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	communitiesDbHandler := &CommunitiesDBHandler{
		db: db,
	}

	err := loadSql.LoadCommunitiesSql(communitiesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load communities sql", err)
	}

	err = communitiesDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized CommunitiesDBHandler")

	return communitiesDbHandler, nil
}

// CreateTable creates the 'communities' table in the database.
// If the table already exists, it does not create it again.
func (h *CommunitiesDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_communities($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing communities table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table communities")

	return nil
}

// InsertCommunity inserts a new community (or updates if exists)
func (h *CommunitiesDBHandler) InsertCommunity(community *model.Community) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_community($1, $2, $3)`,
		community.CID,
		community.Summary,
		vectorParam(community.Embedding),
	)

	err := row.Scan(
		&community.CID,
		&community.Summary,
		pq.Array(&community.Embedding),
		&community.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectCommunity retrieves a community by its external id
func (h *CommunitiesDBHandler) SelectCommunity(cid string) (*model.Community, error) {
	community := &model.Community{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_community($1)`,
		cid,
	)

	err := row.Scan(
		&community.CID,
		&community.Summary,
		pq.Array(&community.Embedding),
		&community.CreatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return community, nil
}

// SelectAllCommunities retrieves all communities
func (h *CommunitiesDBHandler) SelectAllCommunities() ([]*model.Community, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_communities()`,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var communities []*model.Community
	for rows.Next() {
		community := &model.Community{}
		err := rows.Scan(
			&community.CID,
			&community.Summary,
			pq.Array(&community.Embedding),
			&community.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		communities = append(communities, community)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return communities, nil
}

// DeleteCommunity deletes a community by its external id
func (h *CommunitiesDBHandler) DeleteCommunity(cid string) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_community($1)`,
		cid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
