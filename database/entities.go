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

// EntitiesDBHandlerFunctions defines the interface for Entities database operations.
type EntitiesDBHandlerFunctions interface {
	InsertEntity(entity *model.Entity) error
	SelectEntity(eid string) (*model.Entity, error)
	SelectAllEntities() ([]*model.Entity, error)
	DeleteEntity(eid string) error
}

// EntitiesDBHandler handles entity-related database operations
type EntitiesDBHandler struct {
	db *helper.Database
}

// NewEntitiesDBHandler creates a new entities database handler.
// It initializes the database connection and loads entity-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewEntitiesDBHandler(db *helper.Database, embeddingDim int, force bool) (*EntitiesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	entitiesDbHandler := &EntitiesDBHandler{
		db: db,
	}

	err := loadSql.LoadEntitiesSql(entitiesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load entities sql", err)
	}

	err = entitiesDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized EntitiesDBHandler")

	return entitiesDbHandler, nil
}

// CreateTable creates the 'entities' table in the database.
// If the table already exists, it does not create it again.
func (h *EntitiesDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_entities($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing entities table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table entities")

	return nil
}

// InsertEntity inserts a new entity (or updates if exists)
func (h *EntitiesDBHandler) InsertEntity(entity *model.Entity) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_entity($1, $2, $3, $4)`,
		entity.EID,
		entity.Type,
		entity.Properties,
		vectorParam(entity.Embedding),
	)

	err := row.Scan(
		&entity.EID,
		&entity.Type,
		&entity.Properties,
		pq.Array(&entity.Embedding),
		&entity.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectEntity retrieves an entity by its external id
func (h *EntitiesDBHandler) SelectEntity(eid string) (*model.Entity, error) {
	entity := &model.Entity{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_entity($1)`,
		eid,
	)

	err := row.Scan(
		&entity.EID,
		&entity.Type,
		&entity.Properties,
		pq.Array(&entity.Embedding),
		&entity.CreatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return entity, nil
}

// SelectAllEntities retrieves all entities
func (h *EntitiesDBHandler) SelectAllEntities() ([]*model.Entity, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_entities()`,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var entities []*model.Entity
	for rows.Next() {
		entity := &model.Entity{}
		err := rows.Scan(
			&entity.EID,
			&entity.Type,
			&entity.Properties,
			pq.Array(&entity.Embedding),
			&entity.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		entities = append(entities, entity)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return entities, nil
}

// DeleteEntity deletes an entity by its external id
func (h *EntitiesDBHandler) DeleteEntity(eid string) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_entity($1)`,
		eid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
