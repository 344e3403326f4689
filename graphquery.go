package graphquery

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/siherrmann/graphquery/core/embedding"
	"github.com/siherrmann/graphquery/core/retrieval"
	"github.com/siherrmann/graphquery/core/synthesis"
	"github.com/siherrmann/graphquery/database"
	"github.com/siherrmann/graphquery/helper"
	"github.com/siherrmann/graphquery/model"
	loadSql "github.com/siherrmann/graphquery/sql"
)

// GraphQuery provides a unified interface to the full query pipeline
type GraphQuery struct {
	DB          *helper.Database
	Entities    *database.EntitiesDBHandler
	Communities *database.CommunitiesDBHandler
	Candidates  *database.CandidatesDBHandler
	Embedder    embedding.Embedder
	Engine      *retrieval.Engine
	Synthesizer *synthesis.Synthesizer
	// Query defaults used by Answer
	config model.QueryConfig
	// Logging
	log *slog.Logger
}

// Dependencies holds the injectable collaborators for New.
// Candidates can be any CandidateReader, which allows running
// the pipeline against in-memory doubles in tests.
type Dependencies struct {
	Embedder   embedding.Embedder
	Candidates retrieval.CandidateReader
	Generator  synthesis.Generator
}

// New creates a GraphQuery from already constructed collaborators.
// A nil logger falls back to a pretty handler on stdout.
func New(deps Dependencies, config model.QueryConfig, logger *slog.Logger) (*GraphQuery, error) {
	if deps.Embedder == nil {
		return nil, helper.NewError("create graph query", fmt.Errorf("embedder is nil"))
	}
	if deps.Candidates == nil {
		return nil, helper.NewError("create graph query", fmt.Errorf("candidate reader is nil"))
	}
	if deps.Generator == nil {
		return nil, helper.NewError("create graph query", fmt.Errorf("generator is nil"))
	}
	if logger == nil {
		logger = defaultLogger()
	}

	return &GraphQuery{
		Embedder:    deps.Embedder,
		Engine:      retrieval.NewEngine(deps.Candidates),
		Synthesizer: synthesis.NewSynthesizer(deps.Generator, logger),
		config:      config,
		log:         logger,
	}, nil
}

// NewGraphQuery creates a GraphQuery backed by a Postgres graph store.
// It initializes the database connection, the pgvector extension and
// all handlers with the given embedding dimension.
func NewGraphQuery(dbConfig *helper.DatabaseConfiguration, embeddingDim int, embedder embedding.Embedder, generator synthesis.Generator, config model.QueryConfig) (*GraphQuery, error) {
	if embedder == nil {
		return nil, helper.NewError("create graph query", fmt.Errorf("embedder is nil"))
	}
	if generator == nil {
		return nil, helper.NewError("create graph query", fmt.Errorf("generator is nil"))
	}

	logger := defaultLogger()

	// Initialize database
	db := helper.NewDatabase("graphquery", dbConfig, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Create all handlers, force=false to not reload if functions already exist
	entities, err := database.NewEntitiesDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create entities handler", err)
	}

	communities, err := database.NewCommunitiesDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create communities handler", err)
	}

	candidates, err := database.NewCandidatesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create candidates handler", err)
	}

	return &GraphQuery{
		DB:          db,
		Entities:    entities,
		Communities: communities,
		Candidates:  candidates,
		Embedder:    embedder,
		Engine:      retrieval.NewEngine(candidates),
		Synthesizer: synthesis.NewSynthesizer(generator, logger),
		config:      config,
		log:         logger,
	}, nil
}

func defaultLogger() *slog.Logger {
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	return slog.New(helper.NewPrettyHandler(os.Stdout, opts))
}

// Close closes the database connection
func (g *GraphQuery) Close() error {
	if g.DB != nil && g.DB.Instance != nil {
		return g.DB.Instance.Close()
	}
	return nil
}

// Answer runs the full pipeline for a natural language query:
// embed the query, retrieve and rank graph candidates, synthesize
// a partial answer per candidate and combine them into a final answer.
func (g *GraphQuery) Answer(ctx context.Context, query string) (string, error) {
	if query == "" {
		return "", helper.NewError("answer query", fmt.Errorf("query is empty"))
	}

	queryID := uuid.New()
	log := g.log.With(slog.String("query_id", queryID.String()))
	log.Info("Answering query", slog.Int("query_length", len(query)))

	queryEmbedding, err := g.Embedder.Embed(ctx, query)
	if err != nil {
		return "", helper.NewError("embed query", err)
	}

	ranked, err := g.Engine.Retrieve(ctx, queryEmbedding, g.config)
	if err != nil {
		return "", helper.NewError("retrieve candidates", err)
	}
	log.Info("Retrieved candidates", slog.Int("num_candidates", len(ranked)))

	partials, err := g.Synthesizer.SynthesizePartials(ctx, query, ranked, g.config)
	if err != nil {
		return "", helper.NewError("synthesize partial answers", err)
	}
	log.Info("Synthesized partial answers", slog.Int("num_partials", len(partials)))

	answer, err := g.Synthesizer.SynthesizeFinal(ctx, query, partials)
	if err != nil {
		return "", helper.NewError("synthesize final answer", err)
	}

	return answer, nil
}
