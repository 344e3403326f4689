package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/siherrmann/graphquery"
	"github.com/siherrmann/graphquery/core/embedding"
	"github.com/siherrmann/graphquery/core/synthesis"
	"github.com/siherrmann/graphquery/helper"
	"github.com/siherrmann/graphquery/model"
)

// echoGenerator stands in for a real language model so the example
// runs without cloud credentials. Swap it for
// synthesis.NewVertexGenerator to get real answers.
type echoGenerator struct{}

func (echoGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	lines := strings.Split(strings.TrimSpace(prompt), "\n")
	return fmt.Sprintf("(model answer based on %d prompt lines)", len(lines)), nil
}

var _ synthesis.Generator = echoGenerator{}

func main() {
	// Start a test PostgreSQL container with pgvector
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Name:     "database",
		User:     "user",
		Password: "password",
	}

	// Local ONNX embedder, 384 dimensions
	embedder, err := embedding.NewLocalEmbedder()
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}
	defer embedder.Close()

	gq, err := graphquery.NewGraphQuery(dbConfig, embedder.Dimension(), embedder, echoGenerator{}, model.DefaultQueryConfig())
	if err != nil {
		log.Fatalf("Failed to create graph query: %v", err)
	}
	defer gq.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Populate a small graph: two entities and one community summary
	entities := []*model.Entity{
		{
			EID:  "ent_pgvector",
			Type: "technology",
			Properties: model.Properties{
				"name":        model.StringValue("pgvector"),
				"description": model.StringValue("PostgreSQL extension for vector similarity search."),
			},
		},
		{
			EID:  "ent_graphrag",
			Type: "concept",
			Properties: model.Properties{
				"name":        model.StringValue("GraphRAG"),
				"description": model.StringValue("Retrieval augmented generation over knowledge graph summaries."),
			},
		},
	}
	for _, entity := range entities {
		text := entity.Candidate().Summary()
		entity.Embedding, err = embedder.Embed(ctx, text)
		if err != nil {
			log.Fatalf("Failed to embed entity %s: %v", entity.EID, err)
		}
		if err := gq.Entities.InsertEntity(entity); err != nil {
			log.Fatalf("Failed to insert entity %s: %v", entity.EID, err)
		}
	}

	community := &model.Community{
		CID:     "com_storage",
		Summary: "Community of storage technologies used for semantic retrieval, including PostgreSQL and pgvector.",
	}
	community.Embedding, err = embedder.Embed(ctx, community.Summary)
	if err != nil {
		log.Fatalf("Failed to embed community: %v", err)
	}
	if err := gq.Communities.InsertCommunity(community); err != nil {
		log.Fatalf("Failed to insert community: %v", err)
	}

	// Run the full pipeline
	answer, err := gq.Answer(ctx, "Which extension enables vector search in PostgreSQL?")
	if err != nil {
		log.Fatalf("Failed to answer query: %v", err)
	}

	fmt.Printf("Answer: %s\n", answer)
}
