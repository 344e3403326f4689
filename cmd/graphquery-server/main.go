package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/siherrmann/graphquery"
	"github.com/siherrmann/graphquery/core/embedding"
	"github.com/siherrmann/graphquery/core/synthesis"
	"github.com/siherrmann/graphquery/helper"
	"github.com/siherrmann/graphquery/model"
	"github.com/siherrmann/graphquery/server"
)

func main() {
	// Missing .env is fine, variables can come from the environment
	godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		log.Fatalf("invalid database configuration: %v", err)
	}

	config := model.DefaultQueryConfig()
	if topK := os.Getenv("TOP_K"); topK != "" {
		k, err := strconv.Atoi(topK)
		if err != nil || k <= 0 {
			log.Fatalf("invalid TOP_K %q", topK)
		}
		config.TopK = k
	}

	embedder, err := newEmbedder(ctx)
	if err != nil {
		log.Fatalf("create embedder: %v", err)
	}

	generator, err := newGenerator(ctx)
	if err != nil {
		log.Fatalf("create generator: %v", err)
	}

	gq, err := graphquery.NewGraphQuery(dbConfig, embedder.Dimension(), embedder, generator, config)
	if err != nil {
		log.Fatalf("create graph query: %v", err)
	}
	defer gq.Close()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := server.New(gq, server.Config{
		Addr:           ":" + port,
		RequestTimeout: 110 * time.Second,
	}, nil)

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// newEmbedder selects the embedding backend via EMBEDDING_PROVIDER:
// "service" (default) calls an external embedding service with an ID
// token, "openai" talks to an OpenAI compatible endpoint and "local"
// runs an ONNX model in process.
func newEmbedder(ctx context.Context) (embedding.Embedder, error) {
	dimension := 0
	if dim := os.Getenv("EMBEDDING_DIM"); dim != "" {
		d, err := strconv.Atoi(dim)
		if err != nil || d <= 0 {
			log.Fatalf("invalid EMBEDDING_DIM %q", dim)
		}
		dimension = d
	}

	switch provider := os.Getenv("EMBEDDING_PROVIDER"); provider {
	case "openai":
		return embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			BaseURL:   os.Getenv("EMBEDDING_OPENAI_BASE_URL"),
			Model:     os.Getenv("EMBEDDING_OPENAI_MODEL"),
			APIKey:    os.Getenv("EMBEDDING_OPENAI_API_KEY"),
			Dimension: dimension,
		})
	case "local":
		return embedding.NewLocalEmbedder()
	case "", "service":
		return embedding.NewServiceEmbedder(ctx, embedding.ServiceConfig{
			URL:       os.Getenv("EMBEDDING_SERVICE_URL"),
			Dimension: dimension,
		})
	default:
		log.Fatalf("unknown EMBEDDING_PROVIDER %q", provider)
		return nil, nil
	}
}

func newGenerator(ctx context.Context) (synthesis.Generator, error) {
	modelName := os.Getenv("GENERATION_MODEL")
	if modelName == "" {
		modelName = synthesis.DefaultVertexModel
	}

	return synthesis.NewVertexGenerator(ctx, synthesis.VertexConfig{
		Project:  os.Getenv("GCP_PROJECT"),
		Location: os.Getenv("LOCATION"),
		Model:    modelName,
	})
}
