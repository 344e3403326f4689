// Package server exposes the query pipeline over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/siherrmann/graphquery/helper"
)

// Answerer runs the full query pipeline for a natural language query.
// It is implemented by graphquery.GraphQuery.
type Answerer interface {
	Answer(ctx context.Context, query string) (string, error)
}

// Config holds the HTTP server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// RequestTimeout bounds a single query end to end. Zero means
	// no per-request deadline beyond the write timeout.
	RequestTimeout time.Duration
}

// Server handles HTTP query requests.
type Server struct {
	answerer Answerer
	config   Config
	log      *slog.Logger
}

// New creates a Server. A nil logger falls back to a pretty handler
// on stdout.
func New(answerer Answerer, config Config, logger *slog.Logger) *Server {
	if logger == nil {
		opts := helper.PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{
				Level: slog.LevelInfo,
			},
		}
		logger = slog.New(helper.NewPrettyHandler(os.Stdout, opts))
	}

	return &Server{
		answerer: answerer,
		config:   config,
		log:      logger,
	}
}

// Handler returns the route multiplexer for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /{$}", s.handleQuery)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails. On cancellation it shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()

	s.log.Info("Server listening", slog.String("addr", s.config.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return helper.NewError("shutdown server", err)
		}
		return nil
	case err := <-errs:
		if err != nil && err != http.ErrServerClosed {
			return helper.NewError("run server", err)
		}
		return nil
	}
}
