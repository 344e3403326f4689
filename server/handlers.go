package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/siherrmann/graphquery/core/embedding"
	"github.com/siherrmann/graphquery/core/synthesis"
	"github.com/siherrmann/graphquery/database"
)

const (
	errBadRequest     = "Bad Request: Invalid JSON or missing query"
	errInternalServer = "Internal Server Error"
)

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var request QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.log.Error("Bad request", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: errBadRequest})
		return
	}

	query, ok := request.Query.(string)
	if !ok || query == "" {
		s.log.Error("Bad request", slog.String("error", "missing or non-string query"))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: errBadRequest})
		return
	}

	ctx := r.Context()
	if s.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RequestTimeout)
		defer cancel()
	}

	answer, err := s.answerer.Answer(ctx, query)
	if err != nil {
		s.logPipelineError(err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: errInternalServer})
		return
	}

	writeJSON(w, http.StatusOK, AnswerResponse{Answer: answer})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// logPipelineError logs the failing stage so operators can tell
// embedding, store and generation failures apart. The response body
// stays generic regardless.
func (s *Server) logPipelineError(err error) {
	var embedErr *embedding.Error
	var queryErr *database.QueryError
	var synthErr *synthesis.Error
	switch {
	case errors.As(err, &embedErr):
		s.log.Error("Embedding failed", slog.String("error", err.Error()))
	case errors.As(err, &queryErr):
		s.log.Error("Graph store query failed", slog.String("error", err.Error()))
	case errors.As(err, &synthErr):
		s.log.Error("Answer synthesis failed", slog.String("error", err.Error()))
	default:
		s.log.Error("Query pipeline failed", slog.String("error", err.Error()))
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
