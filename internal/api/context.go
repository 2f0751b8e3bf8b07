package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/brandonsmith301/text-to-sql/internal/encoder"
	"github.com/brandonsmith301/text-to-sql/internal/prompt"
	"github.com/brandonsmith301/text-to-sql/internal/retrieval"
	"github.com/brandonsmith301/text-to-sql/internal/schema"
)

const roleContextReader = "context_reader"

type contextRequest struct {
	Question string `json:"question"`
}

func handleGetSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.SchemaSource == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "SCHEMA_NOT_CONFIGURED", "schema source is not configured", false, nil)
		return
	}
	if err := requireRole(r, roleContextReader); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	model, available, err := loadModel(r.Context(), deps)
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "SCHEMA_LOAD_FAILED", "failed to load schema definition", true, map[string]any{"details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"available": available,
		"tables":    model.Tables,
	})
}

func handleContext(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	result, _, ok := runRetrieval(deps, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"context":      result.Context,
		"tables":       result.Pruned.Tables,
		"mean":         result.Mean,
		"threshold":    result.Threshold,
		"items_scored": result.ItemsScored,
	})
}

func handlePrompt(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	result, question, ok := runRetrieval(deps, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"prompt": prompt.Build(question, result.Context),
	})
}

// runRetrieval parses the request, loads the schema, and runs the pruning
// pipeline, writing the error response itself when anything prevents a
// result. A missing schema definition is not an error: retrieval degrades to
// an empty context.
func runRetrieval(deps Dependencies, w http.ResponseWriter, r *http.Request) (retrieval.Result, string, bool) {
	if deps.SchemaSource == nil || deps.Retriever == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "RETRIEVAL_NOT_CONFIGURED", "schema source or retriever is not configured", false, nil)
		return retrieval.Result{}, "", false
	}
	if err := requireRole(r, roleContextReader); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return retrieval.Result{}, "", false
	}

	var req contextRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid request body", false, map[string]any{"details": err.Error()})
		return retrieval.Result{}, "", false
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_REQUIRED", "question is required", false, nil)
		return retrieval.Result{}, "", false
	}

	model, _, err := loadModel(r.Context(), deps)
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "SCHEMA_LOAD_FAILED", "failed to load schema definition", true, map[string]any{"details": err.Error()})
		return retrieval.Result{}, "", false
	}

	result, err := deps.Retriever.Retrieve(r.Context(), req.Question, model)
	if err != nil {
		switch {
		case errors.Is(err, retrieval.ErrEmptyQuestion):
			writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_REQUIRED", "question is required", false, nil)
		case errors.Is(err, encoder.ErrUnavailable):
			writeError(r.Context(), w, http.StatusBadGateway, "ENCODER_UNAVAILABLE", "text encoder is unavailable", true, map[string]any{"details": err.Error()})
		default:
			writeError(r.Context(), w, http.StatusInternalServerError, "RETRIEVAL_FAILED", "retrieval failed", true, map[string]any{"details": err.Error()})
		}
		return retrieval.Result{}, "", false
	}
	return result, req.Question, true
}

func loadModel(ctx context.Context, deps Dependencies) (schema.Model, bool, error) {
	text, err := deps.SchemaSource.Load(ctx)
	if err != nil {
		if errors.Is(err, schema.ErrNotFound) {
			if deps.Logger != nil {
				deps.Logger.InfoContext(ctx, "schema definition not found", slog.String("detail", err.Error()))
			}
			return schema.Model{}, false, nil
		}
		return schema.Model{}, false, err
	}
	return schema.Parse(text), true, nil
}
