package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/dataset-explorer/internal/delivery/http/request"
	"github.com/user/dataset-explorer/internal/delivery/http/response"
	"github.com/user/dataset-explorer/internal/repository"
	"github.com/user/dataset-explorer/internal/usecase"
)

// ArtifactRoute is the URL prefix artifacts are served under.
const ArtifactRoute = "/visualizations"

type Handler struct {
	search    usecase.SearchService
	workspace repository.Workspace
	logger    *zap.Logger
}

func NewHandler(search usecase.SearchService, workspace repository.Workspace, logger *zap.Logger) *Handler {
	return &Handler{
		search:    search,
		workspace: workspace,
		logger:    logger,
	}
}

func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req request.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.search.Search(r.Context(), req.Query)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyQuery), errors.Is(err, usecase.ErrInvalidQuery):
			h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, repository.ErrLockHeld):
			h.writeJSONError(w, "Another search is in progress, try again shortly", http.StatusConflict)
		default:
			h.logger.Error("search failed", zap.String("query", req.Query), zap.Error(err))
			h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	resp := response.SearchResponse{
		RunID:             result.RunID.String(),
		DatasetID:         result.DatasetID,
		Artifacts:         make([]response.ArtifactResponse, len(result.Artifacts)),
		Metadata:          result.Metadata,
		SummaryStatistics: result.Summary,
	}
	for i, a := range result.Artifacts {
		resp.Artifacts[i] = response.ArtifactResponse{Artifact: a, URL: ArtifactRoute + "/" + a.FileName}
	}
	if result.NoData() {
		resp.Message = response.NoDataMessage
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleArtifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	if name == "" || name != filepath.Base(name) {
		h.writeJSONError(w, "Visualization not found", http.StatusNotFound)
		return
	}

	path := h.workspace.Path(name)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		h.writeJSONError(w, "Visualization not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, path)
}

func (h *Handler) HandleRuns(w http.ResponseWriter, r *http.Request) {
	dataset := r.URL.Query().Get("dataset")
	if dataset == "" {
		h.writeJSONError(w, "dataset query parameter is required", http.StatusBadRequest)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeJSONError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.search.History(r.Context(), dataset, limit)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyQuery), errors.Is(err, usecase.ErrInvalidQuery):
			h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, repository.ErrRunHistoryDisabled):
			h.writeJSONError(w, err.Error(), http.StatusNotFound)
		default:
			h.logger.Error("failed to load run history", zap.String("dataset", dataset), zap.Error(err))
			h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}
	if len(runs) > 0 {
		dataset = runs[0].DatasetID
	}
	h.writeJSON(w, http.StatusOK, response.RunsResponse{DatasetID: dataset, Runs: runs})
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
