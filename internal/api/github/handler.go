package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/iacforge/orchestrator/internal/entity"
	"github.com/iacforge/orchestrator/internal/pkg/logger"
	"github.com/iacforge/orchestrator/internal/pkg/validator"
	pkghttp "github.com/iacforge/orchestrator/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   BrowserUsecase
	seeder    QuerySeeder
	validator *validator.Validator
}

func NewHandler(usecase BrowserUsecase, seeder QuerySeeder, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		seeder:    seeder,
		validator: validator,
	}
}

// Connect handles POST /github/session - open a browsing session
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Connect")

	var req entity.ConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateConnect(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	session, err := h.usecase.Connect(ctx, req.Token)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toSessionDTO(session))
}

// GetSession handles GET /github/session/{id} - session snapshot
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "GetSession")

	session, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toSessionDTO(session))
}

// ListRepositories handles GET /github/session/{id}/repositories - filtered listing
func (h *Handler) ListRepositories(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "ListRepositories")

	search := r.URL.Query().Get("search")
	terraformOnly := r.URL.Query().Get("terraform_only") == "true"

	repos, err := h.usecase.FilteredRepositories(ctx, sessionID, search, terraformOnly)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, entity.RepositoryListResponse{
		Repositories: repos,
		Total:        len(repos),
	})
}

// ToggleSelect handles POST /github/session/{id}/selection/{repo_id} - flip selection
func (h *Handler) ToggleSelect(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "ToggleSelect")

	repoID, err := strconv.ParseInt(chi.URLParam(r, "repo_id"), 10, 64)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid repository id", err)
		return
	}

	session, err := h.usecase.ToggleSelect(ctx, sessionID, repoID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toSessionDTO(session))
}

// Extract handles POST /github/session/{id}/extract - pull terraform from selection
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "Extract")

	var req entity.ExtractRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
			return
		}
	}

	outcome, err := h.usecase.Extract(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	resp := toExtractResponse(outcome)

	if req.PipelineID != "" {
		run, err := h.seeder.SeedQuery(ctx, req.PipelineID, outcome.Summary)
		if err != nil {
			// Extraction already succeeded; report it without the seed.
			ctxzap.Warn(ctx, "failed to seed pipeline from extraction",
				zap.String("pipeline_id", req.PipelineID), zap.Error(err))
		} else {
			resp.SeededPipelineID = run.ID
		}
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) sessionContext(r *http.Request, action string) (context.Context, string) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("browser_id", sessionID),
		zap.String("action", action),
	)
	return ctx, sessionID
}

// Helper methods
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	h.respondJSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	var httpErr *pkghttp.HTTPError
	var netErr *pkghttp.NetworkError

	switch {
	case errors.Is(err, entity.ErrBrowserNotFound) || errors.Is(err, entity.ErrRepositoryNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, entity.ErrMissingToken) || errors.Is(err, entity.ErrEmptySelection):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case errors.Is(err, entity.ErrInvalidBrowserStatus):
		h.respondError(ctx, w, http.StatusConflict, "invalid session state", err)
	case errors.As(err, &httpErr):
		if httpErr.StatusCode == http.StatusUnauthorized {
			h.respondError(ctx, w, http.StatusUnauthorized, "github authentication failed", err)
			return
		}
		h.respondError(ctx, w, http.StatusBadGateway, "upstream service failed", err)
	case errors.As(err, &netErr):
		h.respondError(ctx, w, http.StatusBadGateway, "upstream service failed", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
