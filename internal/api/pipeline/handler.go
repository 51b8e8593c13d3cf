package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/iacforge/orchestrator/internal/entity"
	"github.com/iacforge/orchestrator/internal/pkg/artifact"
	"github.com/iacforge/orchestrator/internal/pkg/logger"
	"github.com/iacforge/orchestrator/internal/pkg/validator"
	"github.com/iacforge/orchestrator/internal/usecase/workflow"
	pkghttp "github.com/iacforge/orchestrator/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   WorkflowUsecase
	validator *validator.Validator
	formats   *artifact.Factory
}

func NewHandler(usecase WorkflowUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
		formats:   artifact.NewFactory(),
	}
}

// CreateRun handles POST /pipeline - create a new run
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateRun")

	run, err := h.usecase.CreateRun(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toRunDTO(run))
}

// GetRun handles GET /pipeline/{id} - current run snapshot
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	ctx, runID := h.runContext(r, "GetRun")

	run, err := h.usecase.GetRun(ctx, runID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toRunDTO(run))
}

// SubmitQuery handles POST /pipeline/{id}/query - submit a query
func (h *Handler) SubmitQuery(w http.ResponseWriter, r *http.Request) {
	ctx, runID := h.runContext(r, "SubmitQuery")

	var req entity.SubmitQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateSubmitQuery(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	ctxzap.Info(ctx, "submitting query", zap.Int("query_length", len(req.Query)))

	run, err := h.usecase.SubmitQuery(ctx, runID, req.Query)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toRunDTO(run))
}

// EditVariable handles PUT /pipeline/{id}/variables/{name} - edit one variable
func (h *Handler) EditVariable(w http.ResponseWriter, r *http.Request) {
	ctx, runID := h.runContext(r, "EditVariable")
	name := chi.URLParam(r, "name")

	var req entity.EditVariableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateEditVariable(name); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	run, err := h.usecase.EditVariable(ctx, runID, name, req.Value)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toRunDTO(run))
}

// ConfirmGenerate handles POST /pipeline/{id}/generate - proceed to generation
func (h *Handler) ConfirmGenerate(w http.ResponseWriter, r *http.Request) {
	ctx, runID := h.runContext(r, "ConfirmGenerate")

	ctxzap.Info(ctx, "confirming generation")

	run, err := h.usecase.ConfirmGenerate(ctx, runID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toRunDTO(run))
}

// SeedQuery handles POST /pipeline/{id}/seed - seed the next query
func (h *Handler) SeedQuery(w http.ResponseWriter, r *http.Request) {
	ctx, runID := h.runContext(r, "SeedQuery")

	var req entity.SeedQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateSeedQuery(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	run, err := h.usecase.SeedQuery(ctx, runID, req.Query)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toRunDTO(run))
}

// GetArtifact handles GET /pipeline/{id}/artifact - raw terraform download
func (h *Handler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	ctx, runID := h.runContext(r, "GetArtifact")

	run, err := h.usecase.GetRun(ctx, runID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	code, err := artifact.TerraformCode(run)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", artifact.TerraformFileName(run)))
	w.WriteHeader(http.StatusOK)
	w.Write(code)
}

// GetSidecar handles GET /pipeline/{id}/artifact/sidecar - JSON snapshot
func (h *Handler) GetSidecar(w http.ResponseWriter, r *http.Request) {
	ctx, runID := h.runContext(r, "GetSidecar")

	run, err := h.usecase.GetRun(ctx, runID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	data, err := artifact.BuildSidecar(run, time.Now())
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// GetReport handles GET /pipeline/{id}/report?format= - generation report
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx, runID := h.runContext(r, "GetReport")

	format := r.URL.Query().Get("format")
	if format == "" {
		format = string(entity.FormatMarkdown)
	}

	if err := h.validator.ValidateReportFormat(format); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	run, err := h.usecase.GetRun(ctx, runID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	if run.Result == nil {
		h.handleUsecaseError(ctx, w, entity.ErrNoResult)
		return
	}

	overview := workflow.Summarize(run.Result.ValidationSummary)
	text, err := artifact.BuildReportText(run, overview)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	formatter, err := h.formats.Create(entity.ReportFormat(format))
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "unsupported format", err)
		return
	}

	rendered, err := formatter.Format(text)
	if err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to render report", err)
		return
	}

	w.Header().Set("Content-Type", formatter.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "report_"+run.ID+formatter.FileExtension()))
	w.WriteHeader(http.StatusOK)
	w.Write(rendered)
}

func (h *Handler) runContext(r *http.Request, action string) (context.Context, string) {
	runID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("run_id", runID),
		zap.String("action", action),
	)
	return ctx, runID
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
	case errors.Is(err, entity.ErrRunNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, entity.ErrEmptyQuery) || errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidFormat):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case errors.Is(err, entity.ErrInvalidRunStatus) || errors.Is(err, entity.ErrRunBusy) || errors.Is(err, entity.ErrNoResult):
		h.respondError(ctx, w, http.StatusConflict, "invalid run state", err)
	case errors.As(err, &httpErr) || errors.As(err, &netErr):
		h.respondError(ctx, w, http.StatusBadGateway, "upstream service failed", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
