package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/iacforge/orchestrator/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// WorkflowUsecase owns the pipeline run state machine. Runs live only in an
// in-memory expiring store; nothing survives a process restart. Every method
// returns a snapshot copy - the stored run never escapes the lock.
type WorkflowUsecase struct {
	runs   *cache.Cache
	engine EngineConnector
	logger *zap.Logger

	// mu guards run mutation. Remote calls happen outside the lock; the
	// in-flight statuses gate concurrent submits instead.
	mu sync.Mutex
}

// NewUsecase creates a new workflow use case
func NewUsecase(engine EngineConnector, runTTL, cleanupInterval time.Duration, logger *zap.Logger) *WorkflowUsecase {
	return &WorkflowUsecase{
		runs:   cache.New(runTTL, cleanupInterval),
		engine: engine,
		logger: logger,
	}
}

// CreateRun creates an empty pipeline run in the IDLE state
func (uc *WorkflowUsecase) CreateRun(ctx context.Context) (*entity.PipelineRun, error) {
	run := &entity.PipelineRun{
		ID:        uuid.New().String(),
		Status:    entity.RunStatusIdle,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	uc.runs.SetDefault(run.ID, run)

	ctxzap.Info(ctx, "pipeline run created", zap.String("run_id", run.ID))
	return run.Clone(), nil
}

// GetRun returns the current run snapshot
func (uc *WorkflowUsecase) GetRun(ctx context.Context, runID string) (*entity.PipelineRun, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	run, err := uc.getRunLocked(runID)
	if err != nil {
		return nil, err
	}
	return run.Clone(), nil
}

// SubmitQuery starts a new pipeline sequence for the run: analyze the query,
// then either stop for user input or generate immediately. Previous
// requirements, variables and results are discarded. Remote failures are
// captured on the run as FAILED, not returned as errors.
func (uc *WorkflowUsecase) SubmitQuery(ctx context.Context, runID, query string) (*entity.PipelineRun, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, entity.ErrEmptyQuery
	}

	uc.mu.Lock()
	run, err := uc.getRunLocked(runID)
	if err != nil {
		uc.mu.Unlock()
		return nil, err
	}

	if run.Status.InFlight() {
		uc.mu.Unlock()
		return nil, entity.ErrRunBusy
	}
	if !run.Status.Restartable() {
		uc.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot submit a query while %s", entity.ErrInvalidRunStatus, run.Status)
	}

	run.Query = trimmed
	run.Requirements = nil
	run.Variables = nil
	run.Result = nil
	run.Error = nil
	uc.setStatusLocked(run, entity.RunStatusAnalyzing)
	uc.mu.Unlock()

	requirements, err := uc.engine.AnalyzeQuery(ctx, trimmed)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err != nil {
		uc.failLocked(ctx, run, err)
		return run.Clone(), nil
	}

	run.Requirements = requirements
	run.Variables = Reconcile(requirements, nil, nil)

	if RequiresInput(requirements) {
		uc.setStatusLocked(run, entity.RunStatusRequiresInput)
		ctxzap.Info(ctx, "run requires user input",
			zap.String("run_id", run.ID),
			zap.Strings("required_variables", requirements.RequiredVariables),
		)
		return run.Clone(), nil
	}

	return uc.generateLocked(ctx, run).Clone(), nil
}

// EditVariable overwrites one variable value. Explicit user edits always win
// over extracted values. Permitted only while the run waits for input.
func (uc *WorkflowUsecase) EditVariable(ctx context.Context, runID, name, value string) (*entity.PipelineRun, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	run, err := uc.getRunLocked(runID)
	if err != nil {
		return nil, err
	}

	if run.Status != entity.RunStatusRequiresInput {
		return nil, fmt.Errorf("%w: cannot edit variables while %s", entity.ErrInvalidRunStatus, run.Status)
	}

	run.Variables = Reconcile(run.Requirements, run.Variables, &Edit{Name: name, Value: value})
	run.UpdatedAt = time.Now()

	ctxzap.Info(ctx, "variable edited",
		zap.String("run_id", run.ID),
		zap.String("name", name),
	)
	return run.Clone(), nil
}

// ConfirmGenerate proceeds from REQUIRES_INPUT to generation. The variables
// are passed through as they stand; whether every required variable has a
// value is the engine's call, not checked here.
func (uc *WorkflowUsecase) ConfirmGenerate(ctx context.Context, runID string) (*entity.PipelineRun, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	run, err := uc.getRunLocked(runID)
	if err != nil {
		return nil, err
	}

	if run.Status != entity.RunStatusRequiresInput {
		return nil, fmt.Errorf("%w: cannot generate while %s", entity.ErrInvalidRunStatus, run.Status)
	}

	return uc.generateLocked(ctx, run).Clone(), nil
}

// SeedQuery stores a query seed on the run (e.g. the extraction summary) so
// the next submission starts from it. Allowed only between pipeline
// sequences.
func (uc *WorkflowUsecase) SeedQuery(ctx context.Context, runID, query string) (*entity.PipelineRun, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, entity.ErrEmptyQuery
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	run, err := uc.getRunLocked(runID)
	if err != nil {
		return nil, err
	}

	if !run.Status.Restartable() {
		return nil, fmt.Errorf("%w: cannot seed a query while %s", entity.ErrInvalidRunStatus, run.Status)
	}

	run.Query = trimmed
	run.UpdatedAt = time.Now()

	ctxzap.Info(ctx, "query seeded", zap.String("run_id", run.ID))
	return run.Clone(), nil
}

// generateLocked drives the generation call. The caller holds the lock; it
// is released for the duration of the remote call and retaken after, with
// the GENERATING status gating concurrent operations. A failed generate
// keeps the last good requirements and variables so the user can retry.
// Returns the live run; callers clone before handing it out.
func (uc *WorkflowUsecase) generateLocked(ctx context.Context, run *entity.PipelineRun) *entity.PipelineRun {
	uc.setStatusLocked(run, entity.RunStatusGenerating)

	req := &entity.EngineGenerateRequest{
		Query:     run.Query,
		Variables: run.Variables,
	}
	if run.Requirements != nil {
		req.Requirements = *run.Requirements
	}

	uc.mu.Unlock()
	result, err := uc.engine.Generate(ctx, req)
	uc.mu.Lock()

	if err != nil {
		uc.failLocked(ctx, run, err)
		return run
	}

	run.Result = result
	run.Error = nil
	uc.setStatusLocked(run, entity.RunStatusReady)

	ctxzap.Info(ctx, "generation completed",
		zap.String("run_id", run.ID),
		zap.Int("used_variables", len(result.UsedVariables)),
		zap.Int("unused_variables", len(result.UnusedVariables)),
	)
	return run
}

func (uc *WorkflowUsecase) getRunLocked(runID string) (*entity.PipelineRun, error) {
	raw, ok := uc.runs.Get(runID)
	if !ok {
		return nil, entity.ErrRunNotFound
	}
	return raw.(*entity.PipelineRun), nil
}

func (uc *WorkflowUsecase) setStatusLocked(run *entity.PipelineRun, status entity.RunStatus) {
	run.Status = status
	run.UpdatedAt = time.Now()
}

// failLocked records a remote failure verbatim as the run's failure reason.
func (uc *WorkflowUsecase) failLocked(ctx context.Context, run *entity.PipelineRun, err error) {
	msg := err.Error()
	run.Error = &msg
	uc.setStatusLocked(run, entity.RunStatusFailed)

	ctxzap.Error(ctx, "pipeline run failed",
		zap.String("run_id", run.ID),
		zap.Error(err),
	)
}
