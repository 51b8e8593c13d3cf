package pipeline

import (
	"context"

	"github.com/iacforge/orchestrator/internal/entity"
)

type WorkflowUsecase interface {
	CreateRun(ctx context.Context) (*entity.PipelineRun, error)
	GetRun(ctx context.Context, runID string) (*entity.PipelineRun, error)
	SubmitQuery(ctx context.Context, runID, query string) (*entity.PipelineRun, error)
	EditVariable(ctx context.Context, runID, name, value string) (*entity.PipelineRun, error)
	ConfirmGenerate(ctx context.Context, runID string) (*entity.PipelineRun, error)
	SeedQuery(ctx context.Context, runID, query string) (*entity.PipelineRun, error)
}
