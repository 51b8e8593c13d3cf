package pipeline

import (
	"github.com/iacforge/orchestrator/internal/entity"
	"github.com/iacforge/orchestrator/internal/usecase/workflow"
)

// toRunDTO converts a PipelineRun to its API snapshot, attaching the
// aggregated validation view when a result exists.
func toRunDTO(run *entity.PipelineRun) *entity.PipelineRunDTO {
	dto := &entity.PipelineRunDTO{
		ID:           run.ID,
		Status:       run.Status,
		Query:        run.Query,
		Requirements: run.Requirements,
		Variables:    run.Variables,
		Result:       run.Result,
		Error:        run.Error,
		CreatedAt:    run.CreatedAt,
		UpdatedAt:    run.UpdatedAt,
	}

	if run.Result != nil {
		dto.Validation = workflow.Summarize(run.Result.ValidationSummary)
	}

	return dto
}
