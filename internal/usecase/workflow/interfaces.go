package workflow

import (
	"context"

	"github.com/iacforge/orchestrator/internal/entity"
)

type EngineConnector interface {
	AnalyzeQuery(ctx context.Context, query string) (*entity.Requirements, error)
	Generate(ctx context.Context, req *entity.EngineGenerateRequest) (*entity.GenerationResult, error)
}
