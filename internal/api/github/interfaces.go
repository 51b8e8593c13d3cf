package github

import (
	"context"

	"github.com/iacforge/orchestrator/internal/entity"
)

type BrowserUsecase interface {
	Connect(ctx context.Context, token string) (*entity.BrowserSession, error)
	GetSession(ctx context.Context, sessionID string) (*entity.BrowserSession, error)
	ToggleSelect(ctx context.Context, sessionID string, repoID int64) (*entity.BrowserSession, error)
	FilteredRepositories(ctx context.Context, sessionID, searchTerm string, terraformOnly bool) ([]entity.Repository, error)
	Extract(ctx context.Context, sessionID string) (*entity.ExtractionOutcome, error)
}

// QuerySeeder folds an extraction summary back into a pipeline run.
type QuerySeeder interface {
	SeedQuery(ctx context.Context, runID, query string) (*entity.PipelineRun, error)
}
