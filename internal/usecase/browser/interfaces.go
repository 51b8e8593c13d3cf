package browser

import (
	"context"

	"github.com/iacforge/orchestrator/internal/entity"
)

type GitHubConnector interface {
	ListRepositories(ctx context.Context, token string) ([]entity.Repository, error)
	ListRootContents(ctx context.Context, token, fullName string) ([]entity.RepoContentEntry, error)
}

type ExtractorConnector interface {
	ExtractGitHub(ctx context.Context, req *entity.EngineExtractRequest) (*entity.EngineExtractResponse, error)
}
