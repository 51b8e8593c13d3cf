package github

import (
	"context"
	"time"

	"github.com/iacforge/orchestrator/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is an in-process stand-in for the GitHub API, used when
// ENABLE_MOCKS is set.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) ListRepositories(ctx context.Context, token string) ([]entity.Repository, error) {
	ctxzap.Info(ctx, "[MOCK] listing repositories")

	desc := "Terraform modules for the data platform"
	now := time.Now()
	repos := []entity.Repository{
		{
			ID:          101,
			Name:        "infra-live",
			FullName:    "mockuser/infra-live",
			Private:     true,
			Description: &desc,
			UpdatedAt:   now.Add(-2 * time.Hour),
			HTMLURL:     "https://github.com/mockuser/infra-live",
		},
		{
			ID:        102,
			Name:      "webapp",
			FullName:  "mockuser/webapp",
			Private:   false,
			UpdatedAt: now.Add(-48 * time.Hour),
			HTMLURL:   "https://github.com/mockuser/webapp",
		},
		{
			ID:        103,
			Name:      "tf-sandbox",
			FullName:  "mockuser/tf-sandbox",
			Private:   false,
			UpdatedAt: now.Add(-240 * time.Hour),
			HTMLURL:   "https://github.com/mockuser/tf-sandbox",
		},
	}

	ctxzap.Info(ctx, "[MOCK] repositories listed", zap.Int("count", len(repos)))
	return repos, nil
}

func (m *MockConnector) ListRootContents(ctx context.Context, token, fullName string) ([]entity.RepoContentEntry, error) {
	ctxzap.Debug(ctx, "[MOCK] listing root contents", zap.String("repository", fullName))

	switch fullName {
	case "mockuser/infra-live":
		return []entity.RepoContentEntry{
			{Name: "main.tf", Type: "file"},
			{Name: "variables.tf", Type: "file"},
			{Name: "README.md", Type: "file"},
		}, nil
	case "mockuser/tf-sandbox":
		return []entity.RepoContentEntry{
			{Name: "sandbox.tfvars", Type: "file"},
			{Name: "modules", Type: "dir"},
		}, nil
	default:
		return []entity.RepoContentEntry{
			{Name: "README.md", Type: "file"},
			{Name: "src", Type: "dir"},
		}, nil
	}
}
