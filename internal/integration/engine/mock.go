package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/iacforge/orchestrator/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is an in-process stand-in for the engine service, used when
// ENABLE_MOCKS is set.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) AnalyzeQuery(ctx context.Context, query string) (*entity.Requirements, error) {
	ctxzap.Info(ctx, "[MOCK] analyzing query")

	req := &entity.Requirements{
		ResourceType:       "aws_s3_bucket",
		RequiredVariables:  []string{},
		OptionalConfigs:    []string{"versioning", "tags"},
		UserProvidedValues: map[string]string{},
	}

	// Crude extraction so the mock exercises both pipeline branches:
	// a query mentioning a bucket analyzes to zero required variables,
	// anything else requires instance_type.
	lower := strings.ToLower(query)
	if strings.Contains(lower, "bucket") {
		req.UserProvidedValues["bucket_name"] = "data-prod"
		req.UserProvidedValues["region"] = "us-west-2"
		req.UserProvidedValues["acl"] = "private"
	} else {
		req.ResourceType = "aws_instance"
		req.RequiredVariables = []string{"instance_type"}
		req.UserProvidedValues["region"] = "us-east-1"
	}

	ctxzap.Info(ctx, "[MOCK] query analyzed",
		zap.Int("required_variables", len(req.RequiredVariables)),
	)
	return req, nil
}

func (m *MockConnector) Generate(ctx context.Context, req *entity.EngineGenerateRequest) (*entity.GenerationResult, error) {
	ctxzap.Info(ctx, "[MOCK] generating code")

	var b strings.Builder
	b.WriteString("terraform {\n  required_providers {\n    aws = {\n      source = \"hashicorp/aws\"\n    }\n  }\n}\n\n")
	used := make([]string, 0, len(req.Variables))
	for name, value := range req.Variables {
		fmt.Fprintf(&b, "variable %q {\n  default = %q\n}\n\n", name, value)
		used = append(used, name)
	}
	fmt.Fprintf(&b, "resource %q \"this\" {\n  # generated for: %s\n}\n", req.Requirements.ResourceType, req.Query)

	result := &entity.GenerationResult{
		TerraformCode:   b.String(),
		Requirements:    req.Requirements,
		Variables:       req.Variables,
		UsedVariables:   used,
		UnusedVariables: []string{},
		ValidationSummary: map[string]entity.ValidationReport{
			"validator":      {IsValid: true, Score: 0.95, IssuesCount: 0},
			"security":       {IsValid: true, Score: 0.88, IssuesCount: 1},
			"cost_optimizer": {IsValid: true, Score: 0.91, IssuesCount: 2},
		},
	}

	ctxzap.Info(ctx, "[MOCK] code generated", zap.Int("code_length", len(result.TerraformCode)))
	return result, nil
}

func (m *MockConnector) ExtractGitHub(ctx context.Context, req *entity.EngineExtractRequest) (*entity.EngineExtractResponse, error) {
	ctxzap.Info(ctx, "[MOCK] extracting terraform", zap.Int("repository_count", len(req.Repositories)))

	files := make([]entity.ExtractedFile, 0, len(req.Repositories))
	for _, repo := range req.Repositories {
		files = append(files, entity.ExtractedFile{
			Path:      "main.tf",
			Content:   fmt.Sprintf("# extracted from %s\n", repo.FullName),
			FileType:  "main",
			Resources: []string{"aws_s3_bucket.this"},
			Providers: []string{"aws"},
		})
	}

	return &entity.EngineExtractResponse{
		Files:                 files,
		TotalFiles:            len(files),
		RepositoriesProcessed: len(req.Repositories),
	}, nil
}
