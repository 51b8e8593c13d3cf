package engine

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iacforge/orchestrator/internal/config"
	"github.com/iacforge/orchestrator/internal/entity"
	"github.com/iacforge/orchestrator/internal/integration/common"
	pkghttp "github.com/iacforge/orchestrator/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.EngineConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EngineConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// AnalyzeQuery extracts a structured requirement set from a free-text query
func (c *Connector) AnalyzeQuery(ctx context.Context, query string) (*entity.Requirements, error) {
	ctxzap.Info(ctx, "analyzing query via engine service")

	req := entity.EngineAnalyzeRequest{Query: query}

	var resp entity.EngineAnalyzeResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.AnalyzeEndpoint, &req, &resp)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "query analyzed successfully",
		zap.Int("required_variables", len(resp.Requirements.RequiredVariables)),
		zap.Int("user_provided_values", len(resp.Requirements.UserProvidedValues)),
	)

	return &resp.Requirements, nil
}

// Generate produces terraform code with the multi-agent validation summary
func (c *Connector) Generate(ctx context.Context, req *entity.EngineGenerateRequest) (*entity.GenerationResult, error) {
	ctxzap.Info(ctx, "generating code via engine service",
		zap.Int("variable_count", len(req.Variables)),
	)

	var resp entity.EngineGenerateResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.GenerateEndpoint, req, &resp)
	if err != nil {
		return nil, err
	}

	if resp.TerraformCode == "" {
		return nil, fmt.Errorf("invalid generate response: empty terraform_code field")
	}

	ctxzap.Info(ctx, "code generated successfully",
		zap.Int("code_length", len(resp.TerraformCode)),
		zap.Int("agent_count", len(resp.ValidationSummary)),
	)

	return &resp.GenerationResult, nil
}

// ExtractGitHub requests terraform extraction for the selected repositories
func (c *Connector) ExtractGitHub(ctx context.Context, req *entity.EngineExtractRequest) (*entity.EngineExtractResponse, error) {
	ctxzap.Info(ctx, "extracting terraform via engine service",
		zap.Int("repository_count", len(req.Repositories)),
	)

	var resp entity.EngineExtractResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.ExtractEndpoint, req, &resp)
	if err != nil {
		ctxzap.Error(ctx, "failed to extract terraform", zap.Error(err))
		return nil, err
	}

	ctxzap.Info(ctx, "terraform extracted successfully",
		zap.Int("total_files", resp.TotalFiles),
		zap.Int("repositories_processed", resp.RepositoriesProcessed),
	)

	return &resp, nil
}
