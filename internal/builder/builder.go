package builder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/iacforge/orchestrator/internal/api"
	githubapi "github.com/iacforge/orchestrator/internal/api/github"
	pipelineapi "github.com/iacforge/orchestrator/internal/api/pipeline"
	"github.com/iacforge/orchestrator/internal/config"
	"github.com/iacforge/orchestrator/internal/integration/engine"
	"github.com/iacforge/orchestrator/internal/integration/github"
	"github.com/iacforge/orchestrator/internal/pkg/validator"
	"github.com/iacforge/orchestrator/internal/usecase/browser"
	"github.com/iacforge/orchestrator/internal/usecase/workflow"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Initialize external service connectors (with mock support)
	var engineConnector interface {
		workflow.EngineConnector
		browser.ExtractorConnector
	}
	var githubConnector browser.GitHubConnector

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		engineConnector = engine.NewMockConnector(logger)
		githubConnector = github.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		engineConnector = engine.NewConnector(cfg.EngineConnectorCfg, logger)
		githubConnector = github.NewConnector(cfg.GitHubConnectorCfg, logger)
	}

	// Initialize validators
	requestValidator := validator.NewValidator()
	logger.Info("Validators initialized")

	// Initialize use cases
	workflowUC := workflow.NewUsecase(
		engineConnector,
		cfg.RunTTL,
		cfg.CleanupInterval,
		logger,
	)

	browserUC := browser.NewUsecase(
		githubConnector,
		engineConnector,
		cfg.BrowserTTL,
		cfg.CleanupInterval,
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	pipelineHandler := pipelineapi.NewHandler(workflowUC, requestValidator)
	githubHandler := githubapi.NewHandler(browserUC, workflowUC, requestValidator)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(pipelineHandler, githubHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}
