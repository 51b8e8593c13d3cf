package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// External service configurations
	EngineConnectorCfg EngineConnectorConfig `envPrefix:"ENGINE_"`
	GitHubConnectorCfg GitHubConnectorConfig `envPrefix:"GITHUB_"`

	// In-memory session stores
	RunTTL          time.Duration `env:"RUN_TTL" envDefault:"2h"`
	BrowserTTL      time.Duration `env:"BROWSER_TTL" envDefault:"30m"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Environment (set from flag, not from env var)
	Environment string
}

// EngineConnectorConfig configures the generation engine connector.
type EngineConnectorConfig struct {
	HTTPClientConfig
	AnalyzeEndpoint  string `env:"ANALYZE_ENDPOINT" envDefault:"/api/analyze-query"`
	GenerateEndpoint string `env:"GENERATE_ENDPOINT" envDefault:"/api/generate"`
	ExtractEndpoint  string `env:"EXTRACT_ENDPOINT" envDefault:"/api/extract-github"`
}

// GitHubConnectorConfig configures the GitHub REST connector.
type GitHubConnectorConfig struct {
	HTTPClientConfig
	PerPage          int           `env:"PER_PAGE" envDefault:"100"`
	ContentsCacheTTL time.Duration `env:"CONTENTS_CACHE_TTL" envDefault:"5m"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT,notEmpty"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT,notEmpty"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE,notEmpty"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT,notEmpty"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT,notEmpty"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.GitHubConnectorCfg.PerPage < 1 || cfg.GitHubConnectorCfg.PerPage > 100 {
		return fmt.Errorf("GITHUB_PER_PAGE must be between 1 and 100, got %d", cfg.GitHubConnectorCfg.PerPage)
	}

	if cfg.RunTTL <= 0 {
		return fmt.Errorf("RUN_TTL must be positive, got %s", cfg.RunTTL)
	}

	if cfg.BrowserTTL <= 0 {
		return fmt.Errorf("BROWSER_TTL must be positive, got %s", cfg.BrowserTTL)
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
