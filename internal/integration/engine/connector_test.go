package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iacforge/orchestrator/internal/config"
	"github.com/iacforge/orchestrator/internal/entity"
	pkghttp "github.com/iacforge/orchestrator/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(url string) config.EngineConnectorConfig {
	return config.EngineConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			Url:                   url,
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           5 * time.Second,
			KeepAlive:             30 * time.Second,
			IdleConnTimeout:       30 * time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
		},
		AnalyzeEndpoint:  "/api/analyze-query",
		GenerateEndpoint: "/api/generate",
		ExtractEndpoint:  "/api/extract-github",
	}
}

func TestAnalyzeQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/analyze-query", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req entity.EngineAnalyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "create an ec2 instance", req.Query)

		json.NewEncoder(w).Encode(entity.EngineAnalyzeResponse{
			Requirements: entity.Requirements{
				ResourceType:       "aws_instance",
				RequiredVariables:  []string{"instance_type"},
				UserProvidedValues: map[string]string{"region": "us-west-2"},
			},
		})
	}))
	defer server.Close()

	connector := NewConnector(testConfig(server.URL), zap.NewNop())

	requirements, err := connector.AnalyzeQuery(context.Background(), "create an ec2 instance")
	require.NoError(t, err)

	assert.Equal(t, "aws_instance", requirements.ResourceType)
	assert.Equal(t, []string{"instance_type"}, requirements.RequiredVariables)
	assert.Equal(t, "us-west-2", requirements.UserProvidedValues["region"])
}

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var req entity.EngineGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "t3.micro", req.Variables["instance_type"])

		json.NewEncoder(w).Encode(entity.EngineGenerateResponse{
			GenerationResult: entity.GenerationResult{
				TerraformCode: `resource "aws_instance" "this" {}`,
				UsedVariables: []string{"instance_type"},
				ValidationSummary: map[string]entity.ValidationReport{
					"validator": {IsValid: true, Score: 0.95},
				},
			},
		})
	}))
	defer server.Close()

	connector := NewConnector(testConfig(server.URL), zap.NewNop())

	result, err := connector.Generate(context.Background(), &entity.EngineGenerateRequest{
		Query:     "create an ec2 instance",
		Variables: map[string]string{"instance_type": "t3.micro"},
	})
	require.NoError(t, err)

	assert.Contains(t, result.TerraformCode, "aws_instance")
	assert.True(t, result.ValidationSummary["validator"].IsValid)
}

func TestGenerate_EmptyCodeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(entity.EngineGenerateResponse{})
	}))
	defer server.Close()

	connector := NewConnector(testConfig(server.URL), zap.NewNop())

	_, err := connector.Generate(context.Background(), &entity.EngineGenerateRequest{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terraform_code")
}

func TestExtractGitHub(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/extract-github", r.URL.Path)

		var req entity.EngineExtractRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ghp_secret", req.GitHubToken)
		require.Len(t, req.Repositories, 1)

		json.NewEncoder(w).Encode(entity.EngineExtractResponse{
			Files: []entity.ExtractedFile{
				{Path: "main.tf", FileType: "tf", Providers: []string{"aws"}},
			},
			TotalFiles:            1,
			RepositoriesProcessed: 1,
		})
	}))
	defer server.Close()

	connector := NewConnector(testConfig(server.URL), zap.NewNop())

	resp, err := connector.ExtractGitHub(context.Background(), &entity.EngineExtractRequest{
		GitHubToken:  "ghp_secret",
		Repositories: []entity.RepoDescriptor{{ID: 1, FullName: "acme/infra-live"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.TotalFiles)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "main.tf", resp.Files[0].Path)
}

func TestAnalyzeQuery_ServiceDown(t *testing.T) {
	server := httptest.NewServer(nil)
	server.Close()

	connector := NewConnector(testConfig(server.URL), zap.NewNop())

	_, err := connector.AnalyzeQuery(context.Background(), "create a vpc")
	require.Error(t, err)

	var netErr *pkghttp.NetworkError
	assert.ErrorAs(t, err, &netErr)
}
