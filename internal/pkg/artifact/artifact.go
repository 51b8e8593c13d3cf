// Package artifact builds the point-in-time file outputs of a pipeline run:
// the raw terraform code, a JSON sidecar with the run context, and
// human-readable generation reports.
package artifact

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iacforge/orchestrator/internal/entity"
)

// Sidecar is the JSON companion of the terraform artifact. It captures the
// run at the moment of download and is not persisted anywhere else.
type Sidecar struct {
	Query        string                             `json:"query"`
	Requirements *entity.Requirements               `json:"requirements"`
	Variables    map[string]string                  `json:"variables"`
	Validation   map[string]entity.ValidationReport `json:"validation"`
	Timestamp    string                             `json:"timestamp"`
}

// TerraformCode returns the raw terraform artifact for a finished run.
func TerraformCode(run *entity.PipelineRun) ([]byte, error) {
	if run.Result == nil {
		return nil, entity.ErrNoResult
	}
	return []byte(run.Result.TerraformCode), nil
}

// TerraformFileName names the terraform artifact download.
func TerraformFileName(run *entity.PipelineRun) string {
	return fmt.Sprintf("generated_%s.tf", run.ID)
}

// BuildSidecar serializes the run context snapshot with an ISO-8601
// timestamp.
func BuildSidecar(run *entity.PipelineRun, now time.Time) ([]byte, error) {
	if run.Result == nil {
		return nil, entity.ErrNoResult
	}

	sidecar := Sidecar{
		Query:        run.Query,
		Requirements: run.Requirements,
		Variables:    run.Variables,
		Validation:   run.Result.ValidationSummary,
		Timestamp:    now.UTC().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(sidecar, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sidecar: %w", err)
	}
	return data, nil
}
