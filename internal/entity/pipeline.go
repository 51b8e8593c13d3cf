package entity

import (
	"fmt"
	"time"
)

type RunStatus string

// Run status represents the current state of a generation pipeline run
const (
	RunStatusIdle          RunStatus = "IDLE"           // Run created, waiting for a query
	RunStatusAnalyzing     RunStatus = "ANALYZING"      // Query submitted, extracting requirements
	RunStatusRequiresInput RunStatus = "REQUIRES_INPUT" // Required variables missing, waiting for the user
	RunStatusGenerating    RunStatus = "GENERATING"     // Generation request in flight
	RunStatusReady         RunStatus = "READY"          // Generation finished, result available
	RunStatusFailed        RunStatus = "FAILED"         // Analyze or generate failed
)

func (s RunStatus) Validate() error {
	switch s {
	case RunStatusIdle, RunStatusAnalyzing, RunStatusRequiresInput,
		RunStatusGenerating, RunStatusReady, RunStatusFailed:
		return nil
	default:
		return fmt.Errorf("unknown run status: %s", s)
	}
}

// InFlight reports whether a remote call is currently executing for the run.
// At most one network operation runs at a time; new submits are rejected
// while this holds.
func (s RunStatus) InFlight() bool {
	return s == RunStatusAnalyzing || s == RunStatusGenerating
}

// Restartable reports whether a new query may be submitted from this status.
func (s RunStatus) Restartable() bool {
	return s == RunStatusIdle || s == RunStatusReady || s == RunStatusFailed
}

// Requirements is the structured requirement set extracted from a query.
// RequiredVariables and OptionalConfigs are disjoint ordered name lists;
// UserProvidedValues holds values already inferable from the query text,
// including names outside either list.
type Requirements struct {
	ResourceType       string            `json:"resource_type,omitempty"`
	RequiredVariables  []string          `json:"required_variables"`
	OptionalConfigs    []string          `json:"optional_configs"`
	UserProvidedValues map[string]string `json:"user_provided_values"`
}

// Clone returns a copy that shares nothing mutable with the receiver.
func (r *Requirements) Clone() *Requirements {
	clone := *r
	clone.RequiredVariables = append([]string(nil), r.RequiredVariables...)
	clone.OptionalConfigs = append([]string(nil), r.OptionalConfigs...)
	if r.UserProvidedValues != nil {
		clone.UserProvidedValues = make(map[string]string, len(r.UserProvidedValues))
		for name, value := range r.UserProvidedValues {
			clone.UserProvidedValues[name] = value
		}
	}
	return &clone
}

// ValidationReport is a single agent's verdict on generated code.
// IsValid and Score are independent signals and are both kept.
type ValidationReport struct {
	IsValid     bool    `json:"is_valid"`
	Score       float64 `json:"score"`
	IssuesCount int     `json:"issues_count"`
}

// GenerationResult is the engine's response to a generate call.
// UsedVariables and UnusedVariables are disjoint subsets of Variables;
// a variable the engine did not classify appears in neither.
type GenerationResult struct {
	TerraformCode     string                      `json:"terraform_code"`
	Requirements      Requirements                `json:"requirements"`
	Variables         map[string]string           `json:"variables"`
	UsedVariables     []string                    `json:"used_variables"`
	UnusedVariables   []string                    `json:"unused_variables"`
	ValidationSummary map[string]ValidationReport `json:"validation_summary"`
}

// PipelineRun holds all state for one query→requirements→generate→validate
// sequence. Runs live only in memory and are replaced when a new query is
// submitted.
type PipelineRun struct {
	ID           string            `json:"run_id"`
	Status       RunStatus         `json:"status"`
	Query        string            `json:"query,omitempty"`
	Requirements *Requirements     `json:"requirements,omitempty"`
	Variables    map[string]string `json:"variables,omitempty"`
	Result       *GenerationResult `json:"result,omitempty"`
	Error        *string           `json:"error,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Clone returns a snapshot safe to read outside the store's lock. The
// attached Result is shared, not copied: it is immutable once set.
func (r *PipelineRun) Clone() *PipelineRun {
	clone := *r
	if r.Requirements != nil {
		clone.Requirements = r.Requirements.Clone()
	}
	if r.Variables != nil {
		clone.Variables = make(map[string]string, len(r.Variables))
		for name, value := range r.Variables {
			clone.Variables[name] = value
		}
	}
	if r.Error != nil {
		msg := *r.Error
		clone.Error = &msg
	}
	return &clone
}

type ReportFormat string

const (
	FormatMarkdown ReportFormat = "markdown"
	FormatPDF      ReportFormat = "pdf"
)

func (f ReportFormat) Validate() error {
	switch f {
	case FormatMarkdown, FormatPDF:
		return nil
	default:
		return fmt.Errorf("unsupported report format: %s", f)
	}
}
