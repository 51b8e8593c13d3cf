package entity

import "time"

type SubmitQueryRequest struct {
	Query string `json:"query"`
}

type EditVariableRequest struct {
	Value string `json:"value"`
}

type SeedQueryRequest struct {
	Query string `json:"query"`
}

// PipelineRunDTO is the run snapshot returned to clients.
type PipelineRunDTO struct {
	ID           string              `json:"run_id"`
	Status       RunStatus           `json:"status"`
	Query        string              `json:"query,omitempty"`
	Requirements *Requirements       `json:"requirements,omitempty"`
	Variables    map[string]string   `json:"variables,omitempty"`
	Result       *GenerationResult   `json:"result,omitempty"`
	Validation   *ValidationOverview `json:"validation,omitempty"`
	Error        *string             `json:"error,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// ValidationOverview is the aggregated per-agent validation view.
type ValidationOverview struct {
	OverallValid bool              `json:"overall_valid"`
	Agents       []AgentReportView `json:"agents"`
}

// AgentReportView is one agent's report with its display label. Agents
// outside the known set keep their raw id and a generic label.
type AgentReportView struct {
	AgentID     string  `json:"agent_id"`
	Label       string  `json:"label"`
	Known       bool    `json:"known"`
	IsValid     bool    `json:"is_valid"`
	Score       float64 `json:"score"`
	IssuesCount int     `json:"issues_count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
