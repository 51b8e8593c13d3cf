package entity

import "time"

type ConnectRequest struct {
	Token string `json:"token"`
}

type ExtractRequest struct {
	PipelineID string `json:"pipeline_id,omitempty"`
}

// BrowserSessionDTO is the browsing session snapshot returned to clients.
// The token is never echoed back.
type BrowserSessionDTO struct {
	ID           string        `json:"browser_id"`
	Status       BrowserStatus `json:"status"`
	Repositories []Repository  `json:"repositories"`
	Selected     []int64       `json:"selected"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type RepositoryListResponse struct {
	Repositories []Repository `json:"repositories"`
	Total        int          `json:"total"`
}

type ExtractResponse struct {
	Files                 []ExtractedFile `json:"files"`
	TotalFiles            int             `json:"total_files"`
	RepositoriesProcessed int             `json:"repositories_processed"`
	Summary               string          `json:"summary"`
	SeededPipelineID      string          `json:"seeded_pipeline_id,omitempty"`
}
