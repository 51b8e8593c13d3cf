package entity

// Wire types for the generation engine endpoints.

type EngineAnalyzeRequest struct {
	Query string `json:"query"`
}

type EngineAnalyzeResponse struct {
	Requirements Requirements `json:"requirements"`
	Message      string       `json:"message,omitempty"`
}

type EngineGenerateRequest struct {
	Query        string            `json:"query"`
	Requirements Requirements      `json:"requirements"`
	Variables    map[string]string `json:"variables"`
}

type EngineGenerateResponse struct {
	GenerationResult
	Message string `json:"message,omitempty"`
}

type EngineExtractRequest struct {
	GitHubToken  string           `json:"github_token"`
	Repositories []RepoDescriptor `json:"repositories"`
}

type EngineExtractResponse struct {
	Files                 []ExtractedFile `json:"files"`
	TotalFiles            int             `json:"total_files"`
	RepositoriesProcessed int             `json:"repositories_processed"`
}
