package github

import (
	"github.com/iacforge/orchestrator/internal/entity"
)

func toSessionDTO(session *entity.BrowserSession) entity.BrowserSessionDTO {
	return entity.BrowserSessionDTO{
		ID:           session.ID,
		Status:       session.Status,
		Repositories: session.Repositories,
		Selected:     session.SelectedIDs(),
		CreatedAt:    session.CreatedAt,
		UpdatedAt:    session.UpdatedAt,
	}
}

func toExtractResponse(outcome *entity.ExtractionOutcome) entity.ExtractResponse {
	return entity.ExtractResponse{
		Files:                 outcome.Files,
		TotalFiles:            outcome.TotalFiles,
		RepositoriesProcessed: outcome.RepositoriesProcessed,
		Summary:               outcome.Summary,
	}
}
