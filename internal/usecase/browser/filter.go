package browser

import (
	"strings"

	"github.com/iacforge/orchestrator/internal/entity"
)

// Filter narrows a repository list to entries with confirmed terraform
// (when terraformOnly is set) and to entries whose full name or description
// contains searchTerm case-insensitively. The two filters are independent;
// applying them in either order yields the same set. A repository without a
// description never matches a non-empty search term.
func Filter(repos []entity.Repository, searchTerm string, terraformOnly bool) []entity.Repository {
	term := strings.ToLower(strings.TrimSpace(searchTerm))

	filtered := make([]entity.Repository, 0, len(repos))
	for _, repo := range repos {
		if terraformOnly && !hasConfirmedTerraform(repo) {
			continue
		}
		if term != "" && !matchesTerm(repo, term) {
			continue
		}
		filtered = append(filtered, repo)
	}

	return filtered
}

func hasConfirmedTerraform(repo entity.Repository) bool {
	return repo.HasTerraform != nil && *repo.HasTerraform
}

func matchesTerm(repo entity.Repository, term string) bool {
	if strings.Contains(strings.ToLower(repo.FullName), term) {
		return true
	}
	if repo.Description != nil && strings.Contains(strings.ToLower(*repo.Description), term) {
		return true
	}
	return false
}
