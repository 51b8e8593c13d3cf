package browser

import (
	"context"
	"strings"
	"sync"

	"github.com/iacforge/orchestrator/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// terraformExtensions are the file suffixes that mark a repository as
// containing infrastructure code.
var terraformExtensions = []string{".tf", ".tfvars", ".hcl"}

// detectTerraform probes every repository's root contents in parallel and
// resolves HasTerraform for each. The batch settles fully before returning.
// A failed probe degrades that repository to false; the error is logged and
// never surfaced - this is deliberate best-effort, one unreadable repository
// must not break the whole listing.
func (uc *BrowserUsecase) detectTerraform(ctx context.Context, token string, repos []entity.Repository) []entity.Repository {
	probed := make([]entity.Repository, len(repos))

	var wg sync.WaitGroup
	for i, repo := range repos {
		wg.Add(1)
		go func(i int, repo entity.Repository) {
			defer wg.Done()

			found, err := uc.probeRepository(ctx, token, repo.FullName)
			if err != nil {
				ctxzap.Warn(ctx, "terraform probe failed, degrading to false",
					zap.String("repository", repo.FullName),
					zap.Error(err),
				)
				found = false
			}

			repo.HasTerraform = &found
			probed[i] = repo
		}(i, repo)
	}
	wg.Wait()

	return probed
}

func (uc *BrowserUsecase) probeRepository(ctx context.Context, token, fullName string) (bool, error) {
	entries, err := uc.github.ListRootContents(ctx, token, fullName)
	if err != nil {
		return false, err
	}

	for _, entry := range entries {
		if entry.Type != "file" {
			continue
		}
		if isTerraformFile(entry.Name) {
			return true, nil
		}
	}
	return false, nil
}

func isTerraformFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range terraformExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
