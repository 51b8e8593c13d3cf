package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/iacforge/orchestrator/internal/entity"
	"github.com/iacforge/orchestrator/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// BrowserUsecase owns repository browsing sessions: listing, terraform
// detection, filtering, selection and extraction. Sessions and the tokens
// they hold live only in an in-memory expiring store. Every method returns
// a snapshot copy - the stored session never escapes the lock.
type BrowserUsecase struct {
	sessions  *cache.Cache
	github    GitHubConnector
	extractor ExtractorConnector
	logger    *zap.Logger

	mu sync.Mutex
}

// NewUsecase creates a new browser use case
func NewUsecase(github GitHubConnector, extractor ExtractorConnector, sessionTTL, cleanupInterval time.Duration, logger *zap.Logger) *BrowserUsecase {
	return &BrowserUsecase{
		sessions:  cache.New(sessionTTL, cleanupInterval),
		github:    github,
		extractor: extractor,
		logger:    logger,
	}
}

// Connect authenticates against GitHub, lists the user's repositories and
// probes each for terraform before the session becomes browsable. An auth
// or listing failure leaves no session behind - the caller stays at the
// token prompt.
func (uc *BrowserUsecase) Connect(ctx context.Context, token string) (*entity.BrowserSession, error) {
	if strings.TrimSpace(token) == "" {
		return nil, entity.ErrMissingToken
	}

	session := &entity.BrowserSession{
		ID:        uuid.New().String(),
		Status:    entity.BrowserStatusListingRepos,
		Token:     token,
		Selected:  make(map[int64]struct{}),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	ctx = logger.AddFields(ctx, zap.String("browser_id", session.ID))

	repos, err := uc.github.ListRepositories(ctx, token)
	if err != nil {
		ctxzap.Error(ctx, "failed to list repositories", zap.Error(err))
		return nil, err
	}

	session.Repositories = uc.detectTerraform(ctx, token, repos)
	session.Status = entity.BrowserStatusBrowsing
	session.UpdatedAt = time.Now()

	uc.sessions.SetDefault(session.ID, session)

	ctxzap.Info(ctx, "browser session ready",
		zap.Int("repository_count", len(session.Repositories)),
	)
	return session.Clone(), nil
}

// GetSession returns the current browsing session snapshot
func (uc *BrowserUsecase) GetSession(ctx context.Context, sessionID string) (*entity.BrowserSession, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	session, err := uc.getSessionLocked(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Clone(), nil
}

// ToggleSelect flips a repository's membership in the selection. Applying
// it twice restores the original selection.
func (uc *BrowserUsecase) ToggleSelect(ctx context.Context, sessionID string, repoID int64) (*entity.BrowserSession, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	session, err := uc.getSessionLocked(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status != entity.BrowserStatusBrowsing {
		return nil, fmt.Errorf("%w: cannot change selection while %s", entity.ErrInvalidBrowserStatus, session.Status)
	}

	if !uc.hasRepository(session, repoID) {
		return nil, entity.ErrRepositoryNotFound
	}

	if _, selected := session.Selected[repoID]; selected {
		delete(session.Selected, repoID)
	} else {
		session.Selected[repoID] = struct{}{}
	}
	session.UpdatedAt = time.Now()

	ctxzap.Info(ctx, "selection toggled",
		zap.String("browser_id", session.ID),
		zap.Int64("repo_id", repoID),
		zap.Int("selected_count", len(session.Selected)),
	)
	return session.Clone(), nil
}

// FilteredRepositories applies the search and terraform filters to the
// session's repository list.
func (uc *BrowserUsecase) FilteredRepositories(ctx context.Context, sessionID, searchTerm string, terraformOnly bool) ([]entity.Repository, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	session, err := uc.getSessionLocked(sessionID)
	if err != nil {
		return nil, err
	}

	return Filter(session.Repositories, searchTerm, terraformOnly), nil
}

// Extract sends the selected repositories to the extraction endpoint. On
// success the session is closed and the outcome carries the summary string
// that seeds the next query. On failure the session returns to BROWSING so
// the user can retry without re-entering the token.
func (uc *BrowserUsecase) Extract(ctx context.Context, sessionID string) (*entity.ExtractionOutcome, error) {
	uc.mu.Lock()
	session, err := uc.getSessionLocked(sessionID)
	if err != nil {
		uc.mu.Unlock()
		return nil, err
	}

	if session.Status != entity.BrowserStatusBrowsing {
		uc.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot extract while %s", entity.ErrInvalidBrowserStatus, session.Status)
	}

	if len(session.Selected) == 0 {
		uc.mu.Unlock()
		return nil, entity.ErrEmptySelection
	}

	descriptors := uc.selectedDescriptors(session)
	session.Status = entity.BrowserStatusExtracting
	session.UpdatedAt = time.Now()
	token := session.Token
	uc.mu.Unlock()

	ctx = logger.AddFields(ctx, zap.String("browser_id", sessionID))
	ctxzap.Info(ctx, "extracting selected repositories",
		zap.Int("repository_count", len(descriptors)),
	)

	resp, err := uc.extractor.ExtractGitHub(ctx, &entity.EngineExtractRequest{
		GitHubToken:  token,
		Repositories: descriptors,
	})

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err != nil {
		session.Status = entity.BrowserStatusBrowsing
		session.UpdatedAt = time.Now()
		ctxzap.Error(ctx, "extraction failed, returning to browsing", zap.Error(err))
		return nil, err
	}

	session.Selected = make(map[int64]struct{})
	uc.sessions.Delete(sessionID)

	outcome := &entity.ExtractionOutcome{
		Files:                 resp.Files,
		TotalFiles:            resp.TotalFiles,
		RepositoriesProcessed: resp.RepositoriesProcessed,
		Summary: fmt.Sprintf("Imported %d terraform files from %d repositories",
			resp.TotalFiles, resp.RepositoriesProcessed),
	}

	ctxzap.Info(ctx, "extraction completed",
		zap.Int("total_files", outcome.TotalFiles),
		zap.Int("repositories_processed", outcome.RepositoriesProcessed),
	)
	return outcome, nil
}

// selectedDescriptors builds the minimal repository descriptors for the
// extraction request, in listing order.
func (uc *BrowserUsecase) selectedDescriptors(session *entity.BrowserSession) []entity.RepoDescriptor {
	descriptors := make([]entity.RepoDescriptor, 0, len(session.Selected))
	for _, repo := range session.Repositories {
		if _, selected := session.Selected[repo.ID]; !selected {
			continue
		}
		descriptors = append(descriptors, entity.RepoDescriptor{
			ID:          repo.ID,
			Name:        repo.Name,
			FullName:    repo.FullName,
			HTMLURL:     repo.HTMLURL,
			Private:     repo.Private,
			Description: repo.Description,
		})
	}
	return descriptors
}

func (uc *BrowserUsecase) getSessionLocked(sessionID string) (*entity.BrowserSession, error) {
	raw, ok := uc.sessions.Get(sessionID)
	if !ok {
		return nil, entity.ErrBrowserNotFound
	}
	return raw.(*entity.BrowserSession), nil
}

func (uc *BrowserUsecase) hasRepository(session *entity.BrowserSession, repoID int64) bool {
	for _, repo := range session.Repositories {
		if repo.ID == repoID {
			return true
		}
	}
	return false
}
