package browser

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iacforge/orchestrator/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGitHub struct {
	mu sync.Mutex

	repos    []entity.Repository
	listErr  error
	contents map[string][]entity.RepoContentEntry
	probeErr map[string]error

	contentsCalls []string
}

func (f *fakeGitHub) ListRepositories(ctx context.Context, token string) ([]entity.Repository, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.repos, nil
}

func (f *fakeGitHub) ListRootContents(ctx context.Context, token, fullName string) ([]entity.RepoContentEntry, error) {
	f.mu.Lock()
	f.contentsCalls = append(f.contentsCalls, fullName)
	f.mu.Unlock()

	if err, ok := f.probeErr[fullName]; ok {
		return nil, err
	}
	return f.contents[fullName], nil
}

type fakeExtractor struct {
	resp *entity.EngineExtractResponse
	err  error

	lastReq *entity.EngineExtractRequest
}

func (f *fakeExtractor) ExtractGitHub(ctx context.Context, req *entity.EngineExtractRequest) (*entity.EngineExtractResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func newTestBrowser(github *fakeGitHub, extractor *fakeExtractor) *BrowserUsecase {
	return NewUsecase(github, extractor, time.Hour, time.Hour, zap.NewNop())
}

func threeRepos() []entity.Repository {
	return []entity.Repository{
		{ID: 1, Name: "infra-live", FullName: "acme/infra-live"},
		{ID: 2, Name: "webapp", FullName: "acme/webapp"},
		{ID: 3, Name: "tf-sandbox", FullName: "acme/tf-sandbox"},
	}
}

func TestConnect(t *testing.T) {
	github := &fakeGitHub{
		repos: threeRepos(),
		contents: map[string][]entity.RepoContentEntry{
			"acme/infra-live": {{Name: "main.tf", Type: "file"}},
			"acme/webapp":     {{Name: "index.html", Type: "file"}},
			"acme/tf-sandbox": {{Name: "terraform.tfvars", Type: "file"}},
		},
	}
	uc := newTestBrowser(github, &fakeExtractor{})

	session, err := uc.Connect(context.Background(), "ghp_token")
	require.NoError(t, err)

	assert.Equal(t, entity.BrowserStatusBrowsing, session.Status)
	require.Len(t, session.Repositories, 3)
	for _, repo := range session.Repositories {
		require.NotNil(t, repo.HasTerraform, "every probe must settle before browsing")
	}
	assert.True(t, *session.Repositories[0].HasTerraform)
	assert.False(t, *session.Repositories[1].HasTerraform)
	assert.True(t, *session.Repositories[2].HasTerraform)
}

func TestConnect_EmptyToken(t *testing.T) {
	uc := newTestBrowser(&fakeGitHub{}, &fakeExtractor{})

	_, err := uc.Connect(context.Background(), "  ")
	assert.ErrorIs(t, err, entity.ErrMissingToken)
}

func TestConnect_ListFailureLeavesNoSession(t *testing.T) {
	github := &fakeGitHub{listErr: errors.New("bad credentials")}
	uc := newTestBrowser(github, &fakeExtractor{})

	_, err := uc.Connect(context.Background(), "ghp_bad")
	require.Error(t, err)

	assert.Equal(t, 0, uc.sessions.ItemCount())
}

func TestConnect_FailedProbeDegradesToFalse(t *testing.T) {
	github := &fakeGitHub{
		repos: threeRepos(),
		contents: map[string][]entity.RepoContentEntry{
			"acme/infra-live": {{Name: "main.tf", Type: "file"}},
			"acme/tf-sandbox": {{Name: "vars.tfvars", Type: "file"}},
		},
		probeErr: map[string]error{
			"acme/webapp": errors.New("403 forbidden"),
		},
	}
	uc := newTestBrowser(github, &fakeExtractor{})

	session, err := uc.Connect(context.Background(), "ghp_token")
	require.NoError(t, err, "one unreadable repository must not break the listing")

	require.Len(t, session.Repositories, 3)
	require.NotNil(t, session.Repositories[1].HasTerraform)
	assert.False(t, *session.Repositories[1].HasTerraform)
}

func TestConnect_DirectoriesDoNotCountAsTerraform(t *testing.T) {
	github := &fakeGitHub{
		repos: []entity.Repository{{ID: 1, FullName: "acme/nested"}},
		contents: map[string][]entity.RepoContentEntry{
			"acme/nested": {
				{Name: "modules.tf", Type: "dir"},
				{Name: "README.md", Type: "file"},
			},
		},
	}
	uc := newTestBrowser(github, &fakeExtractor{})

	session, err := uc.Connect(context.Background(), "ghp_token")
	require.NoError(t, err)

	assert.False(t, *session.Repositories[0].HasTerraform)
}

func TestToggleSelect(t *testing.T) {
	github := &fakeGitHub{repos: threeRepos()}
	uc := newTestBrowser(github, &fakeExtractor{})
	session, err := uc.Connect(context.Background(), "ghp_token")
	require.NoError(t, err)

	got, err := uc.ToggleSelect(context.Background(), session.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, got.SelectedIDs())

	// Toggling twice restores the original selection.
	got, err = uc.ToggleSelect(context.Background(), session.ID, 2)
	require.NoError(t, err)
	assert.Empty(t, got.SelectedIDs())
}

func TestSessionSnapshotsAreIsolated(t *testing.T) {
	github := &fakeGitHub{repos: threeRepos()}
	uc := newTestBrowser(github, &fakeExtractor{})
	session, err := uc.Connect(context.Background(), "ghp_token")
	require.NoError(t, err)

	snapshot, err := uc.GetSession(context.Background(), session.ID)
	require.NoError(t, err)

	// A later toggle must not show up in an already-returned snapshot.
	_, err = uc.ToggleSelect(context.Background(), session.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, snapshot.SelectedIDs())

	// Tampering with a snapshot must not leak into the store.
	snapshot.Selected[99] = struct{}{}
	snapshot.Status = entity.BrowserStatusExtracting

	got, err := uc.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.NotSame(t, snapshot, got)
	assert.Equal(t, entity.BrowserStatusBrowsing, got.Status)
	assert.Equal(t, []int64{1}, got.SelectedIDs())
}

func TestGetSession_SafeDuringToggles(t *testing.T) {
	github := &fakeGitHub{repos: threeRepos()}
	uc := newTestBrowser(github, &fakeExtractor{})
	session, err := uc.Connect(context.Background(), "ghp_token")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			_, err := uc.ToggleSelect(context.Background(), session.ID, 1)
			assert.NoError(t, err)
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
			snapshot, err := uc.GetSession(context.Background(), session.ID)
			require.NoError(t, err)
			_ = snapshot.SelectedIDs()
		}
	}
}

func TestToggleSelect_UnknownRepository(t *testing.T) {
	github := &fakeGitHub{repos: threeRepos()}
	uc := newTestBrowser(github, &fakeExtractor{})
	session, err := uc.Connect(context.Background(), "ghp_token")
	require.NoError(t, err)

	_, err = uc.ToggleSelect(context.Background(), session.ID, 999)
	assert.ErrorIs(t, err, entity.ErrRepositoryNotFound)
}

func TestToggleSelect_UnknownSession(t *testing.T) {
	uc := newTestBrowser(&fakeGitHub{}, &fakeExtractor{})

	_, err := uc.ToggleSelect(context.Background(), "missing", 1)
	assert.ErrorIs(t, err, entity.ErrBrowserNotFound)
}

func TestExtract(t *testing.T) {
	github := &fakeGitHub{repos: threeRepos()}
	extractor := &fakeExtractor{
		resp: &entity.EngineExtractResponse{
			Files: []entity.ExtractedFile{
				{Path: "main.tf", FileType: "tf"},
				{Path: "vars.tfvars", FileType: "tfvars"},
			},
			TotalFiles:            2,
			RepositoriesProcessed: 2,
		},
	}
	uc := newTestBrowser(github, extractor)
	session, err := uc.Connect(context.Background(), "ghp_token")
	require.NoError(t, err)

	_, err = uc.ToggleSelect(context.Background(), session.ID, 1)
	require.NoError(t, err)
	_, err = uc.ToggleSelect(context.Background(), session.ID, 3)
	require.NoError(t, err)

	outcome, err := uc.Extract(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, "Imported 2 terraform files from 2 repositories", outcome.Summary)
	assert.Equal(t, 2, outcome.TotalFiles)

	require.NotNil(t, extractor.lastReq)
	assert.Equal(t, "ghp_token", extractor.lastReq.GitHubToken)
	require.Len(t, extractor.lastReq.Repositories, 2)
	assert.Equal(t, "acme/infra-live", extractor.lastReq.Repositories[0].FullName)
	assert.Equal(t, "acme/tf-sandbox", extractor.lastReq.Repositories[1].FullName)

	// Session is closed after a successful extraction.
	_, err = uc.GetSession(context.Background(), session.ID)
	assert.ErrorIs(t, err, entity.ErrBrowserNotFound)
}

func TestExtract_EmptySelection(t *testing.T) {
	github := &fakeGitHub{repos: threeRepos()}
	uc := newTestBrowser(github, &fakeExtractor{})
	session, err := uc.Connect(context.Background(), "ghp_token")
	require.NoError(t, err)

	_, err = uc.Extract(context.Background(), session.ID)
	assert.ErrorIs(t, err, entity.ErrEmptySelection)
}

func TestExtract_FailureReturnsToBrowsing(t *testing.T) {
	github := &fakeGitHub{repos: threeRepos()}
	extractor := &fakeExtractor{err: errors.New("extraction service down")}
	uc := newTestBrowser(github, extractor)
	session, err := uc.Connect(context.Background(), "ghp_token")
	require.NoError(t, err)

	_, err = uc.ToggleSelect(context.Background(), session.ID, 1)
	require.NoError(t, err)

	_, err = uc.Extract(context.Background(), session.ID)
	require.Error(t, err)

	got, err := uc.GetSession(context.Background(), session.ID)
	require.NoError(t, err, "session survives a failed extraction")
	assert.Equal(t, entity.BrowserStatusBrowsing, got.Status)
	assert.Equal(t, []int64{1}, got.SelectedIDs(), "selection survives a failed extraction")
}

func TestFilteredRepositories(t *testing.T) {
	github := &fakeGitHub{
		repos: threeRepos(),
		contents: map[string][]entity.RepoContentEntry{
			"acme/infra-live": {{Name: "main.tf", Type: "file"}},
		},
	}
	uc := newTestBrowser(github, &fakeExtractor{})
	session, err := uc.Connect(context.Background(), "ghp_token")
	require.NoError(t, err)

	filtered, err := uc.FilteredRepositories(context.Background(), session.ID, "infra", true)
	require.NoError(t, err)

	require.Len(t, filtered, 1)
	assert.Equal(t, "acme/infra-live", filtered[0].FullName)
}
