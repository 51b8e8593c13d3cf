package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iacforge/orchestrator/internal/entity"
	"github.com/iacforge/orchestrator/internal/pkg/validator"
	pkghttp "github.com/iacforge/orchestrator/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBrowser struct {
	session *entity.BrowserSession
	outcome *entity.ExtractionOutcome
	err     error

	lastToken  string
	lastRepoID int64
}

func (f *fakeBrowser) Connect(ctx context.Context, token string) (*entity.BrowserSession, error) {
	f.lastToken = token
	return f.session, f.err
}

func (f *fakeBrowser) GetSession(ctx context.Context, sessionID string) (*entity.BrowserSession, error) {
	return f.session, f.err
}

func (f *fakeBrowser) ToggleSelect(ctx context.Context, sessionID string, repoID int64) (*entity.BrowserSession, error) {
	f.lastRepoID = repoID
	return f.session, f.err
}

func (f *fakeBrowser) FilteredRepositories(ctx context.Context, sessionID, searchTerm string, terraformOnly bool) ([]entity.Repository, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.session.Repositories, nil
}

func (f *fakeBrowser) Extract(ctx context.Context, sessionID string) (*entity.ExtractionOutcome, error) {
	return f.outcome, f.err
}

type fakeSeeder struct {
	run *entity.PipelineRun
	err error

	lastRunID string
	lastQuery string
}

func (f *fakeSeeder) SeedQuery(ctx context.Context, runID, query string) (*entity.PipelineRun, error) {
	f.lastRunID, f.lastQuery = runID, query
	return f.run, f.err
}

func newTestRouter(browser BrowserUsecase, seeder QuerySeeder) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(browser, seeder, validator.NewValidator()))
	return r
}

func browsingSession() *entity.BrowserSession {
	return &entity.BrowserSession{
		ID:     "sess-1",
		Status: entity.BrowserStatusBrowsing,
		Token:  "ghp_secret",
		Repositories: []entity.Repository{
			{ID: 1, FullName: "acme/infra-live"},
		},
		Selected:  map[int64]struct{}{1: {}},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestConnectEndpoint(t *testing.T) {
	browser := &fakeBrowser{session: browsingSession()}
	router := newTestRouter(browser, &fakeSeeder{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/github/session",
		strings.NewReader(`{"token":"ghp_secret"}`)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ghp_secret", browser.lastToken)

	var dto entity.BrowserSessionDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "sess-1", dto.ID)
	assert.Equal(t, []int64{1}, dto.Selected)

	assert.NotContains(t, rec.Body.String(), "ghp_secret", "token must never be echoed back")
}

func TestConnectEndpoint_MissingToken(t *testing.T) {
	router := newTestRouter(&fakeBrowser{}, &fakeSeeder{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/github/session",
		strings.NewReader(`{"token":""}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConnectEndpoint_BadCredentials(t *testing.T) {
	browser := &fakeBrowser{err: &pkghttp.HTTPError{StatusCode: http.StatusUnauthorized, Message: "Bad credentials"}}
	router := newTestRouter(browser, &fakeSeeder{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/github/session",
		strings.NewReader(`{"token":"ghp_bad"}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConnectEndpoint_GitHubDown(t *testing.T) {
	browser := &fakeBrowser{err: &pkghttp.NetworkError{Err: errors.New("connection refused")}}
	router := newTestRouter(browser, &fakeSeeder{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/github/session",
		strings.NewReader(`{"token":"ghp_secret"}`)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestListRepositoriesEndpoint(t *testing.T) {
	router := newTestRouter(&fakeBrowser{session: browsingSession()}, &fakeSeeder{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/github/session/sess-1/repositories?search=infra&terraform_only=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp entity.RepositoryListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
}

func TestToggleSelectEndpoint(t *testing.T) {
	browser := &fakeBrowser{session: browsingSession()}
	router := newTestRouter(browser, &fakeSeeder{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/github/session/sess-1/selection/1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), browser.lastRepoID)
}

func TestToggleSelectEndpoint_BadRepoID(t *testing.T) {
	router := newTestRouter(&fakeBrowser{session: browsingSession()}, &fakeSeeder{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/github/session/sess-1/selection/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleSelectEndpoint_UnknownRepository(t *testing.T) {
	router := newTestRouter(&fakeBrowser{err: entity.ErrRepositoryNotFound}, &fakeSeeder{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/github/session/sess-1/selection/99", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExtractEndpoint(t *testing.T) {
	browser := &fakeBrowser{
		outcome: &entity.ExtractionOutcome{
			Files:                 []entity.ExtractedFile{{Path: "main.tf"}},
			TotalFiles:            1,
			RepositoriesProcessed: 1,
			Summary:               "Imported 1 terraform files from 1 repositories",
		},
	}
	router := newTestRouter(browser, &fakeSeeder{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/github/session/sess-1/extract", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp entity.ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalFiles)
	assert.Equal(t, "Imported 1 terraform files from 1 repositories", resp.Summary)
	assert.Empty(t, resp.SeededPipelineID)
}

func TestExtractEndpoint_SeedsPipeline(t *testing.T) {
	browser := &fakeBrowser{
		outcome: &entity.ExtractionOutcome{
			TotalFiles:            3,
			RepositoriesProcessed: 2,
			Summary:               "Imported 3 terraform files from 2 repositories",
		},
	}
	seeder := &fakeSeeder{run: &entity.PipelineRun{ID: "run-7", Status: entity.RunStatusIdle}}
	router := newTestRouter(browser, seeder)

	body := strings.NewReader(`{"pipeline_id":"run-7"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/github/session/sess-1/extract", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "run-7", seeder.lastRunID)
	assert.Equal(t, "Imported 3 terraform files from 2 repositories", seeder.lastQuery)

	var resp entity.ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "run-7", resp.SeededPipelineID)
}

func TestExtractEndpoint_SeedFailureStillReportsOutcome(t *testing.T) {
	browser := &fakeBrowser{
		outcome: &entity.ExtractionOutcome{
			TotalFiles:            1,
			RepositoriesProcessed: 1,
			Summary:               "Imported 1 terraform files from 1 repositories",
		},
	}
	seeder := &fakeSeeder{err: entity.ErrRunNotFound}
	router := newTestRouter(browser, seeder)

	body := strings.NewReader(`{"pipeline_id":"missing"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/github/session/sess-1/extract", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp entity.ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalFiles)
	assert.Empty(t, resp.SeededPipelineID)
}

func TestExtractEndpoint_EmptySelection(t *testing.T) {
	router := newTestRouter(&fakeBrowser{err: entity.ErrEmptySelection}, &fakeSeeder{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/github/session/sess-1/extract", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtractEndpoint_WrongState(t *testing.T) {
	router := newTestRouter(&fakeBrowser{err: entity.ErrInvalidBrowserStatus}, &fakeSeeder{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/github/session/sess-1/extract", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}
