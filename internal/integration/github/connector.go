package github

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/iacforge/orchestrator/internal/config"
	"github.com/iacforge/orchestrator/internal/entity"
	"github.com/iacforge/orchestrator/internal/integration/common"
	pkghttp "github.com/iacforge/orchestrator/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type Connector struct {
	config        config.GitHubConnectorConfig
	connector     *pkghttp.Connector
	contentsCache *cache.Cache
	logger        *zap.Logger
}

func NewConnector(
	cfg config.GitHubConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector:     common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		contentsCache: cache.New(cfg.ContentsCacheTTL, 2*cfg.ContentsCacheTTL),
		config:        cfg,
		logger:        logger,
	}
}

// ListRepositories lists the authenticated user's repositories, most
// recently updated first, following pagination until the last page.
func (c *Connector) ListRepositories(ctx context.Context, token string) ([]entity.Repository, error) {
	ctxzap.Info(ctx, "listing repositories via github")

	var all []entity.Repository
	for page := 1; ; page++ {
		endpoint := fmt.Sprintf("/user/repos?per_page=%d&sort=updated&page=%d", c.config.PerPage, page)

		var batch []entity.Repository
		err := c.connector.DoRequest(ctx, http.MethodGet, endpoint, nil, &batch,
			pkghttp.WithBearerToken(token))
		if err != nil {
			return nil, err
		}

		all = append(all, batch...)
		if len(batch) < c.config.PerPage {
			break
		}
	}

	ctxzap.Info(ctx, "repositories listed", zap.Int("count", len(all)))
	return all, nil
}

// ListRootContents lists the entries at the root of a repository. Results
// are cached per token+repository so repeated probes within the TTL do not
// hit the API again.
func (c *Connector) ListRootContents(ctx context.Context, token, fullName string) ([]entity.RepoContentEntry, error) {
	key := contentsCacheKey(token, fullName)
	if cached, ok := c.contentsCache.Get(key); ok {
		return cached.([]entity.RepoContentEntry), nil
	}

	ctxzap.Debug(ctx, "listing repository root contents", zap.String("repository", fullName))

	endpoint := fmt.Sprintf("/repos/%s/contents", fullName)

	var entries []entity.RepoContentEntry
	err := c.connector.DoRequest(ctx, http.MethodGet, endpoint, nil, &entries,
		pkghttp.WithBearerToken(token))
	if err != nil {
		return nil, err
	}

	c.contentsCache.Set(key, entries, cache.DefaultExpiration)
	return entries, nil
}

// contentsCacheKey scopes cached contents to the requesting token so one
// user's private listings are never served to another.
func contentsCacheKey(token, fullName string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8]) + ":" + fullName
}
