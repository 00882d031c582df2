package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v72/github"
	"github.com/serper/portfolio/internal/config"
	"github.com/serper/portfolio/internal/detect"
	"github.com/serper/portfolio/internal/portfolio"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

// MaxRepositories caps the number of repositories in the portfolio
const MaxRepositories = 12

// Collector handles the GitHub fetching operations
type Collector struct {
	config   *config.Config
	ghClient *github.Client
	logger   *zap.Logger
}

// New creates a new Collector instance
func New(cfg *config.Config, logger *zap.Logger) (*Collector, error) {
	// Anonymous access unless a token is configured
	var httpClient *http.Client
	if cfg.GitHubToken != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.GitHubToken},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	ghClient := github.NewClient(httpClient)

	if cfg.GitHubAPIURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(cfg.GitHubAPIURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", cfg.GitHubAPIURL, err)
		}
		ghClient.BaseURL = baseURL
	}

	return &Collector{
		config:   cfg,
		ghClient: ghClient,
		logger:   logger.With(zap.String("user", cfg.GitHubUser)),
	}, nil
}

// Collect lists the account's repositories, keeps the displayable ones and
// tags each with the technologies found in its README and description.
// Only a failure to list the repositories is returned; README failures are
// logged and leave that repository with an empty README.
func (c *Collector) Collect(ctx context.Context) ([]portfolio.Repository, error) {
	c.logger.Info("starting repository collection")

	opt := &github.RepositoryListByUserOptions{
		Sort:      "updated",
		Direction: "desc",
	}
	repos, _, err := c.ghClient.Repositories.ListByUser(ctx, c.config.GitHubUser, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	selected := Select(repos, c.config.HostingSuffix, MaxRepositories)
	c.logger.Info("found repositories",
		zap.Int("listed", len(repos)),
		zap.Int("selected", len(selected)),
	)

	readmes := c.readmes(ctx, selected)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := make([]portfolio.Repository, 0, len(selected))
	for i, repo := range selected {
		result = append(result, toRepository(repo, readmes[i]))
	}

	c.logger.Info("collected repositories", zap.Int("count", len(result)))
	return result, nil
}

// Select drops forks and repositories whose name contains suffix, then keeps
// at most limit of the rest in their original order.
func Select(repos []*github.Repository, suffix string, limit int) []*github.Repository {
	selected := make([]*github.Repository, 0, min(len(repos), limit))
	for _, repo := range repos {
		if len(selected) >= limit {
			break
		}
		if repo.GetFork() {
			continue
		}
		if suffix != "" && strings.Contains(repo.GetName(), suffix) {
			continue
		}
		selected = append(selected, repo)
	}
	return selected
}

// readmes fetches the README of every repository. The result is indexed like
// repos regardless of the configured concurrency.
func (c *Collector) readmes(ctx context.Context, repos []*github.Repository) []string {
	readmes := make([]string, len(repos))

	var g errgroup.Group
	g.SetLimit(max(c.config.ReadmeConcurrency, 1))

	for i, repo := range repos {
		g.Go(func() error {
			readmes[i] = c.readme(ctx, repo.GetName())
			return nil
		})
	}

	_ = g.Wait()
	return readmes
}

// readme returns the decoded README text of a repository, "" when missing
func (c *Collector) readme(ctx context.Context, name string) string {
	content, _, err := c.ghClient.Repositories.GetReadme(ctx, c.config.GitHubUser, name, nil)
	if err != nil {
		c.logger.Warn("could not get README", zap.String("repo", name), zap.Error(err))
		return ""
	}

	text, err := content.GetContent()
	if err != nil {
		c.logger.Warn("could not decode README", zap.String("repo", name), zap.Error(err))
		return ""
	}
	return text
}

// toRepository converts a GitHub repository to our Repository struct
func toRepository(repo *github.Repository, readme string) portfolio.Repository {
	description := repo.GetDescription()
	technologies := detect.Technologies(readme, description)
	if description == "" {
		description = portfolio.NoDescription
	}

	return portfolio.Repository{
		Name:         repo.GetName(),
		Description:  description,
		Homepage:     repo.GetHomepage(),
		HTMLURL:      repo.GetHTMLURL(),
		Technologies: technologies,
		Stars:        repo.GetStargazersCount(),
		Language:     repo.GetLanguage(),
	}
}
