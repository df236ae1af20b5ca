package stars

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/ghtrending/ghtrending/pkg/trending"
	"github.com/ghtrending/ghtrending/pkg/urlutils"
)

// Enricher turns ranked repositories into feed entries
type Enricher interface {
	Enrich(ctx context.Context, counts []RepoCount) ([]trending.Entry, error)
}

// NewGitHubClient creates a REST client that waits out secondary rate limits.
// An empty token makes anonymous requests.
func NewGitHubClient(token string) (*github.Client, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = rateLimitWaiter
	if token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}

	return github.NewClient(&http.Client{Transport: transport}), nil
}

// GitHubEnricher looks up repository details and contributors on GitHub
type GitHubEnricher struct {
	client       *github.Client
	contributors int
	concurrency  int
}

// NewGitHubEnricher creates an enricher listing up to contributors avatars
// per repository with at most concurrency lookups in flight.
func NewGitHubEnricher(client *github.Client, contributors, concurrency int) *GitHubEnricher {
	return &GitHubEnricher{
		client:       client,
		contributors: contributors,
		concurrency:  max(concurrency, 1),
	}
}

// Enrich looks up every repository and returns entries in ranking order.
// Repositories that fail to resolve are logged and left out.
func (e *GitHubEnricher) Enrich(ctx context.Context, counts []RepoCount) ([]trending.Entry, error) {
	results := make([]*trending.Entry, len(counts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, rc := range counts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, err := e.enrichOne(gctx, rc)
			if err != nil {
				slog.Warn("Skipping repository", "repo", rc.RepoName, "error", err)
				return nil
			}
			results[i] = entry
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := make([]trending.Entry, 0, len(counts))
	for _, entry := range results {
		if entry != nil {
			entries = append(entries, *entry)
		}
	}

	slog.Debug("Enriched repositories", "requested", len(counts), "resolved", len(entries))
	return entries, nil
}

func (e *GitHubEnricher) enrichOne(ctx context.Context, rc RepoCount) (*trending.Entry, error) {
	owner, name := trending.SplitRepoName(rc.RepoName)
	if owner == "" || name == "" {
		return nil, fmt.Errorf("invalid repository name %q", rc.RepoName)
	}

	repo, _, err := e.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}

	entry := &trending.Entry{
		RepoName:        rc.RepoName,
		RepoURL:         repo.GetHTMLURL(),
		Description:     repo.GetDescription(),
		Language:        repo.GetLanguage(),
		Stars:           rc.Stars,
		StargazersCount: repo.StargazersCount,
		ForksCount:      repo.ForksCount,
		OpenIssuesCount: repo.OpenIssuesCount,
		WatchersCount:   repo.WatchersCount,
		Topics:          repo.Topics,
	}
	if entry.RepoURL == "" {
		entry.RepoURL = urlutils.GitHubRepoURL(rc.RepoName)
	}
	if repo.UpdatedAt != nil {
		entry.UpdatedAt = repo.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if license := repo.GetLicense(); license != nil {
		entry.License = &trending.License{
			Key:    license.GetKey(),
			Name:   license.GetName(),
			SPDXID: license.GetSPDXID(),
		}
	}

	if e.contributors > 0 {
		opts := &github.ListContributorsOptions{ListOptions: github.ListOptions{PerPage: e.contributors}}
		contributors, _, err := e.client.Repositories.ListContributors(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list contributors: %w", err)
		}
		for _, c := range contributors {
			if len(entry.Contributors) == e.contributors {
				break
			}
			entry.Contributors = append(entry.Contributors, trending.Contributor{
				Login:     c.GetLogin(),
				AvatarURL: c.GetAvatarURL(),
			})
		}
	}

	return entry, nil
}
