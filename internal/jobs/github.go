package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v66/github"
)

// GitHubHost implements RepoHost against the GitHub REST API.
type GitHubHost struct {
	// baseURL overrides api.github.com for GitHub Enterprise; empty for the
	// public API.
	baseURL string
}

func NewGitHubHost(baseURL string) *GitHubHost {
	return &GitHubHost{baseURL: baseURL}
}

func (h *GitHubHost) client(token string) (*github.Client, error) {
	c := github.NewClient(nil).WithAuthToken(token)
	if h.baseURL != "" {
		u := h.baseURL
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		var err error
		c, err = c.WithEnterpriseURLs(u, u)
		if err != nil {
			return nil, fmt.Errorf("enterprise base url: %w", err)
		}
	}
	return c, nil
}

func (h *GitHubHost) Collaborators(ctx context.Context, token, owner, repo string) ([]string, error) {
	c, err := h.client(token)
	if err != nil {
		return nil, err
	}

	opts := &github.ListCollaboratorsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var logins []string
	for {
		users, resp, err := c.Repositories.ListCollaborators(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list collaborators %s/%s: %w", owner, repo, err)
		}
		for _, u := range users {
			logins = append(logins, u.GetLogin())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return logins, nil
}

func (h *GitHubHost) Repository(ctx context.Context, token, owner, repo string) (RemoteRepo, error) {
	c, err := h.client(token)
	if err != nil {
		return RemoteRepo{}, err
	}
	r, _, err := c.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return RemoteRepo{}, fmt.Errorf("get repository %s/%s: %w", owner, repo, err)
	}
	return RemoteRepo{
		CloneURL:      r.GetCloneURL(),
		DefaultBranch: r.GetDefaultBranch(),
	}, nil
}

func (h *GitHubHost) RateLimit(ctx context.Context, token string) (RateUsage, error) {
	c, err := h.client(token)
	if err != nil {
		return RateUsage{}, err
	}
	limits, _, err := c.RateLimit.Get(ctx)
	if err != nil {
		return RateUsage{}, fmt.Errorf("get rate limit: %w", err)
	}
	core := limits.GetCore()
	return RateUsage{
		Limit:     core.Limit,
		Remaining: core.Remaining,
		Reset:     core.Reset.Time,
	}, nil
}

var _ RepoHost = (*GitHubHost)(nil)
