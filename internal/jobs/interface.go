package jobs

import (
	"context"
	"time"

	"webhook-gateway/internal/model"
)

// MetricsSink receives gauge samples from recurring jobs.
type MetricsSink interface {
	Gauge(ctx context.Context, name string, value float64, tags map[string]string)
}

// TokenSource hands out valid provider tokens. Satisfied by token.Manager.
type TokenSource interface {
	GetToken(ctx context.Context, account model.Account) (string, bool)
}

// AccountSource lists the accounts whose provider quota should be sampled.
type AccountSource interface {
	ListActive(ctx context.Context) ([]model.Account, error)
}

// Project is the resync view of one connected repository.
type Project struct {
	ID            string
	RepositoryID  string
	Account       model.Account
	RepoOwner     string
	RepoName      string
	CloneURL      string
	DefaultBranch string
	Collaborators []string
}

// ProjectSource reads and writes the resync state of connected projects.
type ProjectSource interface {
	ListProjects(ctx context.Context) ([]Project, error)
	SaveCollaborators(ctx context.Context, projectID string, logins []string) error
	SaveRemote(ctx context.Context, projectID, cloneURL, defaultBranch string) error
}

// RemoteRepo is the provider-side repository state relevant to resync.
type RemoteRepo struct {
	CloneURL      string
	DefaultBranch string
}

// RateUsage is one sample of the provider API quota.
type RateUsage struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// RepoHost is the provider API surface the jobs need.
type RepoHost interface {
	Collaborators(ctx context.Context, token, owner, repo string) ([]string, error)
	Repository(ctx context.Context, token, owner, repo string) (RemoteRepo, error)
	RateLimit(ctx context.Context, token string) (RateUsage, error)
}

// Emitter publishes domain events produced by resync.
type Emitter interface {
	Emit(ctx context.Context, kind model.DomainEventKind, subjectID string, extra map[string]string) error
}
