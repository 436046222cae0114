package jobs

import (
	"context"
	"slices"

	"webhook-gateway/internal/model"
	pkgLog "webhook-gateway/pkg/log"
)

// Resync reconciles locally known project state against the provider and
// emits domain events on drift. Webhooks cover the common path; resync covers
// changes made while a webhook was lost or the service was down.
type Resync struct {
	projects ProjectSource
	tokens   TokenSource
	host     RepoHost
	emitter  Emitter
	l        pkgLog.Logger
}

func NewResync(projects ProjectSource, tokens TokenSource, host RepoHost, emitter Emitter, l pkgLog.Logger) *Resync {
	return &Resync{projects: projects, tokens: tokens, host: host, emitter: emitter, l: l}
}

// Run makes one reconciliation pass over all projects. Per-project failures
// are logged and skipped so one broken project cannot starve the rest.
func (r *Resync) Run(ctx context.Context) error {
	projects, err := r.projects.ListProjects(ctx)
	if err != nil {
		return err
	}

	for _, p := range projects {
		tok, ok := r.tokens.GetToken(ctx, p.Account)
		if !ok {
			r.l.Warnf(ctx, "resync skipped, no token: project=%s account=%s", p.ID, p.Account.ID)
			continue
		}
		if err := r.syncCollaborators(ctx, p, tok); err != nil {
			r.l.Warnf(ctx, "collaborator resync failed: project=%s err=%v", p.ID, err)
		}
		if err := r.syncRepository(ctx, p, tok); err != nil {
			r.l.Warnf(ctx, "repository resync failed: project=%s err=%v", p.ID, err)
		}
	}
	return nil
}

func (r *Resync) syncCollaborators(ctx context.Context, p Project, token string) error {
	remote, err := r.host.Collaborators(ctx, token, p.RepoOwner, p.RepoName)
	if err != nil {
		return err
	}

	known := slices.Clone(p.Collaborators)
	slices.Sort(known)
	current := slices.Clone(remote)
	slices.Sort(current)
	if slices.Equal(known, current) {
		return nil
	}

	if err := r.projects.SaveCollaborators(ctx, p.ID, remote); err != nil {
		return err
	}
	return r.emitter.Emit(ctx, model.EventCollaboratorsChanged, p.ID, nil)
}

func (r *Resync) syncRepository(ctx context.Context, p Project, token string) error {
	remote, err := r.host.Repository(ctx, token, p.RepoOwner, p.RepoName)
	if err != nil {
		return err
	}
	if remote.CloneURL == p.CloneURL && remote.DefaultBranch == p.DefaultBranch {
		return nil
	}

	if err := r.projects.SaveRemote(ctx, p.ID, remote.CloneURL, remote.DefaultBranch); err != nil {
		return err
	}
	return r.emitter.Emit(ctx, model.EventRemoteRepositoryChanged, p.RepositoryID, nil)
}
