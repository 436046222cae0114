package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"webhook-gateway/internal/adapter"
	"webhook-gateway/internal/model"
	pkgLog "webhook-gateway/pkg/log"
)

const (
	// maxAttempts bounds the local retry for the replication-lag race on
	// workflow resolution. This is not a retry-everything policy.
	maxAttempts = 2
	retryDelay  = 200 * time.Millisecond
)

// Worker claims jobs from the queue and runs the dispatch handler. Retries
// are synchronous local loops, not re-enqueues; a job blocks only its own
// worker goroutine.
type Worker struct {
	queue    Queue
	resolver Resolver
	trigger  BuildTrigger
	gate     FeatureGate
	emitter  Emitter
	l        pkgLog.Logger
}

func NewWorker(
	queue Queue,
	resolver Resolver,
	trigger BuildTrigger,
	gate FeatureGate,
	emitter Emitter,
	l pkgLog.Logger,
) *Worker {
	return &Worker{
		queue:    queue,
		resolver: resolver,
		trigger:  trigger,
		gate:     gate,
		emitter:  emitter,
		l:        l,
	}
}

// Run claims and processes jobs until ctx is cancelled. Call N times for N
// workers.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.l.Debug(ctx, "dispatch worker stopping")
			return
		case job, ok := <-w.queue.Jobs():
			if !ok {
				w.l.Debug(ctx, "dispatch jobs channel closed")
				return
			}
			if err := w.Perform(ctx, job); err != nil {
				// Exhausted retries or a permanent failure: surface for
				// operational alerting, never retry indefinitely.
				w.l.Errorf(ctx, "dispatch job failed: job=%s workflow=%s err=%v",
					job.ID, job.WorkflowID, err)
			}
		}
	}
}

// Perform runs the handler for one job. Safe to re-execute with the same
// payload: resolution is a read, the trigger dedupes, and emissions are
// fresh events keyed by the same subject.
func (w *Worker) Perform(ctx context.Context, job model.Job) error {
	if !w.gate.Verify(ctx) {
		return ErrNotLicensed
	}

	wf, err := w.resolveWithRetry(ctx, job)
	if err != nil {
		return err
	}

	a, err := adapter.New(job.Provider, job.RawPayload)
	if err != nil {
		// Malformed payload is permanent; retrying cannot fix it.
		return fmt.Errorf("build adapter: %w", err)
	}
	ev := adapter.Event(job.Provider, a)

	// Hook- and membership-level webhooks drive integration events; only
	// push, pull-request and issue-comment jobs reach the build trigger.
	switch job.EventKind {
	case model.KindMembership, model.KindTeam:
		w.l.Infof(ctx, "collaborators changed: workflow=%s project=%s kind=%s",
			wf.ID, wf.ProjectID, job.EventKind)
		return w.emitter.Emit(ctx, model.EventCollaboratorsChanged, wf.ProjectID, nil)
	case model.KindInstallation, model.KindInstallationRepositories:
		w.l.Infof(ctx, "hook updated: workflow=%s project=%s kind=%s",
			wf.ID, wf.ProjectID, job.EventKind)
		return w.emitter.Emit(ctx, model.EventHookUpdated, wf.ID, map[string]string{
			"project_id": wf.ProjectID,
		})
	case model.KindRepository:
		w.l.Infof(ctx, "remote repository changed: workflow=%s repo=%s", wf.ID, ev.RepoName)
		return w.emitter.Emit(ctx, model.EventRemoteRepositoryChanged, ev.RepoName, nil)
	}

	if err := w.trigger.Trigger(ctx, wf, ev); err != nil {
		if errors.Is(err, ErrPullRequestUnmergeable) {
			w.l.Warnf(ctx, "pull request unmergeable: workflow=%s branch=%s", wf.ID, ev.BranchName)
			return w.emitter.Emit(ctx, model.EventPullRequestUnmergeable, wf.ProjectID, map[string]string{
				"branch_name": ev.BranchName,
			})
		}
		return fmt.Errorf("trigger build: %w", err)
	}

	w.l.Infof(ctx, "build triggered: workflow=%s branch=%s sha=%s", wf.ID, ev.BranchName, ev.CommitSha)
	return nil
}

// resolveWithRetry retries workflow resolution only for the not-yet-visible
// race, with a short fixed backoff.
func (w *Worker) resolveWithRetry(ctx context.Context, job model.Job) (Workflow, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		wf, err := w.resolver.Resolve(ctx, job.WorkflowID)
		if err == nil {
			return wf, nil
		}
		lastErr = err
		if !errors.Is(err, ErrWorkflowNotFound) {
			break
		}
		if attempt < maxAttempts {
			w.l.Warnf(ctx, "workflow not visible yet, retrying: workflow=%s attempt=%d",
				job.WorkflowID, attempt)
			select {
			case <-ctx.Done():
				return Workflow{}, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}
	return Workflow{}, fmt.Errorf("resolve workflow %s: %w", job.WorkflowID, lastErr)
}
