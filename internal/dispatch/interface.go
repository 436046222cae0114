package dispatch

import (
	"context"

	"webhook-gateway/internal/model"
)

// Queue hands accepted webhook jobs to workers. Delivery is at-least-once:
// a job may surface more than once, and handlers must be idempotent per
// WorkflowID. The in-memory implementation backs tests and single-process
// deployments; a broker-backed one fits behind the same interface.
type Queue interface {
	Enqueue(ctx context.Context, job model.Job) error
	Jobs() <-chan model.Job
}

// Workflow is the resolved dispatch target for a job.
type Workflow struct {
	ID             string
	ProjectID      string
	OrganizationID string
	Provider       model.Provider
}

// Resolver resolves a workflow ID to its project context. A freshly created
// workflow may not be visible yet (replication lag); that surfaces as
// ErrWorkflowNotFound and is the one retryable resolution failure.
type Resolver interface {
	Resolve(ctx context.Context, workflowID string) (Workflow, error)
}

// BuildTrigger starts the downstream build for a canonical event. The
// trigger service dedupes re-deliveries, so calling it twice with the same
// workflow and event is safe.
type BuildTrigger interface {
	Trigger(ctx context.Context, wf Workflow, ev model.HookEvent) error
}

// FeatureGate answers whether processing is licensed. False means stop.
type FeatureGate interface {
	Verify(ctx context.Context) bool
}

// Emitter publishes domain events onto the message bus.
type Emitter interface {
	Emit(ctx context.Context, kind model.DomainEventKind, subjectID string, extra map[string]string) error
}
