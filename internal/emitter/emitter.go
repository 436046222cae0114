// Package emitter publishes domain events to the message bus. Downstream
// services rebuild their state from these events, so publish failures are
// propagated to the caller, never swallowed.
package emitter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"webhook-gateway/internal/model"
	pkgLog "webhook-gateway/pkg/log"
)

const (
	hookExchange       = "hook_exchange"
	projectExchange    = "project_exchange"
	repositoryExchange = "repository_exchange"
)

// route binds an event kind to its exchange, routing key and the payload
// field carrying the subject ID.
type route struct {
	exchange     string
	routingKey   string
	subjectField string
}

var routes = map[model.DomainEventKind]route{
	model.EventHookUpdated:             {hookExchange, "updated", "hook_id"},
	model.EventPullRequestUnmergeable:  {hookExchange, "pr_unmergeable", "project_id"},
	model.EventCollaboratorsChanged:    {projectExchange, "collaborators_changed", "project_id"},
	model.EventRemoteRepositoryChanged: {repositoryExchange, "remote_repository_changed", "repository_id"},
}

// Emitter serializes domain events and routes them by kind.
type Emitter struct {
	publisher Publisher
	now       func() time.Time
	l         pkgLog.Logger
}

// New builds an emitter. now is injectable for tests; pass nil for time.Now.
func New(publisher Publisher, l pkgLog.Logger, now func() time.Time) *Emitter {
	if now == nil {
		now = time.Now
	}
	return &Emitter{publisher: publisher, now: now, l: l}
}

// Emit publishes one event. extra fields are merged into the payload next to
// the subject ID and timestamp.
func (e *Emitter) Emit(ctx context.Context, kind model.DomainEventKind, subjectID string, extra map[string]string) error {
	r, ok := routes[kind]
	if !ok {
		return fmt.Errorf("unroutable event kind %q", kind)
	}

	evt := model.DomainEvent{
		Kind:      kind,
		SubjectID: subjectID,
		Timestamp: e.now().UTC(),
		Extra:     extra,
	}

	payload := make(map[string]string, len(evt.Extra)+2)
	for k, v := range evt.Extra {
		payload[k] = v
	}
	payload[r.subjectField] = evt.SubjectID
	payload["timestamp"] = evt.Timestamp.Format(time.RFC3339Nano)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", kind, err)
	}

	if err := e.publisher.Publish(ctx, r.exchange, r.routingKey, body); err != nil {
		return fmt.Errorf("publish %s to %s/%s: %w", kind, r.exchange, r.routingKey, err)
	}
	e.l.Debugf(ctx, "emitted domain event: kind=%s exchange=%s routing_key=%s subject=%s",
		kind, r.exchange, r.routingKey, subjectID)
	return nil
}
