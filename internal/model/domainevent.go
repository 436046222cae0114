package model

import "time"

// DomainEventKind enumerates the integration events this service publishes.
type DomainEventKind string

const (
	EventHookUpdated             DomainEventKind = "hook_updated"
	EventPullRequestUnmergeable  DomainEventKind = "pull_request_unmergeable"
	EventCollaboratorsChanged    DomainEventKind = "collaborators_changed"
	EventRemoteRepositoryChanged DomainEventKind = "remote_repository_changed"
)

// DomainEvent is a bus-bound integration event. Constructed fresh per
// emission with a monotonic timestamp, never reused.
type DomainEvent struct {
	Kind      DomainEventKind
	SubjectID string
	Timestamp time.Time
	Extra     map[string]string
}
