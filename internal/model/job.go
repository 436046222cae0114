package model

// Job is the unit of work handed to the dispatch worker. The queue owns a job
// until exactly one worker claims it; delivery is at-least-once, so handlers
// must be idempotent with respect to WorkflowID.
type Job struct {
	ID         string
	WorkflowID string
	Provider   Provider
	// EventKind is the filter's classification, carried so the worker can
	// route the job without re-classifying the payload.
	EventKind  EventKind
	RawPayload []byte
	Signature  string
	Attempt    int
}
