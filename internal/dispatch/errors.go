package dispatch

import "errors"

var (
	// ErrQueueFull means the bounded queue rejected the job; the caller
	// answers the provider with an error so it redelivers.
	ErrQueueFull = errors.New("dispatch queue full")

	// ErrWorkflowNotFound marks the replication-lag race on freshly created
	// workflows. It is the only error class perform retries.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrNotLicensed means the feature gate denied processing.
	ErrNotLicensed = errors.New("processing not licensed")

	// ErrPullRequestUnmergeable is returned by the build trigger when the
	// PR cannot be merged; the worker publishes the corresponding domain
	// event instead of failing the job.
	ErrPullRequestUnmergeable = errors.New("pull request unmergeable")
)
