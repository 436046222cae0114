package model

// RejectReason says why a webhook was classified unsupported. Reasons are kept
// distinct for observability, never collapsed into a single boolean.
type RejectReason string

const (
	ReasonUnsupportedEvent           RejectReason = "unsupported_event"
	ReasonUnsupportedAction          RejectReason = "unsupported_action"
	ReasonUnsupportedCommand         RejectReason = "unsupported_command"
	ReasonUnsupportedMembershipScope RejectReason = "unsupported_membership_scope"
	ReasonUnsupportedTeamAction      RejectReason = "unsupported_team_action"
	ReasonEmptyPayload               RejectReason = "empty_payload"
)

// EventKind is the normalized kind of an inbound webhook.
type EventKind string

const (
	KindPush                     EventKind = "push"
	KindPullRequest              EventKind = "pull_request"
	KindIssueComment             EventKind = "issue_comment"
	KindMembership               EventKind = "membership"
	KindTeam                     EventKind = "team"
	KindInstallation             EventKind = "installation"
	KindInstallationRepositories EventKind = "installation_repositories"
	KindRepository               EventKind = "repository"
)

// RepoRef identifies a repository on the provider.
type RepoRef struct {
	FullName string
	URL      string
}

// Classification is the webhook filter's decision. Built once per request,
// never mutated.
type Classification struct {
	Supported      bool
	Reason         RejectReason
	EventKind      EventKind
	InstallationID string
	Repository     *RepoRef

	// Informational flags, non-blocking.
	IsMemberWebhook                bool
	IsGithubAppInstallationWebhook bool
	IsGithubAppWebhook             bool
	IsRepositoryWebhook            bool
}
