package model

// Provider identifies the source-control platform a webhook came from.
type Provider string

const (
	ProviderGitHub    Provider = "github"
	ProviderGitLab    Provider = "gitlab"
	ProviderGit       Provider = "git"
	ProviderBitbucket Provider = "bitbucket"
)

// BranchAction describes what a push did to its branch (GitLab payloads
// carry enough information to derive it).
type BranchAction string

const (
	BranchActionNew     BranchAction = "new"
	BranchActionDeleted BranchAction = "deleted"
	BranchActionPush    BranchAction = "push"
)

// HookEvent is the canonical, provider-agnostic view of a push/PR webhook.
// It is built once per inbound request by a payload adapter and read-only
// afterwards; it is never persisted.
type HookEvent struct {
	Provider Provider

	IsPullRequest      bool
	IsDraftPullRequest bool
	PullRequestNumber  int
	PullRequestName    string

	Tag     bool
	TagName string

	// BranchName is always derived: "pull-request-<n>" for PRs, otherwise
	// the ref with "refs/heads/" stripped.
	BranchName string

	CommitSha         string
	CommitRange       string // "<sha>^...<sha>"
	CommitMessage     string
	CommitAuthorName  string
	CommitAuthorEmail string

	PushAuthorUID       string
	PushAuthorName      string
	PushAuthorEmail     string
	PushAuthorAvatarURL string

	RepoURL  string
	RepoName string

	PRHeadRepoName   string
	PRHeadSha        string
	PRHeadBranchName string
	PRBaseBranchName string

	BranchAction BranchAction
}
