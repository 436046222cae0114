package adapter

import (
	"fmt"
	"strings"

	"webhook-gateway/internal/model"
)

// Adapter exposes the canonical accessor set over one raw webhook payload.
// Accessors are total: missing optional fields yield zero values, never
// errors. Only malformed JSON fails construction.
type Adapter interface {
	IsPullRequest() bool
	IsDraftPullRequest() bool
	PullRequestNumber() int
	PullRequestName() string
	Tag() bool
	TagName() string
	BranchName() string
	CommitSha() string
	CommitRange() string
	CommitMessage() string
	CommitAuthorName() string
	CommitAuthorEmail() string
	PushAuthorUID() string
	PushAuthorName() string
	PushAuthorEmail() string
	PushAuthorAvatarURL() string
	RepoURL() string
	RepoName() string
	PRHeadRepoName() string
	PRHeadSha() string
	PRHeadBranchName() string
	PRBaseBranchName() string
}

// Ensure every provider variant satisfies the accessor set.
var (
	_ Adapter = (*GitHubAdapter)(nil)
	_ Adapter = (*GitLabAdapter)(nil)
	_ Adapter = (*GitAdapter)(nil)
)

// New builds the adapter for the given provider tag. Dispatch is on the tag
// carried alongside the payload, not on payload shape inspection.
func New(provider model.Provider, payload []byte) (Adapter, error) {
	switch provider {
	case model.ProviderGitHub:
		return NewGitHub(payload)
	case model.ProviderGitLab:
		return NewGitLab(payload)
	case model.ProviderGit:
		return NewGit(payload)
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}

// Event materializes the full immutable canonical event from an adapter.
func Event(provider model.Provider, a Adapter) model.HookEvent {
	ev := model.HookEvent{
		Provider:            provider,
		IsPullRequest:       a.IsPullRequest(),
		IsDraftPullRequest:  a.IsDraftPullRequest(),
		PullRequestNumber:   a.PullRequestNumber(),
		PullRequestName:     a.PullRequestName(),
		Tag:                 a.Tag(),
		TagName:             a.TagName(),
		BranchName:          a.BranchName(),
		CommitSha:           a.CommitSha(),
		CommitRange:         a.CommitRange(),
		CommitMessage:       a.CommitMessage(),
		CommitAuthorName:    a.CommitAuthorName(),
		CommitAuthorEmail:   a.CommitAuthorEmail(),
		PushAuthorUID:       a.PushAuthorUID(),
		PushAuthorName:      a.PushAuthorName(),
		PushAuthorEmail:     a.PushAuthorEmail(),
		PushAuthorAvatarURL: a.PushAuthorAvatarURL(),
		RepoURL:             a.RepoURL(),
		RepoName:            a.RepoName(),
		PRHeadRepoName:      a.PRHeadRepoName(),
		PRHeadSha:           a.PRHeadSha(),
		PRHeadBranchName:    a.PRHeadBranchName(),
		PRBaseBranchName:    a.PRBaseBranchName(),
	}
	if ba, ok := a.(interface{ BranchAction() model.BranchAction }); ok {
		ev.BranchAction = ba.BranchAction()
	}
	return ev
}

const (
	refHeadsPrefix = "refs/heads/"
	refTagsPrefix  = "refs/tags/"

	// nullSha is the all-zero SHA providers send for a created or deleted ref.
	nullSha = "0000000000000000000000000000000000000000"
)

// branchFromRef strips refs/heads/ from a ref (refs/heads/main -> main).
func branchFromRef(ref string) string {
	return strings.TrimPrefix(ref, refHeadsPrefix)
}

// pullRequestBranch derives the synthetic branch name for PR number n.
func pullRequestBranch(n int) string {
	return fmt.Sprintf("pull-request-%d", n)
}

// commitRange builds the single-commit range "<sha>^...<sha>".
func commitRange(sha string) string {
	if sha == "" {
		return ""
	}
	return sha + "^..." + sha
}
