package adapter

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GitAdapter reads canonical fields out of a generic Git post-receive
// payload. Generic Git has no pull-request concept and no hosted repository
// identity: IsPullRequest is always false and RepoURL/RepoName always empty.
type GitAdapter struct {
	payload gitPayload
}

type gitPayload struct {
	Ref        string `json:"ref"`
	After      string `json:"after"`
	HeadCommit struct {
		ID      string `json:"id"`
		Message string `json:"message"`
		Author  struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"author"`
	} `json:"head_commit"`
	Pusher struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"pusher"`
}

func NewGit(payload []byte) (*GitAdapter, error) {
	a := &GitAdapter{}
	if err := json.Unmarshal(payload, &a.payload); err != nil {
		return nil, fmt.Errorf("failed to parse git payload: %w", err)
	}
	return a, nil
}

func (a *GitAdapter) IsPullRequest() bool      { return false }
func (a *GitAdapter) IsDraftPullRequest() bool { return false }
func (a *GitAdapter) PullRequestNumber() int   { return 0 }
func (a *GitAdapter) PullRequestName() string  { return "" }

func (a *GitAdapter) Tag() bool {
	return strings.HasPrefix(a.payload.Ref, refTagsPrefix)
}

func (a *GitAdapter) TagName() string {
	if !a.Tag() {
		return ""
	}
	return strings.TrimPrefix(a.payload.Ref, refTagsPrefix)
}

func (a *GitAdapter) BranchName() string { return branchFromRef(a.payload.Ref) }

func (a *GitAdapter) CommitSha() string {
	if a.payload.HeadCommit.ID != "" {
		return a.payload.HeadCommit.ID
	}
	return a.payload.After
}

func (a *GitAdapter) CommitRange() string { return commitRange(a.CommitSha()) }

func (a *GitAdapter) CommitMessage() string { return a.payload.HeadCommit.Message }

func (a *GitAdapter) CommitAuthorName() string { return a.payload.HeadCommit.Author.Name }

func (a *GitAdapter) CommitAuthorEmail() string { return a.payload.HeadCommit.Author.Email }

func (a *GitAdapter) PushAuthorUID() string { return "" }

func (a *GitAdapter) PushAuthorName() string { return a.payload.Pusher.Name }

func (a *GitAdapter) PushAuthorEmail() string { return a.payload.Pusher.Email }

func (a *GitAdapter) PushAuthorAvatarURL() string { return "" }

func (a *GitAdapter) RepoURL() string  { return "" }
func (a *GitAdapter) RepoName() string { return "" }

func (a *GitAdapter) PRHeadRepoName() string   { return "" }
func (a *GitAdapter) PRHeadSha() string        { return "" }
func (a *GitAdapter) PRHeadBranchName() string { return "" }
func (a *GitAdapter) PRBaseBranchName() string { return "" }
