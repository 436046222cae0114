package adapter

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GitHubAdapter reads canonical fields out of a GitHub webhook payload.
// Push and pull_request payloads share one shape; whichever section is
// absent simply yields defaults.
type GitHubAdapter struct {
	payload githubPayload
}

type githubPayload struct {
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
	Sender struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		AvatarURL string `json:"avatar_url"`
	} `json:"sender"`
	Repository struct {
		FullName string `json:"full_name"`
		HTMLURL  string `json:"html_url"`
	} `json:"repository"`
	Number      int `json:"number"`
	PullRequest *struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		Draft  bool   `json:"draft"`
		Head   struct {
			Ref  string `json:"ref"`
			SHA  string `json:"sha"`
			Repo struct {
				FullName string `json:"full_name"`
			} `json:"repo"`
		} `json:"head"`
		Base struct {
			Ref string `json:"ref"`
		} `json:"base"`
	} `json:"pull_request"`
}

func NewGitHub(payload []byte) (*GitHubAdapter, error) {
	a := &GitHubAdapter{}
	if err := json.Unmarshal(payload, &a.payload); err != nil {
		return nil, fmt.Errorf("failed to parse github payload: %w", err)
	}
	return a, nil
}

func (a *GitHubAdapter) IsPullRequest() bool { return a.payload.PullRequest != nil }

func (a *GitHubAdapter) IsDraftPullRequest() bool {
	return a.payload.PullRequest != nil && a.payload.PullRequest.Draft
}

func (a *GitHubAdapter) PullRequestNumber() int {
	if a.payload.PullRequest == nil {
		return 0
	}
	if a.payload.PullRequest.Number != 0 {
		return a.payload.PullRequest.Number
	}
	return a.payload.Number
}

func (a *GitHubAdapter) PullRequestName() string {
	if a.payload.PullRequest == nil {
		return ""
	}
	return a.payload.PullRequest.Title
}

func (a *GitHubAdapter) Tag() bool {
	return strings.HasPrefix(a.payload.Ref, refTagsPrefix)
}

func (a *GitHubAdapter) TagName() string {
	if !a.Tag() {
		return ""
	}
	return strings.TrimPrefix(a.payload.Ref, refTagsPrefix)
}

func (a *GitHubAdapter) BranchName() string {
	if a.IsPullRequest() {
		return pullRequestBranch(a.PullRequestNumber())
	}
	return branchFromRef(a.payload.Ref)
}

func (a *GitHubAdapter) CommitSha() string {
	if a.IsPullRequest() {
		return a.payload.PullRequest.Head.SHA
	}
	if a.payload.HeadCommit.ID != "" {
		return a.payload.HeadCommit.ID
	}
	return a.payload.After
}

func (a *GitHubAdapter) CommitRange() string { return commitRange(a.CommitSha()) }

func (a *GitHubAdapter) CommitMessage() string { return a.payload.HeadCommit.Message }

func (a *GitHubAdapter) CommitAuthorName() string { return a.payload.HeadCommit.Author.Name }

func (a *GitHubAdapter) CommitAuthorEmail() string { return a.payload.HeadCommit.Author.Email }

func (a *GitHubAdapter) PushAuthorUID() string {
	if a.payload.Sender.ID == 0 {
		return ""
	}
	return fmt.Sprintf("%d", a.payload.Sender.ID)
}

func (a *GitHubAdapter) PushAuthorName() string { return a.payload.Sender.Login }

func (a *GitHubAdapter) PushAuthorEmail() string { return a.payload.Pusher.Email }

func (a *GitHubAdapter) PushAuthorAvatarURL() string { return a.payload.Sender.AvatarURL }

func (a *GitHubAdapter) RepoURL() string { return a.payload.Repository.HTMLURL }

func (a *GitHubAdapter) RepoName() string { return a.payload.Repository.FullName }

func (a *GitHubAdapter) PRHeadRepoName() string {
	if a.payload.PullRequest == nil {
		return ""
	}
	return a.payload.PullRequest.Head.Repo.FullName
}

func (a *GitHubAdapter) PRHeadSha() string {
	if a.payload.PullRequest == nil {
		return ""
	}
	return a.payload.PullRequest.Head.SHA
}

func (a *GitHubAdapter) PRHeadBranchName() string {
	if a.payload.PullRequest == nil {
		return ""
	}
	return a.payload.PullRequest.Head.Ref
}

func (a *GitHubAdapter) PRBaseBranchName() string {
	if a.payload.PullRequest == nil {
		return ""
	}
	return a.payload.PullRequest.Base.Ref
}
