package adapter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"webhook-gateway/internal/model"
)

// GitLabAdapter reads canonical fields out of a GitLab webhook payload.
// Tag pushes are signaled by object_kind, not the ref shape, and the latest
// commit is resolved by scanning the commit list for checkout_sha.
type GitLabAdapter struct {
	payload gitlabPayload
}

type gitlabCommit struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Author  struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"author"`
}

type gitlabPayload struct {
	ObjectKind  string `json:"object_kind"`
	Ref         string `json:"ref"`
	Before      string `json:"before"`
	After       string `json:"after"`
	CheckoutSha string `json:"checkout_sha"`
	UserID      int64  `json:"user_id"`
	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
	UserAvatar  string `json:"user_avatar"`
	Project     struct {
		PathWithNamespace string `json:"path_with_namespace"`
		WebURL            string `json:"web_url"`
	} `json:"project"`
	Commits          []gitlabCommit `json:"commits"`
	ObjectAttributes *struct {
		IID            int    `json:"iid"`
		Title          string `json:"title"`
		SourceBranch   string `json:"source_branch"`
		TargetBranch   string `json:"target_branch"`
		WorkInProgress bool   `json:"work_in_progress"`
		LastCommit     struct {
			ID      string `json:"id"`
			Message string `json:"message"`
			Author  struct {
				Name  string `json:"name"`
				Email string `json:"email"`
			} `json:"author"`
		} `json:"last_commit"`
		Source struct {
			PathWithNamespace string `json:"path_with_namespace"`
		} `json:"source"`
	} `json:"object_attributes"`
}

func NewGitLab(payload []byte) (*GitLabAdapter, error) {
	a := &GitLabAdapter{}
	if err := json.Unmarshal(payload, &a.payload); err != nil {
		return nil, fmt.Errorf("failed to parse gitlab payload: %w", err)
	}
	return a, nil
}

// latestCommit resolves the commit matching the push's head SHA. A squashed
// or rewritten push may carry no matching entry; the zero commit is returned
// and author/message data is silently empty in that case.
func (a *GitLabAdapter) latestCommit() gitlabCommit {
	for _, c := range a.payload.Commits {
		if c.ID == a.payload.CheckoutSha {
			return c
		}
	}
	return gitlabCommit{}
}

func (a *GitLabAdapter) isMergeRequest() bool {
	return a.payload.ObjectKind == "merge_request" && a.payload.ObjectAttributes != nil
}

// BranchAction derives what the push did to its branch by comparing the
// before/after SHAs against the null-commit sentinel.
func (a *GitLabAdapter) BranchAction() model.BranchAction {
	switch {
	case a.payload.Before == nullSha:
		return model.BranchActionNew
	case a.payload.After == nullSha:
		return model.BranchActionDeleted
	default:
		return model.BranchActionPush
	}
}

func (a *GitLabAdapter) IsPullRequest() bool { return a.isMergeRequest() }

func (a *GitLabAdapter) IsDraftPullRequest() bool {
	return a.isMergeRequest() && a.payload.ObjectAttributes.WorkInProgress
}

func (a *GitLabAdapter) PullRequestNumber() int {
	if !a.isMergeRequest() {
		return 0
	}
	return a.payload.ObjectAttributes.IID
}

func (a *GitLabAdapter) PullRequestName() string {
	if !a.isMergeRequest() {
		return ""
	}
	return a.payload.ObjectAttributes.Title
}

func (a *GitLabAdapter) Tag() bool { return a.payload.ObjectKind == "tag_push" }

func (a *GitLabAdapter) TagName() string {
	if !a.Tag() {
		return ""
	}
	return strings.TrimPrefix(a.payload.Ref, refTagsPrefix)
}

func (a *GitLabAdapter) BranchName() string {
	if a.isMergeRequest() {
		return pullRequestBranch(a.PullRequestNumber())
	}
	return branchFromRef(a.payload.Ref)
}

func (a *GitLabAdapter) CommitSha() string {
	if a.isMergeRequest() {
		return a.payload.ObjectAttributes.LastCommit.ID
	}
	return a.payload.CheckoutSha
}

func (a *GitLabAdapter) CommitRange() string { return commitRange(a.CommitSha()) }

func (a *GitLabAdapter) CommitMessage() string {
	if a.isMergeRequest() {
		return a.payload.ObjectAttributes.LastCommit.Message
	}
	return a.latestCommit().Message
}

func (a *GitLabAdapter) CommitAuthorName() string {
	if a.isMergeRequest() {
		return a.payload.ObjectAttributes.LastCommit.Author.Name
	}
	return a.latestCommit().Author.Name
}

func (a *GitLabAdapter) CommitAuthorEmail() string {
	if a.isMergeRequest() {
		return a.payload.ObjectAttributes.LastCommit.Author.Email
	}
	return a.latestCommit().Author.Email
}

func (a *GitLabAdapter) PushAuthorUID() string {
	if a.payload.UserID == 0 {
		return ""
	}
	return strconv.FormatInt(a.payload.UserID, 10)
}

func (a *GitLabAdapter) PushAuthorName() string { return a.payload.UserName }

func (a *GitLabAdapter) PushAuthorEmail() string { return a.payload.UserEmail }

func (a *GitLabAdapter) PushAuthorAvatarURL() string { return a.payload.UserAvatar }

func (a *GitLabAdapter) RepoURL() string { return a.payload.Project.WebURL }

func (a *GitLabAdapter) RepoName() string { return a.payload.Project.PathWithNamespace }

func (a *GitLabAdapter) PRHeadRepoName() string {
	if !a.isMergeRequest() {
		return ""
	}
	return a.payload.ObjectAttributes.Source.PathWithNamespace
}

func (a *GitLabAdapter) PRHeadSha() string {
	if !a.isMergeRequest() {
		return ""
	}
	return a.payload.ObjectAttributes.LastCommit.ID
}

func (a *GitLabAdapter) PRHeadBranchName() string {
	if !a.isMergeRequest() {
		return ""
	}
	return a.payload.ObjectAttributes.SourceBranch
}

func (a *GitLabAdapter) PRBaseBranchName() string {
	if !a.isMergeRequest() {
		return ""
	}
	return a.payload.ObjectAttributes.TargetBranch
}
