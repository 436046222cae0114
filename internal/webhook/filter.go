package webhook

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"webhook-gateway/internal/model"
)

// Filter decides whether an inbound webhook is actionable, before any full
// payload normalization or queueing. Decisions are pure functions of headers
// and raw body.
type Filter interface {
	Classify(header http.Header, body []byte) model.Classification
}

// Approval command recognized in issue comments.
const CommandApprove = "/sem-approve"

// githubEventKinds is the supported GitHub event set. The member event shares
// the membership kind; everything else maps one-to-one.
var githubEventKinds = map[string]model.EventKind{
	"push":                      model.KindPush,
	"pull_request":              model.KindPullRequest,
	"member":                    model.KindMembership,
	"issue_comment":             model.KindIssueComment,
	"installation":              model.KindInstallation,
	"installation_repositories": model.KindInstallationRepositories,
	"team":                      model.KindTeam,
	"membership":                model.KindMembership,
	"repository":                model.KindRepository,
}

var githubPullRequestActions = map[string]bool{
	"opened":           true,
	"synchronize":      true,
	"closed":           true,
	"reopened":         true,
	"ready_for_review": true,
}

// GitHubFilter classifies GitHub webhook requests.
type GitHubFilter struct{}

func NewGitHubFilter() *GitHubFilter { return &GitHubFilter{} }

// githubFacts is the thin slice of the payload the filter needs. The full
// canonical parse happens later, in the dispatch worker.
type githubFacts struct {
	Action       string `json:"action"`
	Scope        string `json:"scope"`
	Installation struct {
		ID int64 `json:"id"`
	} `json:"installation"`
	Repository struct {
		FullName string `json:"full_name"`
		HTMLURL  string `json:"html_url"`
	} `json:"repository"`
	Issue struct {
		PullRequest *struct {
			URL string `json:"url"`
		} `json:"pull_request"`
	} `json:"issue"`
	Comment struct {
		Body string `json:"body"`
	} `json:"comment"`
	Changes map[string]json.RawMessage `json:"changes"`
}

// Classify runs the decision checks in strict order, short-circuiting on the
// first failure. All checks must pass for Supported.
func (f *GitHubFilter) Classify(header http.Header, body []byte) model.Classification {
	event := header.Get("X-Github-Event")
	targetType := header.Get("X-GitHub-Hook-Installation-Target-Type")

	c := model.Classification{
		IsMemberWebhook:                event == "member" || event == "membership" || event == "team",
		IsGithubAppInstallationWebhook: event == "installation" || event == "installation_repositories",
		IsGithubAppWebhook:             targetType == "integration",
		IsRepositoryWebhook:            event == "repository",
	}

	if len(bytes.TrimSpace(body)) == 0 {
		c.Reason = model.ReasonEmptyPayload
		return c
	}

	kind, ok := githubEventKinds[event]
	if !ok {
		c.Reason = model.ReasonUnsupportedEvent
		return c
	}
	c.EventKind = kind

	var facts githubFacts
	// A payload that passed the blank check but does not decode yields empty
	// facts; the per-event checks below then reject it with a typed reason.
	_ = json.Unmarshal(body, &facts)

	if facts.Installation.ID != 0 {
		c.InstallationID = strconv.FormatInt(facts.Installation.ID, 10)
	}
	if facts.Repository.FullName != "" {
		c.Repository = &model.RepoRef{
			FullName: facts.Repository.FullName,
			URL:      facts.Repository.HTMLURL,
		}
	}

	switch event {
	case "pull_request":
		if !githubPullRequestActions[facts.Action] {
			c.Reason = model.ReasonUnsupportedAction
			return c
		}
	case "issue_comment":
		if facts.Issue.PullRequest == nil || !strings.Contains(facts.Comment.Body, CommandApprove) {
			c.Reason = model.ReasonUnsupportedCommand
			return c
		}
	case "membership":
		if facts.Scope != "team" {
			c.Reason = model.ReasonUnsupportedMembershipScope
			return c
		}
	case "team":
		if facts.Action == "edited" {
			if _, ok := facts.Changes["repository"]; !ok {
				c.Reason = model.ReasonUnsupportedTeamAction
				return c
			}
		}
	}

	c.Supported = true
	return c
}

// GitLabFilter classifies GitLab webhook requests. GitLab signals the event
// through object_kind rather than a ref shape or a separate action header.
type GitLabFilter struct{}

func NewGitLabFilter() *GitLabFilter { return &GitLabFilter{} }

var gitlabEventKinds = map[string]model.EventKind{
	"push":          model.KindPush,
	"tag_push":      model.KindPush,
	"merge_request": model.KindPullRequest,
}

func (f *GitLabFilter) Classify(header http.Header, body []byte) model.Classification {
	var c model.Classification

	if len(bytes.TrimSpace(body)) == 0 {
		c.Reason = model.ReasonEmptyPayload
		return c
	}

	var facts struct {
		ObjectKind string `json:"object_kind"`
		Project    struct {
			PathWithNamespace string `json:"path_with_namespace"`
			WebURL            string `json:"web_url"`
		} `json:"project"`
	}
	_ = json.Unmarshal(body, &facts)

	kind, ok := gitlabEventKinds[facts.ObjectKind]
	if !ok {
		c.Reason = model.ReasonUnsupportedEvent
		return c
	}
	c.EventKind = kind

	if facts.Project.PathWithNamespace != "" {
		c.Repository = &model.RepoRef{
			FullName: facts.Project.PathWithNamespace,
			URL:      facts.Project.WebURL,
		}
	}

	c.Supported = true
	return c
}

// GitFilter classifies generic Git post-receive requests: any non-blank
// payload is a push.
type GitFilter struct{}

func NewGitFilter() *GitFilter { return &GitFilter{} }

func (f *GitFilter) Classify(header http.Header, body []byte) model.Classification {
	var c model.Classification

	if len(bytes.TrimSpace(body)) == 0 {
		c.Reason = model.ReasonEmptyPayload
		return c
	}

	c.EventKind = model.KindPush
	c.Supported = true
	return c
}
