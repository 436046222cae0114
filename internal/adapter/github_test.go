package adapter_test

import (
	"testing"

	"webhook-gateway/internal/adapter"
	"webhook-gateway/internal/model"
)

const githubPushPayload = `{
	"ref": "refs/heads/main",
	"after": "2222222222222222222222222222222222222222",
	"head_commit": {
		"id": "2222222222222222222222222222222222222222",
		"message": "Fix build matrix",
		"author": {"name": "Ada", "email": "ada@example.com"}
	},
	"pusher": {"name": "ada", "email": "ada@example.com"},
	"sender": {"id": 42, "login": "ada", "avatar_url": "https://avatars.example.com/42"},
	"repository": {"full_name": "acme/widgets", "html_url": "https://github.com/acme/widgets"}
}`

const githubPRPayload = `{
	"action": "opened",
	"number": 17,
	"pull_request": {
		"number": 17,
		"title": "Add caching layer",
		"draft": true,
		"head": {
			"ref": "feature/cache",
			"sha": "3333333333333333333333333333333333333333",
			"repo": {"full_name": "forker/widgets"}
		},
		"base": {"ref": "main"}
	},
	"sender": {"id": 7, "login": "bob", "avatar_url": ""},
	"repository": {"full_name": "acme/widgets", "html_url": "https://github.com/acme/widgets"}
}`

func TestGitHubPush(t *testing.T) {
	a, err := adapter.NewGitHub([]byte(githubPushPayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.IsPullRequest() {
		t.Error("push must not be a pull request")
	}
	if got := a.BranchName(); got != "main" {
		t.Errorf("BranchName = %q, want main", got)
	}
	if a.Tag() {
		t.Error("refs/heads ref must not be a tag")
	}
	if got := a.CommitSha(); got != "2222222222222222222222222222222222222222" {
		t.Errorf("CommitSha = %q", got)
	}
	wantRange := "2222222222222222222222222222222222222222^...2222222222222222222222222222222222222222"
	if got := a.CommitRange(); got != wantRange {
		t.Errorf("CommitRange = %q, want %q", got, wantRange)
	}
	if got := a.CommitAuthorName(); got != "Ada" {
		t.Errorf("CommitAuthorName = %q", got)
	}
	if got := a.PushAuthorUID(); got != "42" {
		t.Errorf("PushAuthorUID = %q", got)
	}
	if got := a.RepoName(); got != "acme/widgets" {
		t.Errorf("RepoName = %q", got)
	}
}

func TestGitHubPullRequest(t *testing.T) {
	a, err := adapter.NewGitHub([]byte(githubPRPayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !a.IsPullRequest() {
		t.Fatal("expected pull request")
	}
	if !a.IsDraftPullRequest() {
		t.Error("expected draft pull request")
	}
	if got := a.PullRequestNumber(); got != 17 {
		t.Errorf("PullRequestNumber = %d", got)
	}
	if got := a.BranchName(); got != "pull-request-17" {
		t.Errorf("BranchName = %q, want pull-request-17", got)
	}
	if got := a.CommitSha(); got != "3333333333333333333333333333333333333333" {
		t.Errorf("CommitSha = %q", got)
	}
	if got := a.PRHeadRepoName(); got != "forker/widgets" {
		t.Errorf("PRHeadRepoName = %q", got)
	}
	if got := a.PRHeadBranchName(); got != "feature/cache" {
		t.Errorf("PRHeadBranchName = %q", got)
	}
	if got := a.PRBaseBranchName(); got != "main" {
		t.Errorf("PRBaseBranchName = %q", got)
	}
}

func TestGitHubTagPush(t *testing.T) {
	payload := `{"ref": "refs/tags/v1.2.0", "after": "4444444444444444444444444444444444444444"}`
	a, err := adapter.NewGitHub([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !a.Tag() {
		t.Fatal("refs/tags ref must be a tag")
	}
	if got := a.TagName(); got != "v1.2.0" {
		t.Errorf("TagName = %q, want v1.2.0", got)
	}
	if a.IsPullRequest() {
		t.Error("tag and pull request are mutually exclusive")
	}
}

func TestGitHubMissingFieldsYieldDefaults(t *testing.T) {
	a, err := adapter.NewGitHub([]byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.IsPullRequest() || a.Tag() {
		t.Error("empty payload must classify as plain push")
	}
	if a.BranchName() != "" || a.CommitSha() != "" || a.CommitRange() != "" {
		t.Error("missing ref/sha must derive to empty strings, not fail")
	}
	if a.PushAuthorUID() != "" {
		t.Errorf("PushAuthorUID = %q, want empty", a.PushAuthorUID())
	}
}

func TestEventMaterialization(t *testing.T) {
	a, err := adapter.New(model.ProviderGitHub, []byte(githubPRPayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ev := adapter.Event(model.ProviderGitHub, a)
	if ev.Provider != model.ProviderGitHub {
		t.Errorf("Provider = %q", ev.Provider)
	}
	if !ev.IsPullRequest || ev.BranchName != "pull-request-17" {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.Tag {
		t.Error("tag and pull request are mutually exclusive")
	}
}
