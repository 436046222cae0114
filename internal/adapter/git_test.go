package adapter_test

import (
	"testing"

	"webhook-gateway/internal/adapter"
)

func TestGitPush(t *testing.T) {
	payload := `{
		"ref": "refs/heads/main",
		"after": "7777777777777777777777777777777777777777",
		"head_commit": {
			"id": "7777777777777777777777777777777777777777",
			"message": "Initial import",
			"author": {"name": "Eve", "email": "eve@example.com"}
		},
		"pusher": {"name": "eve", "email": "eve@example.com"}
	}`
	a, err := adapter.NewGit([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.IsPullRequest() {
		t.Error("generic git never has pull requests")
	}
	if got := a.BranchName(); got != "main" {
		t.Errorf("BranchName = %q", got)
	}
	if got := a.CommitMessage(); got != "Initial import" {
		t.Errorf("CommitMessage = %q", got)
	}
	if a.RepoURL() != "" || a.RepoName() != "" {
		t.Error("generic git has no hosted repository identity")
	}
	if a.PushAuthorUID() != "" {
		t.Error("generic git has no author uid")
	}
}

func TestGitTag(t *testing.T) {
	payload := `{"ref": "refs/tags/v0.1.0", "after": "8888888888888888888888888888888888888888"}`
	a, err := adapter.NewGit([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !a.Tag() {
		t.Fatal("refs/tags ref must be a tag")
	}
	if got := a.TagName(); got != "v0.1.0" {
		t.Errorf("TagName = %q", got)
	}
	if got := a.CommitSha(); got != "8888888888888888888888888888888888888888" {
		t.Errorf("CommitSha = %q", got)
	}
}
