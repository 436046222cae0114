package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"webhook-gateway/internal/model"
)

const clientTimeout = 30 * time.Second

// HTTPResolver resolves workflows against the project-lookup service.
type HTTPResolver struct {
	baseURL string
	client  *http.Client
}

func NewHTTPResolver(baseURL string) *HTTPResolver {
	return &HTTPResolver{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: clientTimeout},
	}
}

func (r *HTTPResolver) Resolve(ctx context.Context, workflowID string) (Workflow, error) {
	url := fmt.Sprintf("%s/workflows/%s", r.baseURL, workflowID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Workflow{}, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Workflow{}, fmt.Errorf("resolve workflow %s: %w", workflowID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Workflow{}, fmt.Errorf("workflow %s: %w", workflowID, ErrWorkflowNotFound)
	case resp.StatusCode != http.StatusOK:
		return Workflow{}, fmt.Errorf("resolve workflow %s: unexpected status %d", workflowID, resp.StatusCode)
	}

	var wf Workflow
	if err := json.NewDecoder(resp.Body).Decode(&wf); err != nil {
		return Workflow{}, fmt.Errorf("decode workflow %s: %w", workflowID, err)
	}
	return wf, nil
}

// HTTPTrigger starts builds through the build-trigger service.
type HTTPTrigger struct {
	baseURL string
	client  *http.Client
}

func NewHTTPTrigger(baseURL string) *HTTPTrigger {
	return &HTTPTrigger{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: clientTimeout},
	}
}

type triggerRequest struct {
	WorkflowID  string `json:"workflow_id"`
	ProjectID   string `json:"project_id"`
	BranchName  string `json:"branch_name"`
	CommitSha   string `json:"commit_sha"`
	CommitRange string `json:"commit_range"`
	PullRequest bool   `json:"pull_request"`
	Tag         bool   `json:"tag"`
}

func (t *HTTPTrigger) Trigger(ctx context.Context, wf Workflow, ev model.HookEvent) error {
	body, err := json.Marshal(triggerRequest{
		WorkflowID:  wf.ID,
		ProjectID:   wf.ProjectID,
		BranchName:  ev.BranchName,
		CommitSha:   ev.CommitSha,
		CommitRange: ev.CommitRange,
		PullRequest: ev.IsPullRequest,
		Tag:         ev.Tag,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/builds", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("trigger build for workflow %s: %w", wf.ID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		// The trigger service answers 409 when the PR cannot be merged.
		return fmt.Errorf("workflow %s: %w", wf.ID, ErrPullRequestUnmergeable)
	case resp.StatusCode >= 300:
		return fmt.Errorf("trigger build for workflow %s: unexpected status %d", wf.ID, resp.StatusCode)
	}
	return nil
}

var (
	_ Resolver     = (*HTTPResolver)(nil)
	_ BuildTrigger = (*HTTPTrigger)(nil)
)
