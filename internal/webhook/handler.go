package webhook

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"webhook-gateway/internal/model"
	pkgResponse "webhook-gateway/pkg/response"
)

// HandleGitHubWebhook processes GitHub webhook events.
func (h *Handler) HandleGitHubWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.l.Errorf(ctx, "Failed to read webhook body: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	if err := h.security.ValidateIPAddress(c.Request); err != nil {
		h.l.Warnf(ctx, "GitHub webhook from unlisted IP: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	signature := c.GetHeader("X-Hub-Signature-256")
	if err := h.security.ValidateGitHubSignature(body, signature); err != nil {
		h.l.Errorf(ctx, "GitHub signature verification failed: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	if err := h.security.CheckRateLimit("github"); err != nil {
		h.l.Warnf(ctx, "Rate limit exceeded: %v", err)
		pkgResponse.TooManyRequests(c)
		return
	}

	h.accept(c, model.ProviderGitHub, h.githubFilter, body, signature)
}

// HandleGitLabWebhook processes GitLab webhook events.
func (h *Handler) HandleGitLabWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.l.Errorf(ctx, "Failed to read webhook body: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	if err := h.security.ValidateIPAddress(c.Request); err != nil {
		h.l.Warnf(ctx, "GitLab webhook from unlisted IP: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	token := c.GetHeader("X-Gitlab-Token")
	if err := h.security.ValidateGitLabToken(token); err != nil {
		h.l.Errorf(ctx, "GitLab token verification failed: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	if err := h.security.CheckRateLimit("gitlab"); err != nil {
		h.l.Warnf(ctx, "Rate limit exceeded: %v", err)
		pkgResponse.TooManyRequests(c)
		return
	}

	h.accept(c, model.ProviderGitLab, h.gitlabFilter, body, "")
}

// HandleGitWebhook processes generic Git post-receive events.
func (h *Handler) HandleGitWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.l.Errorf(ctx, "Failed to read webhook body: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	if err := h.security.ValidateIPAddress(c.Request); err != nil {
		h.l.Warnf(ctx, "Git webhook from unlisted IP: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	if err := h.security.CheckRateLimit("git"); err != nil {
		h.l.Warnf(ctx, "Rate limit exceeded: %v", err)
		pkgResponse.TooManyRequests(c)
		return
	}

	h.accept(c, model.ProviderGit, h.gitFilter, body, "")
}

// accept classifies the request and enqueues a dispatch job when supported.
// Rejections still answer 200 so the provider never disables the hook; the
// reason travels in the body for observability.
func (h *Handler) accept(c *gin.Context, provider model.Provider, filter Filter, body []byte, signature string) {
	ctx := c.Request.Context()

	cls := filter.Classify(c.Request.Header, body)
	if !cls.Supported {
		h.l.Infof(ctx, "Webhook ignored: provider=%s reason=%s", provider, cls.Reason)
		pkgResponse.OK(c, gin.H{"status": "ignored", "reason": string(cls.Reason)})
		return
	}

	job := model.Job{
		ID:         uuid.NewString(),
		WorkflowID: c.Param("workflow_id"),
		Provider:   provider,
		EventKind:  cls.EventKind,
		RawPayload: body,
		Signature:  signature,
	}
	if err := h.queue.Enqueue(ctx, job); err != nil {
		h.l.Errorf(ctx, "Failed to enqueue webhook job: %v", err)
		pkgResponse.InternalError(c, err)
		return
	}

	h.l.Infof(ctx, "Webhook accepted: provider=%s kind=%s workflow=%s job=%s",
		provider, cls.EventKind, job.WorkflowID, job.ID)
	pkgResponse.OK(c, gin.H{"status": "accepted", "event": string(cls.EventKind)})
}
