package webhook

import (
	"webhook-gateway/internal/dispatch"
	pkgLog "webhook-gateway/pkg/log"
)

type Handler struct {
	queue        dispatch.Queue
	security     *SecurityValidator
	githubFilter *GitHubFilter
	gitlabFilter *GitLabFilter
	gitFilter    *GitFilter
	l            pkgLog.Logger
}

func NewHandler(
	queue dispatch.Queue,
	securityConfig SecurityConfig,
	l pkgLog.Logger,
) *Handler {
	return &Handler{
		queue:        queue,
		security:     NewSecurityValidator(securityConfig),
		githubFilter: NewGitHubFilter(),
		gitlabFilter: NewGitLabFilter(),
		gitFilter:    NewGitFilter(),
		l:            l,
	}
}
