package jobs

import (
	"context"
	"fmt"
	"sync"
)

// MemoryProjects is an in-process ProjectSource for tests and single-node
// deployments.
type MemoryProjects struct {
	mu       sync.RWMutex
	projects map[string]Project
}

func NewMemoryProjects(projects ...Project) *MemoryProjects {
	s := &MemoryProjects{projects: make(map[string]Project)}
	for _, p := range projects {
		s.projects[p.ID] = p
	}
	return s
}

func (s *MemoryProjects) ListProjects(ctx context.Context) ([]Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	return out, nil
}

func (s *MemoryProjects) SaveCollaborators(ctx context.Context, projectID string, logins []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return fmt.Errorf("project %s not found", projectID)
	}
	p.Collaborators = logins
	s.projects[projectID] = p
	return nil
}

func (s *MemoryProjects) SaveRemote(ctx context.Context, projectID, cloneURL, defaultBranch string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return fmt.Errorf("project %s not found", projectID)
	}
	p.CloneURL = cloneURL
	p.DefaultBranch = defaultBranch
	s.projects[projectID] = p
	return nil
}

var _ ProjectSource = (*MemoryProjects)(nil)
