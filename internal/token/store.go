package token

import (
	"context"
	"fmt"
	"sync"

	"webhook-gateway/internal/model"
)

// MemoryStore is an in-process AccountStore for tests and single-node
// deployments; production wiring points this interface at real account
// storage.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]model.Account
}

func NewMemoryStore(accounts ...model.Account) *MemoryStore {
	s := &MemoryStore{accounts: make(map[string]model.Account)}
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
	return s
}

func (s *MemoryStore) Get(ctx context.Context, id string) (model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return model.Account{}, fmt.Errorf("account %s not found", id)
	}
	return a, nil
}

func (s *MemoryStore) SaveToken(ctx context.Context, id string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return fmt.Errorf("account %s not found", id)
	}
	a.Token = entry.Value
	a.TokenExpiresAt = entry.ExpiresAt
	s.accounts[id] = a
	return nil
}

// ListActive returns the non-revoked accounts, for recurring jobs.
func (s *MemoryStore) ListActive(ctx context.Context) ([]model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	active := make([]model.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		if !a.Revoked {
			active = append(active, a)
		}
	}
	return active, nil
}

func (s *MemoryStore) MarkRevoked(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return fmt.Errorf("account %s not found", id)
	}
	a.Revoked = true
	s.accounts[id] = a
	return nil
}

var _ AccountStore = (*MemoryStore)(nil)
