package token

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"webhook-gateway/internal/model"
	pkgLog "webhook-gateway/pkg/log"
)

// Manager is the token lifecycle manager: a read-through cache over
// per-provider refreshers. Refresh tokens are typically single-use, so the
// per-key lock makes two concurrent refreshes for one account converge on a
// single winner.
type Manager struct {
	store      AccountStore
	refreshers map[model.Provider]Refresher
	probers    map[model.Provider]Prober
	cache      *expirable.LRU[string, Entry]
	locks      sync.Map // cache key -> *sync.Mutex
	now        func() time.Time
	l          pkgLog.Logger
}

// NewManager builds a manager. now is injectable for tests; pass nil for
// time.Now.
func NewManager(store AccountStore, l pkgLog.Logger, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		store:      store,
		refreshers: make(map[model.Provider]Refresher),
		probers:    make(map[model.Provider]Prober),
		// Residency cap only; validity is decided by Entry.Valid, not the
		// LRU TTL.
		cache: expirable.NewLRU[string, Entry](10000, nil, time.Hour),
		now:   now,
		l:     l,
	}
}

// Register wires a provider flavor. The refresher is required; prober may be
// nil for providers without an authorization probe.
func (m *Manager) Register(provider model.Provider, r Refresher, p Prober) {
	m.refreshers[provider] = r
	if p != nil {
		m.probers[provider] = p
	}
}

// cacheKey is a stable hash of the account identity.
func cacheKey(account model.Account) string {
	sum := sha256.Sum256([]byte(string(account.Provider) + "/" + account.ID))
	return hex.EncodeToString(sum[:])
}

func (m *Manager) keyLock(key string) *sync.Mutex {
	mu, _ := m.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// GetToken returns a valid token for the account, refreshing through the
// provider on cache miss or invalidity. A revoked account short-circuits
// without touching the provider.
func (m *Manager) GetToken(ctx context.Context, account model.Account) (string, bool) {
	if account.Revoked {
		return "", false
	}

	key := cacheKey(account)
	mu := m.keyLock(key)
	mu.Lock()
	defer mu.Unlock()

	if entry, ok := m.cache.Get(key); ok && entry.Valid(m.now()) {
		return entry.Value, true
	}

	entry, err := m.refresh(ctx, account, key)
	if err != nil {
		return "", false
	}
	return entry.Value, true
}

// refresh mints a new token and writes it back to cache and store. Must be
// called with the key lock held.
func (m *Manager) refresh(ctx context.Context, account model.Account, key string) (Entry, error) {
	refresher, ok := m.refreshers[account.Provider]
	if !ok {
		return Entry{}, ErrNoRefresher
	}

	entry, err := refresher.Refresh(ctx, account)
	if err != nil {
		if errors.Is(err, ErrRefreshDenied) {
			// Permanent: stop retrying against a dead credential.
			m.l.Warnf(ctx, "token refresh denied, revoking account: account=%s provider=%s",
				account.ID, account.Provider)
			m.cache.Remove(key)
			if storeErr := m.store.MarkRevoked(ctx, account.ID); storeErr != nil {
				m.l.Errorf(ctx, "failed to mark account revoked: account=%s err=%v", account.ID, storeErr)
			}
			return Entry{}, err
		}
		// Transient (5xx, network): account untouched, next call retries.
		m.l.Warnf(ctx, "token refresh failed: account=%s provider=%s err=%v",
			account.ID, account.Provider, err)
		return Entry{}, err
	}

	m.cache.Add(key, entry)
	if storeErr := m.store.SaveToken(ctx, account.ID, entry); storeErr != nil {
		m.l.Errorf(ctx, "failed to persist token: account=%s err=%v", account.ID, storeErr)
	}
	return entry, nil
}

// Authorized probes the provider with the account's current token.
// Providers without a prober report false.
func (m *Manager) Authorized(ctx context.Context, account model.Account) bool {
	prober, ok := m.probers[account.Provider]
	if !ok {
		return false
	}
	return prober.Authorized(ctx, account.Token)
}

// Reauthorize re-mints the account token when the current one no longer
// works. The stored token is swapped only after the new one is confirmed
// authorized; a working token is never overwritten with an unconfirmed one.
func (m *Manager) Reauthorize(ctx context.Context, account model.Account) (string, bool) {
	prober, ok := m.probers[account.Provider]
	if !ok {
		return "", false
	}

	if account.Token != "" && prober.Authorized(ctx, account.Token) {
		return account.Token, true
	}

	key := cacheKey(account)
	mu := m.keyLock(key)
	mu.Lock()
	defer mu.Unlock()

	refresher, ok := m.refreshers[account.Provider]
	if !ok {
		return "", false
	}
	entry, err := refresher.Refresh(ctx, account)
	if err != nil {
		if errors.Is(err, ErrRefreshDenied) {
			m.cache.Remove(key)
			if storeErr := m.store.MarkRevoked(ctx, account.ID); storeErr != nil {
				m.l.Errorf(ctx, "failed to mark account revoked: account=%s err=%v", account.ID, storeErr)
			}
		}
		return "", false
	}
	if !prober.Authorized(ctx, entry.Value) {
		return "", false
	}

	m.cache.Add(key, entry)
	if storeErr := m.store.SaveToken(ctx, account.ID, entry); storeErr != nil {
		m.l.Errorf(ctx, "failed to persist token: account=%s err=%v", account.ID, storeErr)
	}
	return entry.Value, true
}
