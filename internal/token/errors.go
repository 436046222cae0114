package token

import "errors"

var (
	// ErrRefreshDenied marks a permanent 4xx from the provider: the owning
	// account is revoked and future attempts short-circuit until a human
	// reconnects it.
	ErrRefreshDenied = errors.New("token refresh denied by provider")

	// ErrNoRefresher means no flavor is registered for the account provider.
	ErrNoRefresher = errors.New("no token refresher for provider")
)
