package token

import (
	"context"

	"webhook-gateway/internal/model"
)

// AccountStore reads and writes repo-host credential records.
type AccountStore interface {
	Get(ctx context.Context, id string) (model.Account, error)
	SaveToken(ctx context.Context, id string, entry Entry) error
	MarkRevoked(ctx context.Context, id string) error
}

// Refresher mints a fresh token for one provider flavor: an OAuth
// refresh-token exchange for Bitbucket, an App installation-token mint for
// GitHub.
type Refresher interface {
	Refresh(ctx context.Context, account model.Account) (Entry, error)
}

// Prober checks whether a token is currently accepted by the provider.
// Implemented by the GitHub flavor; used by Reauthorize.
type Prober interface {
	Authorized(ctx context.Context, tokenValue string) bool
}
