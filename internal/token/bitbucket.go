package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"webhook-gateway/internal/model"
)

// DefaultBitbucketTokenURL is Bitbucket Cloud's OAuth token endpoint.
const DefaultBitbucketTokenURL = "https://bitbucket.org/site/oauth2/access_token"

// BitbucketOAuth refreshes short-lived Bitbucket access tokens through the
// OAuth refresh-token grant.
type BitbucketOAuth struct {
	conf *oauth2.Config
}

func NewBitbucketOAuth(clientID, clientSecret, tokenURL string) *BitbucketOAuth {
	if tokenURL == "" {
		tokenURL = DefaultBitbucketTokenURL
	}
	return &BitbucketOAuth{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
		},
	}
}

func (b *BitbucketOAuth) Refresh(ctx context.Context, account model.Account) (Entry, error) {
	src := b.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: account.RefreshToken})

	tok, err := src.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil &&
			retrieveErr.Response.StatusCode >= http.StatusBadRequest &&
			retrieveErr.Response.StatusCode < http.StatusInternalServerError {
			return Entry{}, fmt.Errorf("bitbucket refresh: %v: %w", err, ErrRefreshDenied)
		}
		return Entry{}, fmt.Errorf("bitbucket refresh: %w", err)
	}

	return Entry{Value: tok.AccessToken, ExpiresAt: tok.Expiry}, nil
}

var _ Refresher = (*BitbucketOAuth)(nil)
