package token

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v66/github"

	"webhook-gateway/internal/model"
)

// GitHubApp mints installation tokens for a GitHub App and probes token
// authorization. baseURL is overridable for the API-server fake in tests and
// for GitHub Enterprise.
type GitHubApp struct {
	appID   string
	key     *rsa.PrivateKey
	baseURL string
	now     func() time.Time
}

func NewGitHubApp(appID string, privateKeyPEM []byte, baseURL string) (*GitHubApp, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse github app private key: %w", err)
	}
	return &GitHubApp{appID: appID, key: key, baseURL: baseURL, now: time.Now}, nil
}

// appJWT signs the short-lived App JWT used to mint installation tokens.
func (g *GitHubApp) appJWT() (string, error) {
	now := g.now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(now.Add(9 * time.Minute)),
		Issuer:    g.appID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(g.key)
}

func (g *GitHubApp) client(httpClient *http.Client) (*github.Client, error) {
	client := github.NewClient(httpClient)
	if g.baseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(g.baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse github base url: %w", err)
		}
		client.BaseURL = base
	}
	return client, nil
}

// bearerTransport adds a static bearer token to every request.
type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+t.token)
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

func (g *GitHubApp) Refresh(ctx context.Context, account model.Account) (Entry, error) {
	signed, err := g.appJWT()
	if err != nil {
		return Entry{}, fmt.Errorf("sign app jwt: %w", err)
	}

	client, err := g.client(&http.Client{Transport: &bearerTransport{token: signed}})
	if err != nil {
		return Entry{}, err
	}

	tok, resp, err := client.Apps.CreateInstallationToken(ctx, account.InstallationID, nil)
	if err != nil {
		if resp != nil && resp.StatusCode >= http.StatusBadRequest &&
			resp.StatusCode < http.StatusInternalServerError {
			return Entry{}, fmt.Errorf("mint installation token: %v: %w", err, ErrRefreshDenied)
		}
		return Entry{}, fmt.Errorf("mint installation token: %w", err)
	}

	return Entry{Value: tok.GetToken(), ExpiresAt: tok.GetExpiresAt().Time}, nil
}

// Authorized probes the API with the token; any successful call means the
// token is accepted.
func (g *GitHubApp) Authorized(ctx context.Context, tokenValue string) bool {
	if tokenValue == "" {
		return false
	}
	client, err := g.client(nil)
	if err != nil {
		return false
	}
	_, _, err = client.WithAuthToken(tokenValue).RateLimit.Get(ctx)
	return err == nil
}

var (
	_ Refresher = (*GitHubApp)(nil)
	_ Prober    = (*GitHubApp)(nil)
)
