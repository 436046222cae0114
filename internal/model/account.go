package model

import "time"

// Account is a repo-host credential record, read and written through the
// account store port. Only the fields the token lifecycle needs are modeled.
type Account struct {
	ID             string
	Provider       Provider
	RefreshToken   string // Bitbucket OAuth refresh token
	InstallationID int64  // GitHub App installation
	Token          string
	TokenExpiresAt time.Time
	Revoked        bool
}
