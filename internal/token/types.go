package token

import "time"

// expiryMargin is the safety window before true expiry: tokens are refreshed
// proactively so in-flight requests never race an expiring credential.
const expiryMargin = 5 * time.Minute

// Entry is one cached token.
type Entry struct {
	Value     string
	ExpiresAt time.Time // zero means no expiry
}

// Valid reports whether the entry can still be served. Invalid iff the value
// is empty or the expiry minus the safety margin is already past.
func (e Entry) Valid(now time.Time) bool {
	if e.Value == "" {
		return false
	}
	if e.ExpiresAt.IsZero() {
		return true
	}
	return now.Before(e.ExpiresAt.Add(-expiryMargin))
}
