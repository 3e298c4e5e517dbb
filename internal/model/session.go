package model

import (
	"context"
	"time"
)

// DefaultSessionTTL is the validity window of a freshly minted session.
const DefaultSessionTTL = 30 * time.Minute

// SessionStore manages live sessions.
type SessionStore interface {
	// Create mints a session for username with a token unique among live
	// sessions.
	Create(ctx context.Context, username string) (Session, error)
	// Get returns ErrNotFound for tokens that were never issued, were
	// revoked, or have expired.
	Get(ctx context.Context, token string) (Session, error)
	// Revoke removes a session. Revoking an unknown or already revoked
	// token is a no-op.
	Revoke(ctx context.Context, token string) error
}

// Session describes a live authenticated session. Token is an opaque bearer
// credential; Username is a back-reference to the credential record, not
// ownership of it.
type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at the given time.
// A session is valid up to and including its expiry instant.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
