package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for credential records.
type UserStore interface {
	// Create persists a new user. It returns ErrUsernameTaken if a record
	// with the same username already exists; the duplicate check and the
	// write are atomic with respect to concurrent callers.
	Create(ctx context.Context, user User) (User, error)
	// GetByUsername returns ErrNotFound when no record exists.
	GetByUsername(ctx context.Context, username string) (User, error)
}

// User represents a stored credential record. PasswordDigest is opaque to
// everything except the hasher that produced it; the plaintext password is
// never stored.
type User struct {
	ID             uuid.UUID
	Username       string
	PasswordDigest string
	Salt           string
	CreatedAt      time.Time
}
