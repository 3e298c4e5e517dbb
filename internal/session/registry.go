// Package session implements the in-memory session registry.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/dverne/gatekeeper/internal/logger"
	"github.com/dverne/gatekeeper/internal/model"
)

// tokenBytes is the entropy of a session token; tokens are hex-encoded.
const tokenBytes = 32

var _ model.SessionStore = (*Registry)(nil)

// Registry keeps live sessions in memory. Reads are frequent and take the
// read lock; Create, Revoke and the janitor take the write lock.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]model.Session

	ttl           time.Duration
	sweepInterval time.Duration
	logger        *logger.Logger

	// now is a test seam; defaults to time.Now.
	now func() time.Time
}

// NewRegistry creates a Registry minting sessions valid for ttl. Zero ttl
// falls back to model.DefaultSessionTTL.
func NewRegistry(ttl, sweepInterval time.Duration, logger *logger.Logger) *Registry {
	if ttl <= 0 {
		ttl = model.DefaultSessionTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	return &Registry{
		sessions:      make(map[string]model.Session),
		ttl:           ttl,
		sweepInterval: sweepInterval,
		logger:        logger,
		now:           time.Now,
	}
}

// Create mints a session for username. The token is drawn from crypto/rand;
// the mint loop retries on the negligible chance of colliding with a live
// token.
func (r *Registry) Create(ctx context.Context, username string) (model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		token, err := newToken()
		if err != nil {
			return model.Session{}, err
		}
		if _, exists := r.sessions[token]; exists {
			continue
		}

		now := r.now()
		session := model.Session{
			Token:     token,
			Username:  username,
			CreatedAt: now,
			ExpiresAt: now.Add(r.ttl),
		}
		r.sessions[token] = session
		return session, nil
	}
}

// Get returns the session for token, or model.ErrNotFound if the token was
// never issued, was revoked, or has expired. Expired entries are expelled
// on access.
func (r *Registry) Get(ctx context.Context, token string) (model.Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[token]
	r.mu.RUnlock()

	if !ok {
		return model.Session{}, model.ErrNotFound
	}
	if session.Expired(r.now()) {
		r.mu.Lock()
		if current, ok := r.sessions[token]; ok && current.Expired(r.now()) {
			delete(r.sessions, token)
		}
		r.mu.Unlock()
		return model.Session{}, model.ErrNotFound
	}

	return session, nil
}

// Revoke removes the session for token. Revoking an unknown token is a
// no-op.
func (r *Registry) Revoke(ctx context.Context, token string) error {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired entries included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Run sweeps expired sessions at the configured interval until ctx is
// cancelled.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.sweep(); n > 0 {
				r.logger.Debug("swept expired sessions", "count", n)
			}
		}
	}
}

// sweep expels expired sessions and returns how many were removed. The
// candidate set is collected under the read lock so the write lock is held
// only for the expired entries.
func (r *Registry) sweep() int {
	now := r.now()

	var expired []string
	r.mu.RLock()
	for token, session := range r.sessions {
		if session.Expired(now) {
			expired = append(expired, token)
		}
	}
	r.mu.RUnlock()

	if len(expired) == 0 {
		return 0
	}

	removed := 0
	r.mu.Lock()
	for _, token := range expired {
		if session, ok := r.sessions[token]; ok && session.Expired(now) {
			delete(r.sessions, token)
			removed++
		}
	}
	r.mu.Unlock()

	return removed
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
