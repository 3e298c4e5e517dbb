package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dverne/gatekeeper/internal/logger"
	"github.com/dverne/gatekeeper/internal/model"
	"github.com/dverne/gatekeeper/internal/security"
	"github.com/dverne/gatekeeper/internal/validate"
)

// Auth orchestrates registration, login and logout over a credential store
// and a session store.
type Auth struct {
	users    model.UserStore
	sessions model.SessionStore
	hasher   *security.Hasher
	logger   *logger.Logger
}

func NewAuth(users model.UserStore, sessions model.SessionStore, hasher *security.Hasher, logger *logger.Logger) *Auth {
	return &Auth{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		logger:   logger,
	}
}

// Register creates a credential record for the given username and password.
// It returns model.ErrInvalidUsername or model.ErrInvalidPassword on format
// rejection, model.ErrUsernameTaken on conflict, and a wrapped store error
// otherwise. It does not touch any session.
func (a *Auth) Register(ctx context.Context, username, password string) (model.User, error) {
	a.logger.Debug("Auth service: starting registration", "username", username)

	if !validate.Username(username) {
		return model.User{}, model.ErrInvalidUsername
	}
	if !validate.Password(password) {
		return model.User{}, model.ErrInvalidPassword
	}

	salt, err := a.hasher.GenerateSalt()
	if err != nil {
		a.logger.Error("Auth service: failed to generate salt",
			"username", username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	user := model.User{
		ID:             uuid.New(),
		Username:       username,
		PasswordDigest: a.hasher.Hash(password, salt),
		Salt:           salt,
		CreatedAt:      time.Now(),
	}

	saved, err := a.users.Create(ctx, user)
	if errors.Is(err, model.ErrUsernameTaken) {
		a.logger.Info("Auth service: username already taken", "username", username)
		return model.User{}, model.ErrUsernameTaken
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"username", username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered", "username", username)
	return saved, nil
}

// Login verifies the password against the stored digest and mints a session
// on success. Unknown usernames and wrong passwords are collapsed into
// model.ErrInvalidCredentials; store failures propagate as wrapped errors so
// the caller can tell "wrong password" from "store unavailable".
func (a *Auth) Login(ctx context.Context, username, password string) (string, error) {
	a.logger.Debug("Auth service: starting login", "username", username)

	user, err := a.users.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		// Burn a derivation against a throwaway salt so an unknown
		// username costs the same as a wrong password.
		if salt, saltErr := a.hasher.GenerateSalt(); saltErr == nil {
			a.hasher.Hash(password, salt)
		}
		return "", model.ErrInvalidCredentials
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user",
			"username", username,
			"error", err.Error())
		return "", fmt.Errorf("failed to get user by username: %w", err)
	}

	if !a.hasher.Verify(password, user.Salt, user.PasswordDigest) {
		a.logger.Info("Auth service: login rejected", "username", username)
		return "", model.ErrInvalidCredentials
	}

	session, err := a.sessions.Create(ctx, username)
	if err != nil {
		a.logger.Error("Auth service: failed to create session",
			"username", username,
			"error", err.Error())
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	a.logger.Info("Auth service: user logged in", "username", username)
	return session.Token, nil
}

// Logout revokes the session for token. It is idempotent: a missing or
// already revoked token is not an error.
func (a *Auth) Logout(ctx context.Context, token string) error {
	if err := a.sessions.Revoke(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	a.logger.Debug("Auth service: session revoked")
	return nil
}

// Authenticate resolves a bearer token to its session. Missing, revoked and
// expired tokens all return model.ErrNotFound.
func (a *Auth) Authenticate(ctx context.Context, token string) (model.Session, error) {
	session, err := a.sessions.Get(ctx, token)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, model.ErrNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}
