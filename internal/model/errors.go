package model

import "errors"

var (
	// ErrNotFound is returned by lookups when no matching record exists.
	// For sessions it is deliberately uniform: never issued, revoked and
	// expired tokens are indistinguishable to the caller.
	ErrNotFound = errors.New("record not found")

	// ErrUsernameTaken is returned by UserStore.Create when a record with
	// the same username already exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidUsername and ErrInvalidPassword report format rejections
	// during registration.
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidCredentials is returned on login for both an unknown
	// username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
