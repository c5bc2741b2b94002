// Package auth describes the hosted identity provider the application
// delegates credentials to.
package auth

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email already registered")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

// Account is what the provider knows about a user.
type Account struct {
	UID   string
	Email string
}

type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*Account, error)
	SignUp(ctx context.Context, email, password, displayName string) (*Account, error)
}
