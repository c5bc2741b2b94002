package supabase

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
	"rakitin/internal/auth"
)

// IdentityProvider checks credentials against Supabase Auth. It calls the
// gotrue client directly so sign-ins never swap the shared client's token.
type IdentityProvider struct {
	client *Client
}

var _ auth.IdentityProvider = (*IdentityProvider)(nil)

func NewIdentityProvider(client *Client) *IdentityProvider {
	return &IdentityProvider{client: client}
}

func (p *IdentityProvider) SignIn(_ context.Context, email, password string) (*auth.Account, error) {
	resp, err := p.client.Auth.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, classifyAuthError(err, auth.ErrInvalidCredentials)
	}
	if resp.User.ID == uuid.Nil {
		return nil, fmt.Errorf("sign in returned no user: %w", auth.ErrProviderUnavailable)
	}
	return &auth.Account{UID: resp.User.ID.String(), Email: resp.User.Email}, nil
}

func (p *IdentityProvider) SignUp(_ context.Context, email, password, displayName string) (*auth.Account, error) {
	resp, err := p.client.Auth.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     map[string]interface{}{"display_name": displayName},
	})
	if err != nil {
		return nil, classifyAuthError(err, auth.ErrEmailTaken)
	}

	id := resp.ID
	if id == uuid.Nil {
		id = resp.Session.User.ID
	}
	if id == uuid.Nil {
		return nil, fmt.Errorf("sign up returned no user: %w", auth.ErrProviderUnavailable)
	}
	return &auth.Account{UID: id.String(), Email: email}, nil
}

// classifyAuthError maps gotrue's "response status code N: body" errors onto
// the auth sentinels. Client errors become rejected, the rest unavailable.
func classifyAuthError(err error, rejected error) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", auth.ErrProviderUnavailable, err)
	}
	msg := err.Error()
	for _, code := range []string{"status code 400", "status code 401", "status code 403", "status code 409", "status code 422"} {
		if strings.Contains(msg, code) {
			return fmt.Errorf("%w: %v", rejected, err)
		}
	}
	if errors.Is(err, types.ErrInvalidTokenRequest) {
		return fmt.Errorf("%w: %v", auth.ErrInvalidCredentials, err)
	}
	return fmt.Errorf("%w: %v", auth.ErrProviderUnavailable, err)
}
