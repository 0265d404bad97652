package repositories

import (
	"context"
	"fmt"
)

// Identity is a verified external identity returned by the provider.
type Identity struct {
	ExternalID string
	Email      string
	Name       string
	AvatarURL  string
}

// AuthProviderError wraps failures talking to the identity provider:
// invalid or expired codes and network errors alike.
type AuthProviderError struct {
	Op  string
	Err error
}

func (e *AuthProviderError) Error() string {
	return fmt.Sprintf("auth provider %s failed: %v", e.Op, e.Err)
}

func (e *AuthProviderError) Unwrap() error { return e.Err }

// IdentityProvider delegates credential verification to the external
// OAuth service.
type IdentityProvider interface {
	// SigninURL builds the provider's login redirect target.
	SigninURL(state string) string

	// VerifyCode exchanges an authorization code for a verified identity.
	VerifyCode(ctx context.Context, code, state string) (*Identity, error)
}
