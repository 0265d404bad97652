package casdoor

import (
	"context"
	"fmt"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"github.com/CampusQA-2025/qa-service/internal/repositories"
)

// CasdoorConfig holds the configuration for the Casdoor connection
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
	RedirectURL      string
}

// IdentityCasdoor verifies OAuth authorization codes against Casdoor and
// maps provider accounts to the service's identity shape.
type IdentityCasdoor struct {
	client *casdoorsdk.Client
	config CasdoorConfig
}

func NewIdentityCasdoor(config CasdoorConfig) repositories.IdentityProvider {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return &IdentityCasdoor{
		client: client,
		config: config,
	}
}

// SigninURL builds the provider login URL the client is redirected to.
func (p *IdentityCasdoor) SigninURL(state string) string {
	url := p.client.GetSigninUrl(p.config.RedirectURL)
	if state != "" {
		url = fmt.Sprintf("%s&state=%s", url, state)
	}
	return url
}

// VerifyCode exchanges the authorization code for a token, parses the
// provider's claims and returns the verified identity. The call is pure
// verification; directory writes happen in the service layer.
func (p *IdentityCasdoor) VerifyCode(ctx context.Context, code, state string) (*repositories.Identity, error) {
	token, err := p.client.GetOAuthToken(code, state)
	if err != nil {
		return nil, &repositories.AuthProviderError{Op: "token exchange", Err: err}
	}

	claims, err := p.client.ParseJwtToken(token.AccessToken)
	if err != nil {
		return nil, &repositories.AuthProviderError{Op: "token parse", Err: err}
	}

	if claims.User.Email == "" {
		return nil, &repositories.AuthProviderError{Op: "claims", Err: fmt.Errorf("identity has no email")}
	}

	return &repositories.Identity{
		ExternalID: claims.User.Id,
		Email:      claims.User.Email,
		Name:       claims.User.DisplayName,
		AvatarURL:  claims.User.Avatar,
	}, nil
}
