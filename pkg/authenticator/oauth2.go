package authenticator

import (
	"context"
	"fmt"

	"github.com/chore-quest/backend/config"
	"github.com/coreos/go-oidc/v3/oidc"
)

type OAuth2User struct {
	ID      string
	Name    string
	Email   string
	Picture string
}

type IOAuth2Service interface {
	Service() string
	VerifyIDToken(ctx context.Context, rawIDToken string) (OAuth2User, error)
}

type oauth2Service struct {
	name     string
	clientID string
	verifier *oidc.IDTokenVerifier
}

// NewOAuth2Service connects to the issuer's discovery endpoint. It returns an
// error instead of panicking so the caller can run without a configured
// provider (e.g. in tests).
func NewOAuth2Service(ctx context.Context, name string, cfg config.OAuth2Configs) (IOAuth2Service, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to issuer %s: %w", cfg.Issuer, err)
	}

	return &oauth2Service{
		name:     name,
		clientID: cfg.ClientID,
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func (s *oauth2Service) Service() string {
	return s.name
}

func (s *oauth2Service) VerifyIDToken(ctx context.Context, rawIDToken string) (OAuth2User, error) {
	idToken, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return OAuth2User{}, err
	}

	var claims struct {
		Sub     string `json:"sub"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return OAuth2User{}, err
	}

	if claims.Sub == "" {
		return OAuth2User{}, fmt.Errorf("invalid id token of %s", s.name)
	}

	return OAuth2User{
		ID:      fmt.Sprintf("%s_%s", s.name, claims.Sub),
		Name:    claims.Name,
		Email:   claims.Email,
		Picture: claims.Picture,
	}, nil
}
