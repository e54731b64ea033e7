package testutil

import (
	"context"
	"errors"

	"github.com/chore-quest/backend/pkg/authenticator"
)

type MockOAuth2Service struct {
	Name              string
	VerifyIDTokenFunc func(ctx context.Context, rawIDToken string) (authenticator.OAuth2User, error)
}

func (m *MockOAuth2Service) Service() string {
	return m.Name
}

func (m *MockOAuth2Service) VerifyIDToken(
	ctx context.Context, rawIDToken string,
) (authenticator.OAuth2User, error) {
	if m.VerifyIDTokenFunc != nil {
		return m.VerifyIDTokenFunc(ctx, rawIDToken)
	}

	return authenticator.OAuth2User{}, errors.New("invalid id token")
}
