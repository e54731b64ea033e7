package domain

import (
	"context"
	"testing"

	"github.com/chore-quest/backend/internal/model"
	"github.com/chore-quest/backend/internal/repository"
	"github.com/chore-quest/backend/pkg/authenticator"
	"github.com/chore-quest/backend/pkg/errorx"
	"github.com/chore-quest/backend/pkg/testutil"
	"github.com/chore-quest/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newAuthDomain(ctx context.Context, oauth2Services ...authenticator.IOAuth2Service) *authDomain {
	refreshEngine := authenticator.NewTokenEngine[model.RefreshToken](
		xcontext.Configs(ctx).Auth.RefreshToken)

	return NewAuthDomain(
		repository.NewUserRepository(),
		repository.NewRefreshTokenRepository(),
		refreshEngine,
		oauth2Services,
	)
}

func Test_authDomain_Register_and_Login(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain := newAuthDomain(ctx)

	resp, err := authDomain.Register(ctx, &model.RegisterRequest{
		Email:    "carol@example.com",
		Password: "super-secret",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.True(t, resp.User.IsNewUser)
	require.Equal(t, 1, resp.User.Level)
	require.Equal(t, 100, resp.User.XPToNextLevel)

	// A duplicated email is rejected.
	_, err = authDomain.Register(ctx, &model.RegisterRequest{
		Email:    "carol@example.com",
		Password: "another-secret",
	})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	loginResp, err := authDomain.Login(ctx, &model.LoginRequest{
		Email:    "carol@example.com",
		Password: "super-secret",
	})
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, loginResp.User.ID)

	_, err = authDomain.Login(ctx, &model.LoginRequest{
		Email:    "carol@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	require.Equal(t, errorx.Unauthenticated, err.(errorx.Error).Code)
}

func Test_authDomain_Register_invalid(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain := newAuthDomain(ctx)

	_, err := authDomain.Register(ctx, &model.RegisterRequest{
		Email:    "not-an-email",
		Password: "super-secret",
	})
	require.Error(t, err)

	_, err = authDomain.Register(ctx, &model.RegisterRequest{
		Email:    "dave@example.com",
		Password: "short",
	})
	require.Error(t, err)
}

func Test_authDomain_Refresh_rotation(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain := newAuthDomain(ctx)

	registerResp, err := authDomain.Register(ctx, &model.RegisterRequest{
		Email:    "erin@example.com",
		Password: "super-secret",
	})
	require.NoError(t, err)

	refreshResp, err := authDomain.Refresh(ctx, &model.RefreshTokenRequest{
		RefreshToken: registerResp.RefreshToken,
	})
	require.NoError(t, err)
	require.NotEmpty(t, refreshResp.AccessToken)
	require.NotEmpty(t, refreshResp.RefreshToken)

	// Replaying the consumed token revokes the whole family.
	_, err = authDomain.Refresh(ctx, &model.RefreshTokenRequest{
		RefreshToken: registerResp.RefreshToken,
	})
	require.Error(t, err)
	require.Equal(t, errorx.StolenDetected, err.(errorx.Error).Code)

	// Even the legitimate rotated token is dead now.
	_, err = authDomain.Refresh(ctx, &model.RefreshTokenRequest{
		RefreshToken: refreshResp.RefreshToken,
	})
	require.Error(t, err)
}

func Test_authDomain_OAuth2Verify(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain := newAuthDomain(ctx, &testutil.MockOAuth2Service{
		Name: "google",
		VerifyIDTokenFunc: func(ctx context.Context, rawIDToken string) (authenticator.OAuth2User, error) {
			return authenticator.OAuth2User{
				ID:      "google_12345",
				Name:    "Frank",
				Email:   "frank@example.com",
				Picture: "https://example.com/frank.png",
			}, nil
		},
	})

	resp, err := authDomain.OAuth2Verify(ctx, &model.OAuth2VerifyRequest{
		Type:    "google",
		IDToken: "valid-token",
	})
	require.NoError(t, err)
	require.True(t, resp.User.IsNewUser)
	require.Equal(t, "frank@example.com", resp.User.Email)

	// A second verification signs in the same user.
	again, err := authDomain.OAuth2Verify(ctx, &model.OAuth2VerifyRequest{
		Type:    "google",
		IDToken: "valid-token",
	})
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, again.User.ID)

	// An unknown service type is rejected.
	_, err = authDomain.OAuth2Verify(ctx, &model.OAuth2VerifyRequest{
		Type:    "github",
		IDToken: "valid-token",
	})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}
