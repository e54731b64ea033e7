package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/chore-quest/backend/pkg/xcontext"
)

// WithAuthentication resolves the access token of the request, if any, and
// stores the authenticated user id into the context. A request without a
// token passes through unauthenticated; Authenticate rejects it later if the
// endpoint requires a user.
func WithAuthentication() func(ctx context.Context) (context.Context, error) {
	return func(ctx context.Context) (context.Context, error) {
		token := extractToken(ctx)
		if token == "" {
			return ctx, nil
		}

		accessToken, err := xcontext.TokenEngine(ctx).Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Failed to verify access token: %v", err)
			return ctx, nil
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}

func extractToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)

	if authorization := req.Header.Get("Authorization"); authorization != "" {
		if strings.HasPrefix(authorization, "Bearer ") {
			return strings.TrimPrefix(authorization, "Bearer ")
		}
	}

	if cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name); err == nil {
		return cookie.Value
	}

	// Browser clients authenticated through the session cookie saved by
	// HandleSaveSession.
	session, err := xcontext.SessionStore(ctx).Get(req, xcontext.Configs(ctx).Session.Name)
	if err != nil {
		return ""
	}

	if token, ok := session.Values["access_token"].(string); ok {
		return token
	}

	return ""
}

// TokenFromRequest resolves the user id of a raw request outside the router
// chain, e.g. for websocket upgrades.
func TokenFromRequest(ctx context.Context, r *http.Request) string {
	ctx = xcontext.WithHTTPRequest(ctx, r)

	token := extractToken(ctx)
	if token == "" {
		return ""
	}

	accessToken, err := xcontext.TokenEngine(ctx).Verify(token)
	if err != nil {
		return ""
	}

	return accessToken.ID
}
