package middleware

import (
	"context"

	"github.com/chore-quest/backend/pkg/errorx"
	"github.com/chore-quest/backend/pkg/router"
	"github.com/chore-quest/backend/pkg/xcontext"
)

// SessionResponse is implemented by responses whose fields must survive into
// the session cookie, e.g. auth responses carrying a fresh access token.
type SessionResponse interface {
	SessionInfo() map[string]any
}

func HandleSaveSession() router.AfterFunc {
	return func(ctx context.Context, resp any) error {
		sessionResp, ok := resp.(SessionResponse)
		if !ok {
			return nil
		}

		r := xcontext.HTTPRequest(ctx)
		session, err := xcontext.SessionStore(ctx).Get(r, xcontext.Configs(ctx).Session.Name)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get session: %v", err)
			return errorx.Unknown
		}

		for k, v := range sessionResp.SessionInfo() {
			session.Values[k] = v
		}

		if err := session.Save(r, xcontext.HTTPWriter(ctx)); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot save session: %v", err)
			return errorx.Unknown
		}

		return nil
	}
}
