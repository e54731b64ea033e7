package middleware

import (
	"context"

	"github.com/chore-quest/backend/internal/repository"
	"github.com/chore-quest/backend/pkg/errorx"
	"github.com/chore-quest/backend/pkg/router"
	"github.com/chore-quest/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
)

// MustUpdateUsername blocks a hero who hasn't finished the setup flow from
// every endpoint except the excluded ones.
func MustUpdateUsername(userRepo repository.UserRepository, excludes ...string) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		requestUserID := xcontext.RequestUserID(ctx)
		if requestUserID == "" {
			return ctx, nil
		}

		if slices.Contains(excludes, xcontext.HTTPRequest(ctx).URL.Path) {
			return ctx, nil
		}

		user, err := userRepo.GetByID(ctx, requestUserID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return nil, errorx.Unknown
		}

		if user.IsNewUser {
			return nil, errorx.New(errorx.MustSetupHero,
				"You must set up your hero before using the application")
		}

		return ctx, nil
	}
}
