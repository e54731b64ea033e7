package migration

import (
	"context"

	"github.com/chore-quest/backend/internal/entity"
	"github.com/chore-quest/backend/pkg/xcontext"
)

// AutoMigrate owns the full schema. When this migrator is called, no other
// migrator is needed.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.Boss{},
		&entity.Chore{},
		&entity.FriendRequest{},
		&entity.Friendship{},
		&entity.DailyActivity{},
		&entity.BossGeneration{},
		&entity.RefreshToken{},
	)
}
