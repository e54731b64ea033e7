package domain

import (
	"context"
	"errors"
	"time"

	"github.com/chore-quest/backend/internal/entity"
	"github.com/chore-quest/backend/internal/repository"
	"github.com/chore-quest/backend/pkg/errorx"
	"github.com/chore-quest/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// GrantXPResult reports the state of the hero after an XP grant.
type GrantXPResult struct {
	User      *entity.User
	LeveledUp bool
}

// ProgressionEngine applies XP grants to heroes. It owns the leveling curve
// and the daily activity ledger. GrantXP runs on the caller's context, so a
// caller holding a transaction keeps the grant atomic with its own writes.
type ProgressionEngine struct {
	userRepo          repository.UserRepository
	dailyActivityRepo repository.DailyActivityRepository
}

func NewProgressionEngine(
	userRepo repository.UserRepository,
	dailyActivityRepo repository.DailyActivityRepository,
) *ProgressionEngine {
	return &ProgressionEngine{
		userRepo:          userRepo,
		dailyActivityRepo: dailyActivityRepo,
	}
}

// maxGrantAttempts bounds the re-resolve loop of GrantXP for the case where
// another grant wins the write race on every attempt.
const maxGrantAttempts = 5

// GrantXP adds xp to the user, carrying overflow across as many level-ups as
// the amount pays for. A non-positive amount changes nothing. The returned
// user always satisfies 0 <= current_xp < xp_to_next_level.
//
// The user row is read under an update lock and written back guarded by the
// state read, so two grants for the same hero never overwrite each other:
// the loser of the race re-reads and resolves again.
func (e *ProgressionEngine) GrantXP(ctx context.Context, userID string, xp int) (*GrantXPResult, error) {
	scaling := xcontext.Configs(ctx).Progression.LevelScalingFactor

	for attempt := 0; attempt < maxGrantAttempts; attempt++ {
		user, err := e.userRepo.GetByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found user")
			}

			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return nil, errorx.Unknown
		}

		if xp <= 0 {
			return &GrantXPResult{User: user}, nil
		}

		prev := *user

		leveledUp := false
		user.CurrentXP += xp
		for user.CurrentXP >= user.XPToNextLevel {
			user.CurrentXP -= user.XPToNextLevel
			user.Level++
			user.XPToNextLevel = int(float64(user.XPToNextLevel) * scaling)
			leveledUp = true
		}

		if err := e.userRepo.ApplyProgress(ctx, &prev, user); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Another grant committed between our read and write, start
				// over from the fresh state.
				continue
			}

			xcontext.Logger(ctx).Errorf("Cannot apply user progress: %v", err)
			return nil, errorx.Unknown
		}

		if err := e.dailyActivityRepo.IncreaseXP(ctx, user.ID, time.Now(), xp); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot record daily activity: %v", err)
			return nil, errorx.Unknown
		}

		return &GrantXPResult{User: user, LeveledUp: leveledUp}, nil
	}

	xcontext.Logger(ctx).Errorf("Cannot apply user progress after %d attempts", maxGrantAttempts)
	return nil, errorx.Unknown
}
