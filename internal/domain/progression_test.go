package domain

import (
	"context"
	"testing"
	"time"

	"github.com/chore-quest/backend/internal/entity"
	"github.com/chore-quest/backend/internal/repository"
	"github.com/chore-quest/backend/pkg/dateutil"
	"github.com/chore-quest/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_progressionEngine_GrantXP(t *testing.T) {
	ctx := testutil.MockContext()
	engine := NewProgressionEngine(
		repository.NewUserRepository(), repository.NewDailyActivityRepository())

	// A grant of zero changes nothing.
	result, err := engine.GrantXP(ctx, "user1", 0)
	require.NoError(t, err)
	require.False(t, result.LeveledUp)
	require.Equal(t, 1, result.User.Level)
	require.Equal(t, 0, result.User.CurrentXP)
	require.Equal(t, 100, result.User.XPToNextLevel)

	// A grant below the threshold only accumulates.
	result, err = engine.GrantXP(ctx, "user1", 30)
	require.NoError(t, err)
	require.False(t, result.LeveledUp)
	require.Equal(t, 1, result.User.Level)
	require.Equal(t, 30, result.User.CurrentXP)

	// A large grant carries overflow across multiple level-ups. From 30/100,
	// granting 220 reaches exactly 100 then 150, landing on level 3 with the
	// next threshold at floor(150*1.5)=225.
	result, err = engine.GrantXP(ctx, "user1", 220)
	require.NoError(t, err)
	require.True(t, result.LeveledUp)
	require.Equal(t, 3, result.User.Level)
	require.Equal(t, 0, result.User.CurrentXP)
	require.Equal(t, 225, result.User.XPToNextLevel)

	// The invariant holds after every grant.
	require.GreaterOrEqual(t, result.User.CurrentXP, 0)
	require.Less(t, result.User.CurrentXP, result.User.XPToNextLevel)
}

func Test_progressionEngine_GrantXP_negative(t *testing.T) {
	ctx := testutil.MockContext()
	engine := NewProgressionEngine(
		repository.NewUserRepository(), repository.NewDailyActivityRepository())

	// A negative grant is a no-op, not an error.
	result, err := engine.GrantXP(ctx, "user1", -10)
	require.NoError(t, err)
	require.False(t, result.LeveledUp)
	require.Equal(t, 1, result.User.Level)
	require.Equal(t, 0, result.User.CurrentXP)
}

func Test_progressionEngine_GrantXP_notFoundUser(t *testing.T) {
	ctx := testutil.MockContext()
	engine := NewProgressionEngine(
		repository.NewUserRepository(), repository.NewDailyActivityRepository())

	_, err := engine.GrantXP(ctx, "invalid-user", 10)
	require.Error(t, err)
	require.Equal(t, "Not found user", err.Error())
}

// racingUserRepository triggers a competing grant right after the first
// read, so the caller's first write runs against a row another grant has
// already moved.
type racingUserRepository struct {
	repository.UserRepository
	competitor *ProgressionEngine
	raced      bool
}

func (r *racingUserRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	user, err := r.UserRepository.GetByIDForUpdate(ctx, id)
	if err != nil || r.raced {
		return user, err
	}

	r.raced = true
	if _, err := r.competitor.GrantXP(ctx, id, 50); err != nil {
		return nil, err
	}

	return user, nil
}

func Test_progressionEngine_GrantXP_interleaved(t *testing.T) {
	ctx := testutil.MockContext()
	userRepo := repository.NewUserRepository()
	dailyActivityRepo := repository.NewDailyActivityRepository()

	racing := &racingUserRepository{
		UserRepository: userRepo,
		competitor:     NewProgressionEngine(userRepo, dailyActivityRepo),
	}
	engine := NewProgressionEngine(racing, dailyActivityRepo)

	// Two grants of 50 land on user1, the second resolved from a read that
	// went stale before the write. Both must count: 100 XP crosses the
	// level-1 threshold exactly, a lost update would leave the hero at 50.
	result, err := engine.GrantXP(ctx, "user1", 50)
	require.NoError(t, err)
	require.True(t, racing.raced)
	require.True(t, result.LeveledUp)
	require.Equal(t, 2, result.User.Level)
	require.Equal(t, 0, result.User.CurrentXP)
	require.Equal(t, 150, result.User.XPToNextLevel)

	// Both grants also reach the daily ledger.
	activity, err := dailyActivityRepo.GetByUserAndDay(ctx, "user1", dateutil.DayKey(time.Now()))
	require.NoError(t, err)
	require.Equal(t, 100, activity.XP)

	// A write guarded by state that no longer matches touches no row.
	stale := &entity.User{Base: entity.Base{ID: "user1"}, Level: 1, CurrentXP: 0}
	err = userRepo.ApplyProgress(ctx, stale, stale)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_progressionEngine_GrantXP_dailyLedger(t *testing.T) {
	ctx := testutil.MockContext()
	dailyActivityRepo := repository.NewDailyActivityRepository()
	engine := NewProgressionEngine(repository.NewUserRepository(), dailyActivityRepo)

	_, err := engine.GrantXP(ctx, "user1", 40)
	require.NoError(t, err)

	// Two grants within the same day accumulate into one ledger row.
	_, err = engine.GrantXP(ctx, "user1", 25)
	require.NoError(t, err)

	today := dateutil.DayKey(time.Now())
	activity, err := dailyActivityRepo.GetByUserAndDay(ctx, "user1", today)
	require.NoError(t, err)
	require.Equal(t, 65, activity.XP)
}
