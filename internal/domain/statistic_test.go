package domain

import (
	"context"
	"testing"
	"time"

	"github.com/chore-quest/backend/internal/domain/statistic"
	"github.com/chore-quest/backend/internal/model"
	"github.com/chore-quest/backend/internal/repository"
	"github.com/chore-quest/backend/pkg/errorx"
	"github.com/chore-quest/backend/pkg/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func Test_statisticDomain_GetLeaderboard(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")

	userRepo := repository.NewUserRepository()
	dailyActivityRepo := repository.NewDailyActivityRepository()
	engine := NewProgressionEngine(userRepo, dailyActivityRepo)

	_, err := engine.GrantXP(ctx, "user1", 30)
	require.NoError(t, err)
	_, err = engine.GrantXP(ctx, "user2", 80)
	require.NoError(t, err)

	scores := map[string]int64{}
	leaderboard := statistic.New(dailyActivityRepo, &testutil.MockRedisClient{
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			return len(scores) > 0, nil
		},
		ZIncrByFunc: func(ctx context.Context, key string, incr int64, member string) error {
			scores[member] += incr
			return nil
		},
		ZRevRangeWithScoresFunc: func(ctx context.Context, key string, offset, limit int) ([]redis.Z, error) {
			zs := []redis.Z{}
			for _, id := range []string{"user2", "user1"} {
				if score, ok := scores[id]; ok {
					zs = append(zs, redis.Z{Member: id, Score: float64(score)})
				}
			}

			return zs, nil
		},
		ZRevRankFunc: func(ctx context.Context, key string, member string) (uint64, error) {
			rank := uint64(0)
			for id, score := range scores {
				if id != member && score > scores[member] {
					rank++
				}
			}

			return rank, nil
		},
	})
	statisticDomain := NewStatisticDomain(leaderboard, userRepo)

	resp, err := statisticDomain.GetLeaderboard(ctx, &model.GetLeaderboardRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)

	// Entries carry full user profiles without emails.
	require.Equal(t, "bob_the_bold", resp.Entries[0].User.Name)
	require.Equal(t, 80, resp.Entries[0].XP)
	require.Equal(t, 1, resp.Entries[0].Rank)
	require.Empty(t, resp.Entries[0].User.Email)
	require.Equal(t, "alice_the_brave", resp.Entries[1].User.Name)
	require.Equal(t, 2, resp.Entries[1].Rank)

	// The requester (user1) sees their own rank.
	require.Equal(t, 2, resp.MyRank)

	_, err = statisticDomain.GetLeaderboard(ctx, &model.GetLeaderboardRequest{Limit: 99})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func Test_leaderboard_rebuild_includes_recent_grants(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")

	userRepo := repository.NewUserRepository()
	dailyActivityRepo := repository.NewDailyActivityRepository()
	engine := NewProgressionEngine(userRepo, dailyActivityRepo)

	_, err := engine.GrantXP(ctx, "user1", 25)
	require.NoError(t, err)

	scores := map[string]int64{}
	leaderboard := statistic.New(dailyActivityRepo, &testutil.MockRedisClient{
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			return len(scores) > 0, nil
		},
		ZIncrByFunc: func(ctx context.Context, key string, incr int64, member string) error {
			scores[member] += incr
			return nil
		},
		ZRevRangeWithScoresFunc: func(ctx context.Context, key string, offset, limit int) ([]redis.Z, error) {
			zs := []redis.Z{}
			for member, score := range scores {
				zs = append(zs, redis.Z{Member: member, Score: float64(score)})
			}

			return zs, nil
		},
	})

	// A bump before the key exists is dropped on purpose.
	require.NoError(t, leaderboard.ChangeXP(ctx, "user1", time.Now(), 25))
	require.Empty(t, scores)

	// The rebuild pulls the full total from the daily ledger.
	entries, err := leaderboard.GetWeeklyXP(ctx, time.Now(), 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 25, entries[0].XP)
}
