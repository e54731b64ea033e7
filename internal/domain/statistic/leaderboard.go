package statistic

import (
	"context"
	"errors"
	"time"

	"github.com/chore-quest/backend/internal/model"
	"github.com/chore-quest/backend/internal/repository"
	"github.com/chore-quest/backend/pkg/dateutil"
	"github.com/chore-quest/backend/pkg/errorx"
	"github.com/chore-quest/backend/pkg/xcontext"
	"github.com/chore-quest/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
)

type Leaderboard interface {
	GetWeeklyXP(ctx context.Context, at time.Time, offset, limit int) ([]model.LeaderboardEntry, error)
	GetRank(ctx context.Context, userID string, at time.Time) (uint64, error)
	ChangeXP(ctx context.Context, userID string, at time.Time, value int64) error
}

type leaderboard struct {
	dailyActivityRepo repository.DailyActivityRepository
	redisClient       xredis.Client
}

func New(
	dailyActivityRepo repository.DailyActivityRepository,
	redisClient xredis.Client,
) *leaderboard {
	return &leaderboard{dailyActivityRepo: dailyActivityRepo, redisClient: redisClient}
}

func (l *leaderboard) GetWeeklyXP(
	ctx context.Context, at time.Time, offset, limit int,
) ([]model.LeaderboardEntry, error) {
	key := redisKeyWeeklyXP(at)

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return nil, errorx.Unknown
	}

	// If the key didn't exist in redis, load it from database.
	if !ok {
		if err := l.loadFromDB(ctx, at); err != nil {
			return nil, err
		}
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, key, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	entries := []model.LeaderboardEntry{}
	for i, z := range results {
		entries = append(entries, model.LeaderboardEntry{
			User: model.User{ID: z.Member.(string)},
			XP:   int(z.Score),
			Rank: offset + i + 1,
		})
	}

	return entries, nil
}

func (l *leaderboard) GetRank(ctx context.Context, userID string, at time.Time) (uint64, error) {
	key := redisKeyWeeklyXP(at)

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return 0, errorx.Unknown
	}

	if !ok {
		if err := l.loadFromDB(ctx, at); err != nil {
			return 0, err
		}
	}

	rank, err := l.redisClient.ZRevRank(ctx, key, userID)
	if err != nil {
		// A member outside the sorted set has no rank this week.
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get revrank redis: %v", err)
		return 0, errorx.Unknown
	}

	return rank + 1, nil
}

func (l *leaderboard) ChangeXP(ctx context.Context, userID string, at time.Time, value int64) error {
	key := redisKeyWeeklyXP(at)

	// Only bump an existing sorted set. A missing key is rebuilt from the
	// database on the next read, which already includes this grant.
	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		return err
	}

	if !ok {
		return nil
	}

	return l.redisClient.ZIncrBy(ctx, key, value, userID)
}

func (l *leaderboard) loadFromDB(ctx context.Context, at time.Time) error {
	totals, err := l.dailyActivityRepo.GetTotalsSince(ctx, dateutil.CurrentWeek(at))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load weekly totals: %v", err)
		return errorx.Unknown
	}

	key := redisKeyWeeklyXP(at)
	for _, t := range totals {
		if err := l.redisClient.ZIncrBy(ctx, key, int64(t.XP), t.UserID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot build leaderboard key: %v", err)
			return errorx.Unknown
		}
	}

	return nil
}
