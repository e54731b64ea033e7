package domain

import (
	"context"
	"time"

	"github.com/chore-quest/backend/internal/domain/statistic"
	"github.com/chore-quest/backend/internal/entity"
	"github.com/chore-quest/backend/internal/model"
	"github.com/chore-quest/backend/internal/repository"
	"github.com/chore-quest/backend/pkg/errorx"
	"github.com/chore-quest/backend/pkg/xcontext"
)

const defaultLeaderboardLimit = 10

type StatisticDomain interface {
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
}

type statisticDomain struct {
	leaderboard statistic.Leaderboard
	userRepo    repository.UserRepository
}

func NewStatisticDomain(
	leaderboard statistic.Leaderboard,
	userRepo repository.UserRepository,
) *statisticDomain {
	return &statisticDomain{leaderboard: leaderboard, userRepo: userRepo}
}

func (d *statisticDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	limit := req.Limit
	if limit == 0 {
		limit = defaultLeaderboardLimit
	}

	if limit < 0 || limit > 50 {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit %d", limit)
	}

	entries, err := d.leaderboard.GetWeeklyXP(ctx, time.Now(), 0, limit)
	if err != nil {
		return nil, err
	}

	userIDs := []string{}
	for _, e := range entries {
		userIDs = append(userIDs, e.User.ID)
	}

	users, err := d.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get leaderboard users: %v", err)
		return nil, errorx.Unknown
	}

	userMap := map[string]*entity.User{}
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	for i := range entries {
		entries[i].User = model.ConvertUser(userMap[entries[i].User.ID], false)
	}

	resp := &model.GetLeaderboardResponse{Entries: entries}

	// A requester outside the sorted set is simply unranked this week.
	if myRank, err := d.leaderboard.GetRank(ctx, xcontext.RequestUserID(ctx), time.Now()); err == nil {
		resp.MyRank = int(myRank)
	}

	return resp, nil
}
