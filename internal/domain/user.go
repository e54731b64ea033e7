package domain

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/chore-quest/backend/internal/entity"
	"github.com/chore-quest/backend/internal/model"
	"github.com/chore-quest/backend/internal/repository"
	"github.com/chore-quest/backend/pkg/dateutil"
	"github.com/chore-quest/backend/pkg/errorx"
	"github.com/chore-quest/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	maxSearchResults   = 10
	weeklyActivityDays = 7
)

var heroNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

type UserDomain interface {
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	Update(context.Context, *model.UpdateUserRequest) (*model.UpdateUserResponse, error)
	Search(context.Context, *model.SearchUserRequest) (*model.SearchUserResponse, error)
	GetWeeklyActivity(context.Context, *model.GetWeeklyActivityRequest) (*model.GetWeeklyActivityResponse, error)
}

type userDomain struct {
	userRepo          repository.UserRepository
	friendshipRepo    repository.FriendshipRepository
	dailyActivityRepo repository.DailyActivityRepository
}

func NewUserDomain(
	userRepo repository.UserRepository,
	friendshipRepo repository.FriendshipRepository,
	dailyActivityRepo repository.DailyActivityRepository,
) *userDomain {
	return &userDomain{
		userRepo:          userRepo,
		friendshipRepo:    friendshipRepo,
		dailyActivityRepo: dailyActivityRepo,
	}
}

func (d *userDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetMeResponse(model.ConvertUser(user, true))
	return &resp, nil
}

// Update renames the hero. The first successful rename finishes the setup
// flow and clears is_new_user.
func (d *userDomain) Update(
	ctx context.Context, req *model.UpdateUserRequest,
) (*model.UpdateUserResponse, error) {
	if !heroNameRegex.MatchString(req.Name) {
		return nil, errorx.New(errorx.BadRequest,
			"Hero name must be 3-20 characters of letters, digits or underscores")
	}

	requestUserID := xcontext.RequestUserID(ctx)
	if existing, err := d.userRepo.GetByName(ctx, req.Name); err == nil {
		if existing.ID == requestUserID {
			resp := model.UpdateUserResponse{User: model.ConvertUser(existing, true)}
			return &resp, nil
		}

		return nil, errorx.New(errorx.AlreadyExists, "This hero name is already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check hero name: %v", err)
		return nil, errorx.Unknown
	}

	err := d.userRepo.UpdateByID(ctx, requestUserID, &entity.User{Name: req.Name})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update user: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, requestUserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateUserResponse{User: model.ConvertUser(user, true)}, nil
}

func (d *userDomain) Search(
	ctx context.Context, req *model.SearchUserRequest,
) (*model.SearchUserResponse, error) {
	if len(req.Query) < 2 {
		return nil, errorx.New(errorx.BadRequest, "Search query is too short")
	}

	users, err := d.userRepo.SearchByName(ctx, req.Query, maxSearchResults)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot search users: %v", err)
		return nil, errorx.Unknown
	}

	requestUserID := xcontext.RequestUserID(ctx)
	clientUsers := []model.User{}
	for i := range users {
		if users[i].ID == requestUserID {
			continue
		}

		clientUsers = append(clientUsers, model.ConvertUser(&users[i], false))
	}

	return &model.SearchUserResponse{Users: clientUsers}, nil
}

// GetWeeklyActivity returns the hero's XP ledger of the last seven days,
// oldest first, with missing days zero-filled.
func (d *userDomain) GetWeeklyActivity(
	ctx context.Context, req *model.GetWeeklyActivityRequest,
) (*model.GetWeeklyActivityResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	targetUserID := req.UserID
	if targetUserID == "" {
		targetUserID = requestUserID
	}

	if targetUserID != requestUserID {
		isFriend, err := d.friendshipRepo.IsFriend(ctx, requestUserID, targetUserID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot check friendship: %v", err)
			return nil, errorx.Unknown
		}

		if !isFriend {
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}
	}

	now := time.Now()
	since := dateutil.LastNDays(now, weeklyActivityDays)
	activities, err := d.dailyActivityRepo.GetListByUserID(ctx, targetUserID, since)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get daily activities: %v", err)
		return nil, errorx.Unknown
	}

	byDay := map[string]int{}
	for _, a := range activities {
		byDay[a.Day] = a.XP
	}

	clientActivities := []model.DailyActivity{}
	for i := 0; i < weeklyActivityDays; i++ {
		day := dateutil.DayKey(since.AddDate(0, 0, i))
		clientActivities = append(clientActivities, model.DailyActivity{
			Day: day,
			XP:  byDay[day],
		})
	}

	return &model.GetWeeklyActivityResponse{Activities: clientActivities}, nil
}
