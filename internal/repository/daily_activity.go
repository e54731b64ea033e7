package repository

import (
	"context"
	"time"

	"github.com/chore-quest/backend/internal/entity"
	"github.com/chore-quest/backend/pkg/dateutil"
	"github.com/chore-quest/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserXP struct {
	UserID string
	XP     int
}

type DailyActivityRepository interface {
	IncreaseXP(ctx context.Context, userID string, at time.Time, xp int) error
	GetByUserAndDay(ctx context.Context, userID, day string) (*entity.DailyActivity, error)
	GetListByUserID(ctx context.Context, userID string, since time.Time) ([]entity.DailyActivity, error)
	GetTotalsSince(ctx context.Context, since time.Time) ([]UserXP, error)
}

type dailyActivityRepository struct{}

func NewDailyActivityRepository() *dailyActivityRepository {
	return &dailyActivityRepository{}
}

// IncreaseXP adds xp to the ledger row of the UTC day containing at,
// creating the row on first write of the day.
func (r *dailyActivityRepository) IncreaseXP(
	ctx context.Context, userID string, at time.Time, xp int,
) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]any{
				"xp":         gorm.Expr("xp + ?", xp),
				"updated_at": time.Now(),
			}),
		}).
		Create(&entity.DailyActivity{
			UserID: userID,
			Day:    dateutil.DayKey(at),
			Date:   dateutil.StartOfDay(at),
			XP:     xp,
		}).Error
}

func (r *dailyActivityRepository) GetByUserAndDay(
	ctx context.Context, userID, day string,
) (*entity.DailyActivity, error) {
	var record entity.DailyActivity
	err := xcontext.DB(ctx).
		Where("user_id=? AND day=?", userID, day).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// GetTotalsSince sums earned XP per user from since onwards. It backs the
// leaderboard when the redis key has expired or was never built.
func (r *dailyActivityRepository) GetTotalsSince(ctx context.Context, since time.Time) ([]UserXP, error) {
	var records []UserXP
	err := xcontext.DB(ctx).
		Model(&entity.DailyActivity{}).
		Select("user_id, SUM(xp) as xp").
		Where("date >= ?", dateutil.StartOfDay(since)).
		Group("user_id").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *dailyActivityRepository) GetListByUserID(
	ctx context.Context, userID string, since time.Time,
) ([]entity.DailyActivity, error) {
	var records []entity.DailyActivity
	err := xcontext.DB(ctx).
		Where("user_id=? AND date >= ?", userID, dateutil.StartOfDay(since)).
		Order("day ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}
