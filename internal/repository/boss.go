package repository

import (
	"context"
	"errors"

	"github.com/chore-quest/backend/internal/entity"
	"github.com/chore-quest/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type BossRepository interface {
	Create(ctx context.Context, data *entity.Boss) error
	GetByID(ctx context.Context, id string) (*entity.Boss, error)
	GetListByUserID(ctx context.Context, userID string) ([]entity.Boss, error)
	GetAliveByUserID(ctx context.Context, userID string) ([]entity.Boss, error)
	ApplyDamage(ctx context.Context, id string, damage int) error
	MarkDefeated(ctx context.Context, id string) error
}

type bossRepository struct{}

func NewBossRepository() *bossRepository {
	return &bossRepository{}
}

// Create inserts the boss together with its chores in one statement.
func (r *bossRepository) Create(ctx context.Context, data *entity.Boss) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *bossRepository) GetByID(ctx context.Context, id string) (*entity.Boss, error) {
	var record entity.Boss
	err := xcontext.DB(ctx).
		Preload("Chores", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id=?", id).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *bossRepository) GetListByUserID(ctx context.Context, userID string) ([]entity.Boss, error) {
	var records []entity.Boss
	err := xcontext.DB(ctx).
		Preload("Chores", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *bossRepository) GetAliveByUserID(ctx context.Context, userID string) ([]entity.Boss, error) {
	var records []entity.Boss
	err := xcontext.DB(ctx).
		Preload("Chores", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id=? AND status=?", userID, entity.BossAlive).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

// ApplyDamage decreases the boss health, clamping at zero. The guard on
// status keeps defeated bosses from taking further damage.
func (r *bossRepository) ApplyDamage(ctx context.Context, id string, damage int) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Boss{}).
		Where("id=? AND status=?", id, entity.BossAlive).
		Update("current_health", gorm.Expr(
			"CASE WHEN current_health > ? THEN current_health - ? ELSE 0 END",
			damage, damage,
		))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	return nil
}

func (r *bossRepository) MarkDefeated(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Boss{}).
		Where("id=? AND status=?", id, entity.BossAlive).
		Updates(map[string]any{
			"status":         entity.BossDefeated,
			"current_health": 0,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
