package repository

import (
	"context"
	"errors"

	"github.com/chore-quest/backend/internal/entity"
	"github.com/chore-quest/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByServiceUserID(ctx context.Context, serviceUserID string) (*entity.User, error)
	SearchByName(ctx context.Context, q string, limit int) ([]entity.User, error)
	UpdateByID(ctx context.Context, id string, data *entity.User) error
	ApplyProgress(ctx context.Context, prev, next *entity.User) error
	IncreaseBossesDefeated(ctx context.Context, id string) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

// GetByIDForUpdate reads the user under a row lock, so concurrent grants
// against the same hero serialize inside their transactions. Engines that
// ignore the locking clause still end up correct because ApplyProgress
// guards on the state read here.
func (r *userRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	var record entity.User
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id=?", id).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var records []entity.User
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *userRepository) GetByName(ctx context.Context, name string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("name=?", name).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("email=?", email).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByServiceUserID(ctx context.Context, serviceUserID string) (*entity.User, error) {
	var record entity.User
	err := xcontext.DB(ctx).Where("service_user_id=?", serviceUserID).Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) SearchByName(ctx context.Context, q string, limit int) ([]entity.User, error) {
	var records []entity.User
	err := xcontext.DB(ctx).
		Where("name LIKE ?", q+"%").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *userRepository) UpdateByID(ctx context.Context, id string, data *entity.User) error {
	updateMap := map[string]any{}
	if data.Name != "" {
		updateMap["name"] = data.Name
		updateMap["is_new_user"] = false
	}

	if data.Avatar != "" {
		updateMap["avatar"] = data.Avatar
	}

	if len(updateMap) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(updateMap).Error
}

// ApplyProgress persists the progression fields resolved by the leveling
// loop, guarded by the state the loop started from. When another grant
// committed in between, the guard matches no row and ErrRecordNotFound is
// returned so the caller can re-read and resolve again.
func (r *userRepository) ApplyProgress(ctx context.Context, prev, next *entity.User) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=? AND level=? AND current_xp=?", prev.ID, prev.Level, prev.CurrentXP).
		Updates(map[string]any{
			"level":            next.Level,
			"current_xp":       next.CurrentXP,
			"xp_to_next_level": next.XPToNextLevel,
		})

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

func (r *userRepository) IncreaseBossesDefeated(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Update("bosses_defeated", gorm.Expr("bosses_defeated+1"))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
