package repository

import (
	"context"

	"github.com/chore-quest/backend/internal/entity"
	"github.com/chore-quest/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ChoreRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Chore, error)
	MarkCompleted(ctx context.Context, id string) error
}

type choreRepository struct{}

func NewChoreRepository() *choreRepository {
	return &choreRepository{}
}

func (r *choreRepository) GetByID(ctx context.Context, id string) (*entity.Chore, error) {
	var record entity.Chore
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

// MarkCompleted flips the chore exactly once. The completed=false guard
// makes a second call report ErrRecordNotFound, so a chore can never pay
// out twice.
func (r *choreRepository) MarkCompleted(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Chore{}).
		Where("id=? AND completed=false", id).
		Update("completed", true)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
