package repository

import (
	"context"

	"github.com/chore-quest/backend/internal/entity"
	"github.com/chore-quest/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type FriendRequestRepository interface {
	Create(ctx context.Context, data *entity.FriendRequest) error
	GetByID(ctx context.Context, id string) (*entity.FriendRequest, error)
	GetPendingByPair(ctx context.Context, fromID, toID string) (*entity.FriendRequest, error)
	GetPendingListByToID(ctx context.Context, toID string) ([]entity.FriendRequest, error)
	DeleteByID(ctx context.Context, id string) error
}

type friendRequestRepository struct{}

func NewFriendRequestRepository() *friendRequestRepository {
	return &friendRequestRepository{}
}

func (r *friendRequestRepository) Create(ctx context.Context, data *entity.FriendRequest) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *friendRequestRepository) GetByID(ctx context.Context, id string) (*entity.FriendRequest, error) {
	var record entity.FriendRequest
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

// GetPendingByPair finds a pending request in either direction between two
// users.
func (r *friendRequestRepository) GetPendingByPair(
	ctx context.Context, fromID, toID string,
) (*entity.FriendRequest, error) {
	var record entity.FriendRequest
	err := xcontext.DB(ctx).
		Where("status=?", entity.FriendRequestPending).
		Where(
			xcontext.DB(ctx).
				Where("from_id=? AND to_id=?", fromID, toID).
				Or("from_id=? AND to_id=?", toID, fromID),
		).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *friendRequestRepository) GetPendingListByToID(
	ctx context.Context, toID string,
) ([]entity.FriendRequest, error) {
	var records []entity.FriendRequest
	err := xcontext.DB(ctx).
		Where("to_id=? AND status=?", toID, entity.FriendRequestPending).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *friendRequestRepository) DeleteByID(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Where("id=?", id).Delete(&entity.FriendRequest{})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
