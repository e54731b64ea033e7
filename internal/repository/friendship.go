package repository

import (
	"context"

	"github.com/chore-quest/backend/internal/entity"
	"github.com/chore-quest/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type FriendshipRepository interface {
	Upsert(ctx context.Context, data *entity.Friendship) error
	GetListByUserID(ctx context.Context, userID string) ([]entity.Friendship, error)
	IsFriend(ctx context.Context, userID, friendID string) (bool, error)
	Delete(ctx context.Context, userID, friendID string) error
}

type friendshipRepository struct{}

func NewFriendshipRepository() *friendshipRepository {
	return &friendshipRepository{}
}

// Upsert inserts one directed edge. A duplicate is silently ignored, which
// makes accepting an already-accepted pair harmless.
func (r *friendshipRepository) Upsert(ctx context.Context, data *entity.Friendship) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data).Error
}

func (r *friendshipRepository) GetListByUserID(ctx context.Context, userID string) ([]entity.Friendship, error) {
	var records []entity.Friendship
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *friendshipRepository) IsFriend(ctx context.Context, userID, friendID string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.Friendship{}).
		Where("user_id=? AND friend_id=?", userID, friendID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Delete removes both directed edges of the pair.
func (r *friendshipRepository) Delete(ctx context.Context, userID, friendID string) error {
	return xcontext.DB(ctx).
		Where("(user_id=? AND friend_id=?) OR (user_id=? AND friend_id=?)",
			userID, friendID, friendID, userID).
		Delete(&entity.Friendship{}).Error
}
