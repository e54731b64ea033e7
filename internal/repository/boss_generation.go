package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/chore-quest/backend/internal/entity"
	"github.com/chore-quest/backend/pkg/xcontext"
)

type BossGenerationRepository interface {
	Create(ctx context.Context, data *entity.BossGeneration) error
	GetByID(ctx context.Context, id int64) (*entity.BossGeneration, error)
	GetListByUserID(ctx context.Context, userID string, limit int) ([]entity.BossGeneration, error)
}

type bossGenerationRepository struct {
	idGenerator *snowflake.Node
}

func NewBossGenerationRepository(idGenerator *snowflake.Node) *bossGenerationRepository {
	return &bossGenerationRepository{idGenerator: idGenerator}
}

func (r *bossGenerationRepository) Create(ctx context.Context, data *entity.BossGeneration) error {
	data.ID = r.idGenerator.Generate().Int64()
	return xcontext.DB(ctx).Create(data).Error
}

func (r *bossGenerationRepository) GetByID(ctx context.Context, id int64) (*entity.BossGeneration, error) {
	var record entity.BossGeneration
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *bossGenerationRepository) GetListByUserID(
	ctx context.Context, userID string, limit int,
) ([]entity.BossGeneration, error) {
	var records []entity.BossGeneration
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}
