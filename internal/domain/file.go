package domain

import (
	"context"

	"github.com/chore-quest/backend/internal/common"
	"github.com/chore-quest/backend/internal/entity"
	"github.com/chore-quest/backend/internal/model"
	"github.com/chore-quest/backend/internal/repository"
	"github.com/chore-quest/backend/pkg/errorx"
	"github.com/chore-quest/backend/pkg/storage"
	"github.com/chore-quest/backend/pkg/xcontext"
)

type FileDomain interface {
	UploadAvatar(context.Context, *model.UploadAvatarRequest) (*model.UploadAvatarResponse, error)
}

type fileDomain struct {
	fileStorage storage.Storage
	userRepo    repository.UserRepository
}

func NewFileDomain(fileStorage storage.Storage, userRepo repository.UserRepository) *fileDomain {
	return &fileDomain{fileStorage: fileStorage, userRepo: userRepo}
}

func (d *fileDomain) UploadAvatar(
	ctx context.Context, req *model.UploadAvatarRequest,
) (*model.UploadAvatarResponse, error) {
	resp, err := common.ProcessAvatar(ctx, d.fileStorage, "avatar")
	if err != nil {
		return nil, err
	}

	requestUserID := xcontext.RequestUserID(ctx)
	err = d.userRepo.UpdateByID(ctx, requestUserID, &entity.User{Avatar: resp.Url})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update avatar: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UploadAvatarResponse{URL: resp.Url}, nil
}
