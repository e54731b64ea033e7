package testutil

import (
	"context"
	"fmt"

	"github.com/chore-quest/backend/pkg/storage"
)

type MockStorage struct {
	UploadFunc func(ctx context.Context, object *storage.UploadObject) (*storage.UploadResponse, error)
}

func (m *MockStorage) Upload(
	ctx context.Context, object *storage.UploadObject,
) (*storage.UploadResponse, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, object)
	}

	return &storage.UploadResponse{
		Url:      fmt.Sprintf("https://storage.example.com/%s/%s", object.Prefix, object.FileName),
		FileName: object.FileName,
	}, nil
}
