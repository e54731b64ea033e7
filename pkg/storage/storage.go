package storage

import (
	"context"
)

type UploadObject struct {
	Bucket   string
	Prefix   string
	FileName string
	Mime     string
	Data     []byte
}

type UploadResponse struct {
	Url      string
	FileName string
}

type Storage interface {
	Upload(ctx context.Context, object *UploadObject) (*UploadResponse, error)
}
