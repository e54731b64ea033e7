package common

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/chore-quest/backend/pkg/errorx"
	"github.com/chore-quest/backend/pkg/storage"
	"github.com/chore-quest/backend/pkg/xcontext"
	"github.com/nfnt/resize"
)

// ProcessAvatar reads the uploaded form file under key, crops it to the
// configured avatar size and uploads it to the object storage.
func ProcessAvatar(
	ctx context.Context, fileStorage storage.Storage, key string,
) (*storage.UploadResponse, error) {
	req := xcontext.HTTPRequest(ctx)
	if err := req.ParseMultipartForm(int64(xcontext.Configs(ctx).File.MaxSize)); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Request must be multipart form")
	}

	file, header, err := req.FormFile(key)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Error retrieving the file")
	}
	defer file.Close()

	mime := header.Header.Get("Content-Type")
	img, err := decodeImg(mime, file)
	if err != nil {
		return nil, err
	}

	cropSize := xcontext.Configs(ctx).File.AvatarCropSize
	img = resize.Resize(cropSize, cropSize, img, resize.Lanczos2)
	b, err := encodeImg(mime, img)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encode image: %v", err)
		return nil, errorx.Unknown
	}

	resp, err := fileStorage.Upload(ctx, &storage.UploadObject{
		Bucket:   xcontext.Configs(ctx).Storage.Bucket,
		Prefix:   "avatars",
		FileName: header.Filename,
		Mime:     mime,
		Data:     b,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload image: %v", err)
		return nil, errorx.Unknown
	}

	return resp, nil
}

func decodeImg(mime string, data io.Reader) (image.Image, error) {
	var img image.Image
	var err error
	switch mime {
	case "image/jpeg":
		img, err = jpeg.Decode(data)
	case "image/png", "application/octet-stream":
		img, err = png.Decode(data)
	case "image/gif":
		img, err = gif.Decode(data)
	default:
		return nil, errorx.New(errorx.BadRequest, "Unsupported image type %s", mime)
	}

	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Cannot decode image")
	}

	return img, nil
}

func encodeImg(mime string, img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	switch mime {
	case "image/jpeg":
		if err := jpeg.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	case "image/png", "application/octet-stream":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "image/gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported image type")
	}

	return buf.Bytes(), nil
}
