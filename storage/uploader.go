package storage

import (
	"context"
	"errors"
	"io"
)

// ErrKeyExists is returned by Upload when the key is already taken and
// overwrite was not requested.
var ErrKeyExists = errors.New("storage key already exists")

type UploadOptions struct {
	Overwrite bool
}

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader, opts UploadOptions) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}
