package ports

import (
	"context"
	"io"
)

// StoragePort is where task exports are written.
type StoragePort interface {
	UploadFile(ctx context.Context, file io.Reader, path string, contentType string) (string, error)
	DeleteFile(ctx context.Context, path string) error
	GetFileURL(path string) string
	GetProviderName() string
}
