package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"taskhub/domain/ports"
)

// LocalStorage writes exports below basePath on the local filesystem.
type LocalStorage struct {
	basePath string // ./exports
	baseURL  string // http://localhost:8080/files
}

type LocalStorageConfig struct {
	BasePath string
	BaseURL  string
}

func NewLocalStorage(config LocalStorageConfig) (ports.StoragePort, error) {
	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: config.BasePath,
		baseURL:  strings.TrimSuffix(config.BaseURL, "/"),
	}, nil
}

func (l *LocalStorage) UploadFile(ctx context.Context, file io.Reader, path string, contentType string) (string, error) {
	fullPath, err := l.resolve(path)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return l.GetFileURL(path), nil
}

func (l *LocalStorage) DeleteFile(ctx context.Context, path string) error {
	fullPath, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (l *LocalStorage) GetFileURL(path string) string {
	return l.baseURL + "/" + normalizeKey(path)
}

func (l *LocalStorage) GetProviderName() string {
	return "local"
}

// resolve keeps every path inside basePath.
func (l *LocalStorage) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + normalizeKey(path))
	if clean == "/" {
		return "", fmt.Errorf("invalid storage path %q", path)
	}
	return filepath.Join(l.basePath, clean), nil
}
