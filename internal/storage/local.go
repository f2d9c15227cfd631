package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes media into a directory that the HTTP server exposes
// under /media.
type LocalStorage struct {
	dir     string
	baseURL string
}

var _ Uploader = (*LocalStorage)(nil)

func NewLocalStorage(dir, publicBaseURL string) *LocalStorage {
	return &LocalStorage{
		dir:     dir,
		baseURL: strings.TrimRight(publicBaseURL, "/") + "/media",
	}
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Upload(_ context.Context, name, _ string, data []byte) (string, error) {
	object, err := cleanName("", name)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, filepath.FromSlash(object))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	return s.baseURL + "/" + object, nil
}

func (s *LocalStorage) EnsureDirectories() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}
	return nil
}
