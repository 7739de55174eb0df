package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage serves documents from a directory on the local filesystem.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a local storage instance rooted at basePath.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("storage directory %s: %w", basePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage path %s is not a directory", basePath)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Fetch opens a document relative to the storage root.
func (s *LocalStorage) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, key)

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document not found: %s", key)
		}
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	return file, nil
}
