package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

// LocalStore writes uploads to a directory on disk. Files are served
// back by the HTTP layer under /uploads.
type LocalStore struct {
	dir string
}

// NewLocalStore ensures the upload directory exists. Failure here is
// fatal at startup rather than a per-request error.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the directory uploads are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	dst := filepath.Join(s.dir, filepath.Base(name))

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	_, err = io.Copy(f, r)
	closeErr := f.Close()
	if err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if closeErr != nil {
		return "", fmt.Errorf("close upload file: %w", closeErr)
	}

	return path.Join("/uploads", filepath.Base(name)), nil
}

var _ Store = (*LocalStore)(nil)
