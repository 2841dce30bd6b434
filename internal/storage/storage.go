package storage

import (
	"context"
	"io"
)

// Store persists uploaded image bytes under a sanitized name and returns
// a reference usable for later retrieval (a relative URL for the local
// backend, an object location for S3).
type Store interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}
