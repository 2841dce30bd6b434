package repository

import (
	"context"

	"inkpost/internal/domain"
)

// PostRepository exposes persistence operations for Post records.
//
// Create assigns ids from a monotonically increasing counter; ids are
// never reused after a delete. Update returns ErrNotFound for an absent
// id. Delete of an absent id is not an error.
type PostRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, post *domain.Post) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Post, error)
}
