package service

import (
	"context"
	"errors"

	"inkpost/internal/domain"
	"inkpost/internal/repository"
)

// ErrPostNotFound is returned when an operation targets a post that does
// not exist (anymore).
var ErrPostNotFound = errors.New("post not found")

// PostService coordinates post level operations backed by the repository.
type PostService interface {
	CreatePost(ctx context.Context, title, body, imageRef string) (*domain.Post, error)
	GetPost(ctx context.Context, id int64) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]domain.Post, error)
	UpdatePost(ctx context.Context, id int64, title, body, newImageRef string) (*domain.Post, error)
	DeletePost(ctx context.Context, id int64) error
}

type postService struct {
	posts repository.PostRepository
}

func NewPostService(posts repository.PostRepository) PostService {
	return &postService{posts: posts}
}

// CreatePost stores a new post. Empty title and body are accepted; the
// boundary owns any presentation-level validation.
func (s *postService) CreatePost(ctx context.Context, title, body, imageRef string) (*domain.Post, error) {
	post := &domain.Post{
		Title:    title,
		Body:     body,
		ImageRef: imageRef,
	}

	if _, err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return s.posts.List(ctx)
}

// UpdatePost overwrites title and body unconditionally. The image
// reference is only replaced when newImageRef is non-empty; an edit
// without a fresh upload keeps the previous image.
func (s *postService) UpdatePost(ctx context.Context, id int64, title, body, newImageRef string) (*domain.Post, error) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	post.Title = title
	post.Body = body
	if newImageRef != "" {
		post.ImageRef = newImageRef
	}

	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// DeletePost is idempotent; deleting an absent id is not an error.
func (s *postService) DeletePost(ctx context.Context, id int64) error {
	return s.posts.Delete(ctx, id)
}
