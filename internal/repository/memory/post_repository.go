package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"inkpost/internal/domain"
	"inkpost/internal/repository"
)

// PostRepository keeps post records in a mutex-guarded map.
//
// Ids come from a counter advanced under the same lock as the insert, so
// delete-then-create sequences can never hand out an id that is still in
// use. Deriving the id from the map size would do exactly that.
type PostRepository struct {
	mu     sync.Mutex
	posts  map[int64]*domain.Post
	nextID int64
}

func NewPostRepository() repository.PostRepository {
	return &PostRepository{
		posts: make(map[int64]*domain.Post),
	}
}

func (r *PostRepository) Init(ctx context.Context) error {
	return nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	r.nextID++
	post.ID = r.nextID

	stored := *post
	r.posts[stored.ID] = &stored
	return stored.ID, nil
}

func (r *PostRepository) Get(ctx context.Context, id int64) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cpy := *post
	return &cpy, nil
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.posts[post.ID]
	if !ok {
		return repository.ErrNotFound
	}

	post.CreatedAt = existing.CreatedAt
	post.UpdatedAt = time.Now().UTC()

	stored := *post
	r.posts[stored.ID] = &stored
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.posts, id)
	return nil
}

func (r *PostRepository) List(ctx context.Context) ([]domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts := make([]domain.Post, 0, len(r.posts))
	for _, post := range r.posts {
		posts = append(posts, *post)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].ID > posts[j].ID
	})
	return posts, nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
