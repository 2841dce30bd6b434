package memory

import (
	"context"
	"sync"
	"time"

	"inkpost/internal/domain"
	"inkpost/internal/repository"
)

// UserRepository keeps identity records in a mutex-guarded map. Records
// are process-local; there is no durability beyond the process lifetime.
type UserRepository struct {
	mu     sync.Mutex
	byName map[string]*domain.User
	byID   map[int64]*domain.User
	nextID int64
}

func NewUserRepository() repository.UserRepository {
	return &UserRepository{
		byName: make(map[string]*domain.User),
		byID:   make(map[int64]*domain.User),
	}
}

func (r *UserRepository) Init(ctx context.Context) error {
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[user.Username]; exists {
		return 0, repository.ErrDuplicateUsername
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.nextID++
	user.ID = r.nextID

	stored := *user
	r.byName[stored.Username] = &stored
	r.byID[stored.ID] = &stored
	return stored.ID, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byName[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cpy := *user
	return &cpy, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cpy := *user
	return &cpy, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
