package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"inkpost/internal/domain"
	"inkpost/internal/repository"
)

func newTestRepos(t *testing.T) (repository.UserRepository, repository.PostRepository) {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	require.NoError(t, users.Init(context.Background()))
	require.NoError(t, posts.Init(context.Background()))
	return users, posts
}

func TestPostCRUD(t *testing.T) {
	_, posts := newTestRepos(t)
	ctx := context.Background()

	id, err := posts.Create(ctx, &domain.Post{Title: "Hi", Body: "Body"})
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	got, err := posts.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Hi", got.Title)
	require.Empty(t, got.ImageRef)

	got.Title = "Edited"
	got.ImageRef = "/uploads/x.png"
	require.NoError(t, posts.Update(ctx, got))

	got, err = posts.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Edited", got.Title)
	require.Equal(t, "/uploads/x.png", got.ImageRef)

	require.NoError(t, posts.Delete(ctx, id))
	require.NoError(t, posts.Delete(ctx, id))

	_, err = posts.Get(ctx, id)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostUpdateMissingRow(t *testing.T) {
	_, posts := newTestRepos(t)

	err := posts.Update(context.Background(), &domain.Post{ID: 9, Title: "ghost"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostIDsSurviveDelete(t *testing.T) {
	_, posts := newTestRepos(t)
	ctx := context.Background()

	first, err := posts.Create(ctx, &domain.Post{Title: "one"})
	require.NoError(t, err)
	second, err := posts.Create(ctx, &domain.Post{Title: "two"})
	require.NoError(t, err)

	require.NoError(t, posts.Delete(ctx, first))

	third, err := posts.Create(ctx, &domain.Post{Title: "three"})
	require.NoError(t, err)
	require.Greater(t, third, second)
}

func TestUserUniqueUsername(t *testing.T) {
	users, _ := newTestRepos(t)
	ctx := context.Background()

	_, err := users.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = users.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h2"})
	require.ErrorIs(t, err, repository.ErrDuplicateUsername)

	_, err = users.GetByUsername(ctx, "bob")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
