package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"inkpost/internal/domain"
	"inkpost/internal/repository"
)

func TestPostCreateGetRoundtrip(t *testing.T) {
	repo := NewPostRepository()
	ctx := context.Background()

	post := &domain.Post{Title: "Hi", Body: "Body"}
	id, err := repo.Create(ctx, post)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Hi", got.Title)
	require.Equal(t, "Body", got.Body)
	require.Empty(t, got.ImageRef)
	require.False(t, got.CreatedAt.IsZero())
}

func TestPostGetMissing(t *testing.T) {
	repo := NewPostRepository()

	_, err := repo.Get(context.Background(), 42)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostIDsNotReusedAfterDelete(t *testing.T) {
	repo := NewPostRepository()
	ctx := context.Background()

	first, err := repo.Create(ctx, &domain.Post{Title: "one"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &domain.Post{Title: "two"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, first))

	// A size-based id scheme would hand out the second post's id here.
	third, err := repo.Create(ctx, &domain.Post{Title: "three"})
	require.NoError(t, err)
	require.NotEqual(t, second, third)
	require.Greater(t, third, second)

	got, err := repo.Get(ctx, second)
	require.NoError(t, err)
	require.Equal(t, "two", got.Title)
}

func TestPostDeleteIdempotent(t *testing.T) {
	repo := NewPostRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Post{Title: "keep"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, 999))
	require.NoError(t, repo.Delete(ctx, 999))

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
}

func TestPostUpdateMissing(t *testing.T) {
	repo := NewPostRepository()

	err := repo.Update(context.Background(), &domain.Post{ID: 7, Title: "ghost"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostUpdateOverwrites(t *testing.T) {
	repo := NewPostRepository()
	ctx := context.Background()

	id, err := repo.Create(ctx, &domain.Post{Title: "before", Body: "b", ImageRef: "/uploads/a.png"})
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, &domain.Post{ID: id, Title: "after", Body: "b2", ImageRef: "/uploads/b.png"}))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "after", got.Title)
	require.Equal(t, "/uploads/b.png", got.ImageRef)
}

func TestPostListNewestFirst(t *testing.T) {
	repo := NewPostRepository()
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		_, err := repo.Create(ctx, &domain.Post{Title: title})
		require.NoError(t, err)
	}

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	require.Equal(t, "c", posts[0].Title)
	require.Equal(t, "a", posts[2].Title)
}
