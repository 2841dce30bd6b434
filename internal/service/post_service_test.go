package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"inkpost/internal/repository/memory"
)

func TestCreateAndGetPost(t *testing.T) {
	svc := NewPostService(memory.NewPostRepository())
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "Hi", "Body", "")
	require.NoError(t, err)
	require.Equal(t, int64(1), post.ID)

	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, "Hi", got.Title)
	require.Equal(t, "Body", got.Body)
	require.Empty(t, got.ImageRef)
}

func TestCreatePostAcceptsEmptyFields(t *testing.T) {
	svc := NewPostService(memory.NewPostRepository())

	post, err := svc.CreatePost(context.Background(), "", "", "")
	require.NoError(t, err)
	require.NotZero(t, post.ID)
}

func TestGetMissingPost(t *testing.T) {
	svc := NewPostService(memory.NewPostRepository())

	_, err := svc.GetPost(context.Background(), 42)
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestUpdateRetainsImageWithoutNewUpload(t *testing.T) {
	svc := NewPostService(memory.NewPostRepository())
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "t", "b", "/uploads/cat.png")
	require.NoError(t, err)

	updated, err := svc.UpdatePost(ctx, post.ID, "t2", "b2", "")
	require.NoError(t, err)
	require.Equal(t, "t2", updated.Title)
	require.Equal(t, "b2", updated.Body)
	require.Equal(t, "/uploads/cat.png", updated.ImageRef)

	replaced, err := svc.UpdatePost(ctx, post.ID, "t3", "b3", "/uploads/dog.png")
	require.NoError(t, err)
	require.Equal(t, "/uploads/dog.png", replaced.ImageRef)
}

func TestUpdateMissingPost(t *testing.T) {
	svc := NewPostService(memory.NewPostRepository())

	_, err := svc.UpdatePost(context.Background(), 7, "t", "b", "")
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeletePostIdempotent(t *testing.T) {
	svc := NewPostService(memory.NewPostRepository())
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "t", "b", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, post.ID))
	require.NoError(t, svc.DeletePost(ctx, post.ID))

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Empty(t, posts)
}
