package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"inkpost/internal/repository/memory"
)

func TestRegisterThenAuthenticate(t *testing.T) {
	svc := NewUserService(memory.NewUserRepository())
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "pw1", "pw1")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Empty(t, user.PasswordHash)

	authed, err := svc.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.Equal(t, "alice", authed.Username)
	require.Empty(t, authed.PasswordHash)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	svc := NewUserService(memory.NewUserRepository())

	_, err := svc.Register(context.Background(), "alice", "pw1", "pw2")
	require.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := NewUserService(memory.NewUserRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1", "pw1")
	require.NoError(t, err)

	// Duplicate regardless of the password used.
	_, err = svc.Register(ctx, "alice", "other", "other")
	require.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestAuthenticateFailuresIndistinguishable(t *testing.T) {
	svc := NewUserService(memory.NewUserRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1", "pw1")
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(ctx, "alice", "wrong")
	_, unknownUser := svc.Authenticate(ctx, "bob", "pw1")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	require.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestRegisterRequiresFields(t *testing.T) {
	svc := NewUserService(memory.NewUserRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "pw", "pw")
	require.Error(t, err)

	_, err = svc.Register(ctx, "alice", "", "")
	require.Error(t, err)
}
