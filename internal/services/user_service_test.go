package services

import (
	"context"
	"testing"

	"github.com/anonto42/linkup/backend/internal/identity"
	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.users.Register(ctx, models.RegisterRequest{
		Email:       "  Alice@Example.com ",
		Password:    "correct horse",
		DisplayName: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	_, err = env.users.Register(ctx, models.RegisterRequest{Email: "alice@example.com", Password: "another one"})
	assert.ErrorIs(t, err, apperror.ErrConstraintViolation)

	got, err := env.users.Authenticate(ctx, "ALICE@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = env.users.Authenticate(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, identity.ErrInvalidCredential)
	_, err = env.users.Authenticate(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, identity.ErrInvalidCredential)
}

func TestRegisterRequiresCredentials(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.users.Register(context.Background(), models.RegisterRequest{Email: " ", Password: "secret123"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUpdateProfileAppliesOnlyGivenFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")

	bio := "hello there"
	updated, err := env.users.UpdateProfile(ctx, a.ID, models.UpdateUserRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.DisplayName)
	assert.Equal(t, bio, updated.Bio)

	name := " Alice A. "
	updated, err = env.users.UpdateProfile(ctx, a.ID, models.UpdateUserRequest{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", updated.DisplayName)
	assert.Equal(t, bio, updated.Bio)

	_, err = env.users.UpdateProfile(ctx, 9999, models.UpdateUserRequest{Bio: &bio})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteUserRemovesEverythingReferencingIt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")
	c := env.user(t, "carol")
	env.connect(t, a.ID, b.ID)
	_, err := env.connections.RequestConnection(ctx, a.ID, c.ID)
	require.NoError(t, err)

	bobsPost := env.post(t, b.ID)
	_, err = env.content.ToggleLike(ctx, a.ID, bobsPost.ID)
	require.NoError(t, err)
	_, err = env.content.AddComment(ctx, a.ID, bobsPost.ID, "hi")
	require.NoError(t, err)
	env.post(t, a.ID)

	require.NoError(t, env.users.DeleteUser(ctx, a.ID))
	assert.ErrorIs(t, env.users.DeleteUser(ctx, a.ID), apperror.ErrNotFound)

	_, err = env.users.GetUser(ctx, a.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	connected, err := env.store.Connections.GetConnectedUserIDs(b.ID)
	require.NoError(t, err)
	assert.Empty(t, connected)

	pending, err := env.connections.PendingRequests(ctx, c.ID, c.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	view, err := env.content.GetPost(ctx, b.ID, bobsPost.ID)
	require.NoError(t, err)
	assert.Zero(t, view.LikeCount)
	assert.Zero(t, view.CommentCount)

	assert.Empty(t, env.notificationsFor(t, b.ID))
	assert.Empty(t, env.notificationsFor(t, c.ID))
}
