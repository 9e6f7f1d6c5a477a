package services

import (
	"context"
	"testing"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestEmitRendersTemplates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	recipient := env.user(t, "rita")
	actor := env.user(t, "")
	post := env.post(t, recipient.ID)

	n, err := env.notifications.Emit(ctx, env.store, recipient.ID, actor.ID, models.NotificationPostCommented, &post.ID)
	require.NoError(t, err)
	assert.Equal(t, actor.Email+" commented on your post", n.Message, "falls back to email without a display name")
	assert.False(t, n.IsRead)

	n, err = env.notifications.Emit(ctx, env.store, recipient.ID, actor.ID, models.NotificationConnectionAccepted, nil)
	require.NoError(t, err)
	assert.Equal(t, "/connections", n.TargetURL)
	assert.Nil(t, n.PostID)
}

func TestEmitRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")

	_, err := env.notifications.Emit(ctx, env.store, b.ID, a.ID, models.NotificationType("post_shared"), nil)
	assert.ErrorIs(t, err, apperror.ErrUnknownNotificationType)

	env.notifications.Notify(ctx, env.store, b.ID, a.ID, models.NotificationType("post_shared"), nil)
	assert.Equal(t, 1, env.logs.FilterMessage("notification rejected: unknown type").Len())
	assert.Empty(t, env.notificationsFor(t, b.ID))
}

func TestNotifySkipsMissingActor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	b := env.user(t, "bob")

	_, err := env.notifications.Emit(ctx, env.store, b.ID, 9999, models.NotificationConnectionRequest, nil)
	assert.ErrorIs(t, err, apperror.ErrActorNotFound)

	env.notifications.Notify(ctx, env.store, b.ID, 9999, models.NotificationConnectionRequest, nil)
	entries := env.logs.FilterMessage("notification skipped: actor not found").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Empty(t, env.notificationsFor(t, b.ID))
}

func TestFailedNotificationKeepsTriggeringWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")

	var post *models.Post
	err := env.store.Transaction(ctx, func(tx *repositories.Store) error {
		post = &models.Post{UserID: a.ID, ImageURL: "/uploads/a.png", Caption: "kept"}
		if err := tx.Posts.CreatePost(post); err != nil {
			return err
		}
		// recipient does not exist, so the insert violates its foreign key
		env.notifications.Notify(ctx, tx, 4242, a.ID, models.NotificationPostLiked, &post.ID)
		return nil
	})
	require.NoError(t, err)

	entries := env.logs.FilterMessage("notification persistence failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)

	stored, err := env.store.Posts.GetPostByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "kept", stored.Caption)
}

func TestMarkRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")

	n, err := env.notifications.Emit(ctx, env.store, b.ID, a.ID, models.NotificationConnectionRequest, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, env.notifications.MarkRead(ctx, b.ID, 9999), apperror.ErrNotFound)
	assert.ErrorIs(t, env.notifications.MarkRead(ctx, a.ID, n.ID), apperror.ErrForbidden)

	require.NoError(t, env.notifications.MarkRead(ctx, b.ID, n.ID))
	require.NoError(t, env.notifications.MarkRead(ctx, b.ID, n.ID), "marking twice is a no-op")

	count, err := env.notifications.UnreadCount(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	unread, err := env.notifications.ListUnread(ctx, b.ID)
	require.NoError(t, err)
	assert.NotNil(t, unread)
	assert.Empty(t, unread)
}

func TestMarkAllReadAndOrdering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")
	c := env.user(t, "carol")
	post := env.post(t, b.ID)

	first, err := env.notifications.Emit(ctx, env.store, b.ID, a.ID, models.NotificationPostLiked, &post.ID)
	require.NoError(t, err)
	second, err := env.notifications.Emit(ctx, env.store, b.ID, c.ID, models.NotificationPostCommented, &post.ID)
	require.NoError(t, err)
	_, err = env.notifications.Emit(ctx, env.store, a.ID, b.ID, models.NotificationConnectionAccepted, nil)
	require.NoError(t, err)

	unread, err := env.notifications.ListUnread(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, unread, 2)
	assert.Equal(t, second.ID, unread[0].ID)
	assert.Equal(t, first.ID, unread[1].ID)

	count, err := env.notifications.UnreadCount(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	updated, err := env.notifications.MarkAllRead(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	updated, err = env.notifications.MarkAllRead(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, updated)

	others, err := env.notifications.UnreadCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), others, "other recipients are untouched")
}
