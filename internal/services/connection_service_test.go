package services

import (
	"context"
	"sync"
	"testing"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestThenAcceptCreatesCanonicalConnection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")

	req, err := env.connections.RequestConnection(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusPending, req.Status)

	requested := env.notificationsFor(t, b.ID)
	require.Len(t, requested, 1)
	assert.Equal(t, models.NotificationConnectionRequest, requested[0].Type)
	assert.Equal(t, a.ID, requested[0].ActorUserID)
	assert.Equal(t, "alice has requested a connection", requested[0].Message)
	assert.Equal(t, "/connections", requested[0].TargetURL)

	conn, err := env.connections.AcceptConnection(ctx, b.ID, req.ID)
	require.NoError(t, err)
	low, high := CanonicalPair(a.ID, b.ID)
	assert.Equal(t, low, conn.UserID1)
	assert.Equal(t, high, conn.UserID2)

	for _, pair := range [][2]uint{{a.ID, b.ID}, {b.ID, a.ID}} {
		ok, err := env.gate.CanAccess(ctx, env.store, pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, ok)
	}

	accepted := env.notificationsFor(t, a.ID)
	require.Len(t, accepted, 1)
	assert.Equal(t, models.NotificationConnectionAccepted, accepted[0].Type)
	assert.Equal(t, b.ID, accepted[0].ActorUserID)
	assert.Equal(t, "bob accepted your connection request", accepted[0].Message)

	stored, err := env.store.Connections.GetRequestByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusAccepted, stored.Status)
}

func TestConnectionIsSymmetricWhoeverInitiates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")

	// the higher id initiates
	req, err := env.connections.RequestConnection(ctx, b.ID, a.ID)
	require.NoError(t, err)
	conn, err := env.connections.AcceptConnection(ctx, a.ID, req.ID)
	require.NoError(t, err)
	assert.Less(t, conn.UserID1, conn.UserID2)

	ab, err := env.gate.CanAccess(ctx, env.store, a.ID, b.ID)
	require.NoError(t, err)
	ba, err := env.gate.CanAccess(ctx, env.store, b.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, ab)
	assert.True(t, ba)
}

func TestRequestConnectionValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")

	_, err := env.connections.RequestConnection(ctx, a.ID, a.ID)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = env.connections.RequestConnection(ctx, a.ID, 0)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = env.connections.RequestConnection(ctx, a.ID, 9999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRequestConnectionUniqueness(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")
	c := env.user(t, "carol")

	_, err := env.connections.RequestConnection(ctx, a.ID, b.ID)
	require.NoError(t, err)

	_, err = env.connections.RequestConnection(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, apperror.ErrDuplicateRequest)

	_, err = env.connections.RequestConnection(ctx, b.ID, a.ID)
	assert.ErrorIs(t, err, apperror.ErrDuplicateRequest, "a reverse pending request is not merged")

	env.connect(t, a.ID, c.ID)
	_, err = env.connections.RequestConnection(ctx, c.ID, a.ID)
	assert.ErrorIs(t, err, apperror.ErrAlreadyConnected)

	// only the first request produced a notification
	assert.Len(t, env.notificationsFor(t, b.ID), 1)
	assert.Empty(t, env.notificationsFor(t, a.ID))
}

func TestAcceptConnectionPreconditions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")

	req, err := env.connections.RequestConnection(ctx, a.ID, b.ID)
	require.NoError(t, err)

	_, err = env.connections.AcceptConnection(ctx, a.ID, req.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound, "the requester cannot accept their own request")

	_, err = env.connections.AcceptConnection(ctx, b.ID, 0)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = env.connections.AcceptConnection(ctx, b.ID, 9999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = env.connections.AcceptConnection(ctx, b.ID, req.ID)
	require.NoError(t, err)

	_, err = env.connections.AcceptConnection(ctx, b.ID, req.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound, "an accepted request is no longer pending")

	assert.ErrorIs(t, env.connections.DenyConnection(ctx, b.ID, req.ID), apperror.ErrNotFound)
}

func TestDenyConnection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")

	req, err := env.connections.RequestConnection(ctx, a.ID, b.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, env.connections.DenyConnection(ctx, a.ID, req.ID), apperror.ErrNotFound)
	require.NoError(t, env.connections.DenyConnection(ctx, b.ID, req.ID))

	ok, err := env.gate.CanAccess(ctx, env.store, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, env.notificationsFor(t, a.ID), "denial is silent")

	_, err = env.connections.AcceptConnection(ctx, b.ID, req.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// a denial does not block asking again
	_, err = env.connections.RequestConnection(ctx, a.ID, b.ID)
	assert.NoError(t, err)
}

func TestConcurrentAcceptCreatesOneConnection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")

	req, err := env.connections.RequestConnection(ctx, a.ID, b.ID)
	require.NoError(t, err)

	const workers = 4
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.connections.AcceptConnection(ctx, b.ID, req.ID)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	}
	assert.Equal(t, 1, successes)

	ids, err := env.store.Connections.GetConnectedUserIDs(a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, ids)
	assert.Len(t, env.notificationsFor(t, a.ID), 1)
}

func TestCrossedRequestsYieldOneConnection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")

	// simulate two requests that raced past the pending check
	ab := &models.ConnectionRequest{FromUserID: a.ID, ToUserID: b.ID, Status: models.ConnectionStatusPending}
	ba := &models.ConnectionRequest{FromUserID: b.ID, ToUserID: a.ID, Status: models.ConnectionStatusPending}
	require.NoError(t, env.store.Connections.CreateRequest(ab))
	require.NoError(t, env.store.Connections.CreateRequest(ba))

	_, err := env.connections.AcceptConnection(ctx, b.ID, ab.ID)
	require.NoError(t, err)

	_, err = env.connections.AcceptConnection(ctx, a.ID, ba.ID)
	assert.ErrorIs(t, err, apperror.ErrAlreadyConnected)
	assert.ErrorIs(t, err, apperror.ErrConstraintViolation)

	stored, err := env.store.Connections.GetRequestByID(ba.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusPending, stored.Status, "the failed accept rolled back")
}

func TestListingsAreSelfOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")
	c := env.user(t, "carol")

	env.connect(t, a.ID, b.ID)
	_, err := env.connections.RequestConnection(ctx, c.ID, a.ID)
	require.NoError(t, err)

	_, err = env.connections.ListConnections(ctx, b.ID, a.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = env.connections.PendingRequests(ctx, b.ID, a.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = env.connections.SentRequests(ctx, b.ID, c.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	conns, err := env.connections.ListConnections(ctx, a.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, b.ID, conns[0].UserID)
	assert.Equal(t, "bob", conns[0].DisplayName)

	pending, err := env.connections.PendingRequests(ctx, a.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, c.ID, pending[0].FromUserID)
	assert.Equal(t, "carol", pending[0].FromUserDisplayName)

	sent, err := env.connections.SentRequests(ctx, c.ID, c.ID)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, a.ID, sent[0].ToUserID)
}

func TestSearchUsersFlags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	me := env.user(t, "Sam Viewer")
	friend := env.user(t, "Sam Friend")
	asked := env.user(t, "Sam Asked")
	stranger := env.user(t, "Sam Stranger")
	env.user(t, "Other")

	env.connect(t, me.ID, friend.ID)
	_, err := env.connections.RequestConnection(ctx, me.ID, asked.ID)
	require.NoError(t, err)

	results, err := env.connections.SearchUsers(ctx, me.ID, "sam")
	require.NoError(t, err)
	require.Len(t, results, 3)

	byID := map[uint]UserSearchResult{}
	for _, r := range results {
		byID[r.UserID] = r
	}
	assert.NotContains(t, byID, me.ID)
	assert.True(t, byID[friend.ID].IsConnection)
	assert.False(t, byID[friend.ID].HasPendingRequest)
	assert.True(t, byID[asked.ID].HasPendingRequest)
	assert.False(t, byID[stranger.ID].IsConnection)
	assert.False(t, byID[stranger.ID].HasPendingRequest)

	empty, err := env.connections.SearchUsers(ctx, me.ID, "  ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
