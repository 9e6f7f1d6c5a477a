package services

import (
	"testing"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEnv struct {
	store         *repositories.Store
	gate          *VisibilityGate
	notifications *NotificationService
	connections   *ConnectionService
	content       *ContentService
	users         *UserService
	logs          *observer.ObservedLogs
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithCache(t, nil)
}

func newTestEnvWithCache(t *testing.T, cache MembershipCache) *testEnv {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	store := testutil.NewStore(t)
	gate := NewVisibilityGate(cache, log)
	notifications := NewNotificationService(store, log)
	return &testEnv{
		store:         store,
		gate:          gate,
		notifications: notifications,
		connections:   NewConnectionService(store, notifications, log),
		content:       NewContentService(store, gate, notifications, log),
		users:         NewUserService(store, gate, log),
		logs:          logs,
	}
}

func (e *testEnv) user(t *testing.T, name string) *models.User {
	return testutil.CreateUser(t, e.store, name)
}

func (e *testEnv) post(t *testing.T, owner uint) *models.Post {
	return testutil.CreatePost(t, e.store, owner)
}

func (e *testEnv) connect(t *testing.T, a, b uint) {
	testutil.Connect(t, e.store, a, b)
}

func (e *testEnv) notificationsFor(t *testing.T, recipient uint) []models.Notification {
	t.Helper()
	list, err := e.store.Notifications.GetUnread(recipient)
	require.NoError(t, err)
	return list
}
