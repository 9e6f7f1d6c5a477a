// Package testutil provides an isolated in-memory store for tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a fresh migrated in-memory SQLite database with foreign keys enforced
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := config.OpenSQL("sqlite", dsn)
	require.NoError(t, err)
	db.Logger = logger.Default.LogMode(logger.Silent)
	require.NoError(t, repositories.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewStore returns a Store over a fresh database
func NewStore(t *testing.T) *repositories.Store {
	t.Helper()
	return repositories.NewStore(NewDB(t))
}

// CreateUser inserts a user with the given display name
func CreateUser(t *testing.T, store *repositories.Store, name string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		PasswordHash: "x",
		DisplayName:  name,
	}
	require.NoError(t, store.Users.CreateUser(user))
	return user
}

// CreatePost inserts a post owned by userID
func CreatePost(t *testing.T, store *repositories.Store, userID uint) *models.Post {
	t.Helper()
	post := &models.Post{UserID: userID, ImageURL: "/uploads/img.png", Caption: "caption"}
	require.NoError(t, store.Posts.CreatePost(post))
	return post
}

// Connect stores a connection between a and b in canonical order
func Connect(t *testing.T, store *repositories.Store, a, b uint) {
	t.Helper()
	low, high := a, b
	if high < low {
		low, high = high, low
	}
	require.NoError(t, store.Connections.CreateConnection(&models.Connection{UserID1: low, UserID2: high}))
}
