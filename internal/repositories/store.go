package repositories

import (
	"context"

	"github.com/anonto42/linkup/backend/internal/models"
	"gorm.io/gorm"
)

// Store bundles the repositories over one gorm handle. A Store built inside
// Transaction is scoped to that transaction and must not outlive it.
type Store struct {
	db *gorm.DB

	Users         UserRepository
	Connections   ConnectionRepository
	Posts         PostRepository
	Likes         LikeRepository
	Comments      CommentRepository
	Notifications NotificationRepository
}

// NewStore creates a Store over db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewPostgresUserRepository(db),
		Connections:   NewPostgresConnectionRepository(db),
		Posts:         NewPostgresPostRepository(db),
		Likes:         NewPostgresLikeRepository(db),
		Comments:      NewPostgresCommentRepository(db),
		Notifications: NewPostgresNotificationRepository(db),
	}
}

// WithContext returns a Store whose queries run under ctx
func (s *Store) WithContext(ctx context.Context) *Store {
	return NewStore(s.db.WithContext(ctx))
}

// Transaction runs fn inside a single transaction bound to ctx. Returning an error
// from fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Savepoint runs fn in a nested transaction. Inside an outer transaction this is a
// SAVEPOINT, so a failure in fn rolls back only fn's writes.
func (s *Store) Savepoint(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Migrate creates or updates the schema for every persisted model
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Connection{},
		&models.ConnectionRequest{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.Notification{},
	)
}
