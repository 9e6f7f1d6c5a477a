package repositories

import (
	"github.com/anonto42/linkup/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetPostsByUserIDs(userIDs []uint, offset, limit int) ([]models.Post, error)
	CountPostsByUserIDs(userIDs []uint) (int64, error)
	DeletePost(id uint) error
}

// PostgresPostRepository implements PostRepository with gorm
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a new post
func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetPostByID retrieves a post by ID
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPostsByUserIDs retrieves posts owned by any of userIDs, newest first.
// A non-positive limit returns every matching post.
func (r *PostgresPostRepository) GetPostsByUserIDs(userIDs []uint, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	if len(userIDs) == 0 {
		return posts, nil
	}
	q := r.db.Where("user_id IN ?", userIDs).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// CountPostsByUserIDs counts posts owned by any of userIDs
func (r *PostgresPostRepository) CountPostsByUserIDs(userIDs []uint) (int64, error) {
	var count int64
	if len(userIDs) == 0 {
		return 0, nil
	}
	err := r.db.Model(&models.Post{}).Where("user_id IN ?", userIDs).Count(&count).Error
	return count, err
}

// DeletePost deletes a post. Likes, comments and notifications cascade.
func (r *PostgresPostRepository) DeletePost(id uint) error {
	res := r.db.Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
