package models

import "time"

// MaxCommentLength is the maximum comment length in characters
const MaxCommentLength = 500

// Comment represents a comment on a post
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	PostID    uint      `json:"post_id" gorm:"not null;index:idx_comment_post_created"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_comment_post_created"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Post *Post `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// CreateCommentRequest defines the request body for creating a new comment.
// Length is enforced by the content service after trimming.
type CreateCommentRequest struct {
	Content string `json:"content"`
}
