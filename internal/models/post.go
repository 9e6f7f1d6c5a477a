package models

import "time"

// Post is an image post owned by one user
type Post struct {
	ID        uint      `json:"post_id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	ImageURL  string    `json:"image_url" gorm:"type:text;not null"`
	Caption   string    `json:"caption" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	ImageURL string `json:"image_url" validate:"required"`
	Caption  string `json:"caption" validate:"required"`
}
