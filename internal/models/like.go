package models

import "time"

// Like represents a like on a post; unique per (user, post)
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_post_like"`
	PostID    uint      `json:"post_id" gorm:"not null;uniqueIndex:idx_user_post_like;index"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Post *Post `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
