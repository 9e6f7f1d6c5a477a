package models

import "time"

// NotificationType is the persisted tag of a notification
type NotificationType string

const (
	NotificationPostLiked          NotificationType = "post_liked"
	NotificationPostCommented      NotificationType = "post_commented"
	NotificationConnectionRequest  NotificationType = "connection_request"
	NotificationConnectionAccepted NotificationType = "connection_accepted"
)

// Notification is a pre-rendered record for its recipient. Only IsRead ever changes.
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	UserID      uint             `json:"-" gorm:"not null;index:idx_notification_recipient_read"` // recipient
	ActorUserID uint             `json:"actor_user_id" gorm:"not null;index"`
	Type        NotificationType `json:"type" gorm:"size:50;not null"`
	PostID      *uint            `json:"post_id" gorm:"index"`
	Message     string           `json:"message" gorm:"type:text;not null"`
	TargetURL   string           `json:"target_url" gorm:"size:255;not null"`
	IsRead      bool             `json:"is_read" gorm:"not null;default:false;index:idx_notification_recipient_read"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`

	User      *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ActorUser *User `json:"-" gorm:"foreignKey:ActorUserID;constraint:OnDelete:CASCADE"`
	Post      *Post `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
