package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID                uint      `json:"user_id" gorm:"primaryKey"`
	Email             string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash      string    `json:"-" gorm:"size:255;not null"`
	DisplayName       string    `json:"display_name" gorm:"size:100"`
	ProfilePictureURL string    `json:"profile_picture_url" gorm:"size:255"`
	Bio               string    `json:"bio" gorm:"type:text"`
	FirebaseUID       *string   `json:"-" gorm:"size:128;uniqueIndex"` // Link to Firebase User UID
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"-"`
}

// Name returns the display name, falling back to the email address.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// UserCompact is the author/actor block embedded in other responses
type UserCompact struct {
	ID                uint   `json:"user_id"`
	DisplayName       string `json:"display_name"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:                u.ID,
		DisplayName:       u.DisplayName,
		ProfilePictureURL: u.ProfilePictureURL,
	}
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	DisplayName       *string `json:"display_name,omitempty" validate:"omitempty,max=100"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty" validate:"omitempty,max=255"`
	Bio               *string `json:"bio,omitempty" validate:"omitempty,max=1000"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
