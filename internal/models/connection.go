package models

import "time"

// ConnectionStatus is the state of a directed connection request
type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusDenied   ConnectionStatus = "denied"
)

// Connection is an undirected edge stored once, with UserID1 < UserID2.
type Connection struct {
	ID        uint      `json:"connection_id" gorm:"primaryKey"`
	UserID1   uint      `json:"user_id1" gorm:"column:user_id1;not null;uniqueIndex:idx_connection_pair;check:chk_connection_order,user_id1 < user_id2"`
	UserID2   uint      `json:"user_id2" gorm:"column:user_id2;not null;uniqueIndex:idx_connection_pair;index"`
	CreatedAt time.Time `json:"created_at"`

	User1 *User `json:"-" gorm:"foreignKey:UserID1;constraint:OnDelete:CASCADE"`
	User2 *User `json:"-" gorm:"foreignKey:UserID2;constraint:OnDelete:CASCADE"`
}

// ConnectionRequest is a directed proposal. At most one pending row per ordered pair.
type ConnectionRequest struct {
	ID         uint             `json:"request_id" gorm:"primaryKey"`
	FromUserID uint             `json:"from_user_id" gorm:"not null;index;uniqueIndex:idx_pending_request_pair,where:status = 'pending'"`
	ToUserID   uint             `json:"to_user_id" gorm:"not null;index;uniqueIndex:idx_pending_request_pair,where:status = 'pending'"`
	Status     ConnectionStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`

	FromUser *User `json:"-" gorm:"foreignKey:FromUserID;constraint:OnDelete:CASCADE"`
	ToUser   *User `json:"-" gorm:"foreignKey:ToUserID;constraint:OnDelete:CASCADE"`
}

// CreateConnectionRequest defines the request body for requesting a connection
type CreateConnectionRequest struct {
	ToUserID uint `json:"to_user_id" validate:"required"`
}

// RespondConnectionRequest defines the request body for accepting/denying a request
type RespondConnectionRequest struct {
	RequestID uint `json:"request_id" validate:"required"`
}
