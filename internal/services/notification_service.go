package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/pkg/apperror"
	"github.com/anonto42/linkup/backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type notificationTemplate struct {
	format string
	target func(postID *uint) string
}

func postTarget(postID *uint) string {
	if postID == nil {
		return "/posts"
	}
	return fmt.Sprintf("/posts/%d", *postID)
}

func connectionsTarget(*uint) string { return "/connections" }

var notificationTemplates = map[models.NotificationType]notificationTemplate{
	models.NotificationPostLiked:          {format: "%s liked your post", target: postTarget},
	models.NotificationPostCommented:      {format: "%s commented on your post", target: postTarget},
	models.NotificationConnectionRequest:  {format: "%s has requested a connection", target: connectionsTarget},
	models.NotificationConnectionAccepted: {format: "%s accepted your connection request", target: connectionsTarget},
}

// NotificationService derives notification records from social actions and serves
// them back to their recipients.
type NotificationService struct {
	store *repositories.Store
	log   *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(store *repositories.Store, log *zap.Logger) *NotificationService {
	return &NotificationService{store: store, log: logger.OrNop(log)}
}

// Emit renders and persists one notification using tx, the store of the triggering
// operation. The write runs in a savepoint, so a failed write leaves tx usable.
func (s *NotificationService) Emit(ctx context.Context, tx *repositories.Store, recipientID, actorID uint, typ models.NotificationType, postID *uint) (*models.Notification, error) {
	tmpl, ok := notificationTemplates[typ]
	if !ok {
		return nil, apperror.New(apperror.KindUnknownNotificationType, fmt.Sprintf("unknown notification type %q", typ))
	}

	tx = tx.WithContext(ctx)
	actor, err := tx.Users.GetUserByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.KindActorNotFound, fmt.Sprintf("actor %d not found", actorID), err)
		}
		return nil, fmt.Errorf("failed to resolve notification actor: %w", err)
	}

	notification := &models.Notification{
		UserID:      recipientID,
		ActorUserID: actorID,
		Type:        typ,
		PostID:      postID,
		Message:     fmt.Sprintf(tmpl.format, actor.Name()),
		TargetURL:   tmpl.target(postID),
		IsRead:      false,
	}
	err = tx.Savepoint(func(sp *repositories.Store) error {
		return sp.Notifications.CreateNotification(notification)
	})
	if err != nil {
		return nil, apperror.Translate(err, "notification recipient not found", apperror.KindConstraintViolation)
	}
	return notification, nil
}

// Notify is Emit for callers that must not fail because of a notification. Every
// outcome other than success is logged and dropped.
func (s *NotificationService) Notify(ctx context.Context, tx *repositories.Store, recipientID, actorID uint, typ models.NotificationType, postID *uint) {
	_, err := s.Emit(ctx, tx, recipientID, actorID, typ, postID)
	if err == nil {
		return
	}

	fields := []zap.Field{
		zap.Uint("recipient_id", recipientID),
		zap.Uint("actor_id", actorID),
		zap.String("type", string(typ)),
		zap.Error(err),
	}
	switch apperror.KindOf(err) {
	case apperror.KindActorNotFound:
		s.log.Warn("notification skipped: actor not found", fields...)
	case apperror.KindUnknownNotificationType:
		s.log.Error("notification rejected: unknown type", fields...)
	default:
		s.log.Error("notification persistence failed", fields...)
	}
}

// MarkRead marks one of the recipient's notifications as read. Marking twice is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID uint) error {
	return s.store.Transaction(ctx, func(tx *repositories.Store) error {
		n, err := tx.Notifications.GetByID(notificationID)
		if err != nil {
			return apperror.Translate(err, "notification not found", apperror.KindConstraintViolation)
		}
		if n.UserID != recipientID {
			return apperror.Forbidden("notification belongs to another user")
		}
		if n.IsRead {
			return nil
		}
		return tx.Notifications.MarkAsRead(n.ID)
	})
}

// MarkAllRead marks every unread notification of the recipient and returns how many changed
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		count, err = tx.Notifications.MarkAllAsRead(recipientID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListUnread returns the recipient's unread notifications, newest first
func (s *NotificationService) ListUnread(ctx context.Context, recipientID uint) ([]models.Notification, error) {
	notifications, err := s.store.WithContext(ctx).Notifications.GetUnread(recipientID)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// UnreadCount returns the number of unread notifications for the recipient
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return s.store.WithContext(ctx).Notifications.GetUnreadCount(recipientID)
}
