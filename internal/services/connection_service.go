package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/pkg/apperror"
	"github.com/anonto42/linkup/backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConnectedUser is one entry of a user's connection list
type ConnectedUser struct {
	UserID            uint   `json:"user_id"`
	Email             string `json:"email"`
	DisplayName       string `json:"display_name"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

// IncomingRequest is a pending request addressed to the viewer
type IncomingRequest struct {
	RequestID                 uint      `json:"request_id"`
	FromUserID                uint      `json:"from_user_id"`
	FromUserEmail             string    `json:"from_user_email"`
	FromUserDisplayName       string    `json:"from_user_display_name"`
	FromUserProfilePictureURL string    `json:"from_user_profile_picture_url"`
	CreatedAt                 time.Time `json:"created_at"`
}

// OutgoingRequest is a pending request sent by the viewer
type OutgoingRequest struct {
	RequestID               uint      `json:"request_id"`
	ToUserID                uint      `json:"to_user_id"`
	ToUserEmail             string    `json:"to_user_email"`
	ToUserDisplayName       string    `json:"to_user_display_name"`
	ToUserProfilePictureURL string    `json:"to_user_profile_picture_url"`
	CreatedAt               time.Time `json:"created_at"`
}

// UserSearchResult is a search hit annotated with its relation to the viewer
type UserSearchResult struct {
	UserID            uint   `json:"user_id"`
	DisplayName       string `json:"display_name"`
	ProfilePictureURL string `json:"profile_picture_url"`
	IsConnection      bool   `json:"is_connection"`
	HasPendingRequest bool   `json:"has_pending_request"`
}

// ConnectionService runs the request/accept/deny state machine
type ConnectionService struct {
	store    *repositories.Store
	notifier *NotificationService
	log      *zap.Logger
}

// NewConnectionService creates a new ConnectionService
func NewConnectionService(store *repositories.Store, notifier *NotificationService, log *zap.Logger) *ConnectionService {
	return &ConnectionService{store: store, notifier: notifier, log: logger.OrNop(log)}
}

// RequestConnection creates a pending request from actor to target and notifies target
func (s *ConnectionService) RequestConnection(ctx context.Context, actor, target uint) (*models.ConnectionRequest, error) {
	if target == 0 {
		return nil, apperror.Validation("to_user_id is required")
	}
	if actor == target {
		return nil, apperror.Validation("cannot send connection request to yourself")
	}

	var req *models.ConnectionRequest
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Users.GetUserByID(target); err != nil {
			return apperror.Translate(err, "target user not found", apperror.KindConstraintViolation)
		}

		low, high := CanonicalPair(actor, target)
		connected, err := tx.Connections.ConnectionExists(low, high)
		if err != nil {
			return err
		}
		if connected {
			return apperror.New(apperror.KindAlreadyConnected, "already connected with this user")
		}

		_, err = tx.Connections.GetPendingRequestBetween(actor, target)
		switch {
		case err == nil:
			return apperror.New(apperror.KindDuplicateRequest, "a pending connection request already exists")
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		req = &models.ConnectionRequest{
			FromUserID: actor,
			ToUserID:   target,
			Status:     models.ConnectionStatusPending,
		}
		if err := tx.Connections.CreateRequest(req); err != nil {
			return apperror.Translate(err, "user not found", apperror.KindDuplicateRequest)
		}

		s.notifier.Notify(ctx, tx, target, actor, models.NotificationConnectionRequest, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("connection requested", zap.Uint("request_id", req.ID), zap.Uint("from", actor), zap.Uint("to", target))
	return req, nil
}

// AcceptConnection resolves a pending request addressed to actor, creates the
// canonical connection and notifies the requester.
func (s *ConnectionService) AcceptConnection(ctx context.Context, actor, requestID uint) (*models.Connection, error) {
	if requestID == 0 {
		return nil, apperror.Validation("request_id is required")
	}

	var conn *models.Connection
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		req, err := s.resolve(tx, actor, requestID, models.ConnectionStatusAccepted)
		if err != nil {
			return err
		}

		low, high := CanonicalPair(req.FromUserID, req.ToUserID)
		conn = &models.Connection{UserID1: low, UserID2: high}
		if err := tx.Connections.CreateConnection(conn); err != nil {
			return apperror.Translate(err, "user not found", apperror.KindAlreadyConnected)
		}

		s.notifier.Notify(ctx, tx, req.FromUserID, actor, models.NotificationConnectionAccepted, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("connection accepted", zap.Uint("request_id", requestID), zap.Uint("connection_id", conn.ID))
	return conn, nil
}

// DenyConnection resolves a pending request addressed to actor as denied
func (s *ConnectionService) DenyConnection(ctx context.Context, actor, requestID uint) error {
	if requestID == 0 {
		return apperror.Validation("request_id is required")
	}
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		_, err := s.resolve(tx, actor, requestID, models.ConnectionStatusDenied)
		return err
	})
	if err != nil {
		return err
	}

	s.log.Info("connection denied", zap.Uint("request_id", requestID))
	return nil
}

// resolve moves a pending request addressed to actor into status. The update is
// conditioned on the request still being pending, so a concurrent loser sees NotFound.
func (s *ConnectionService) resolve(tx *repositories.Store, actor, requestID uint, status models.ConnectionStatus) (*models.ConnectionRequest, error) {
	req, err := tx.Connections.GetPendingRequestFor(requestID, actor)
	if err != nil {
		return nil, apperror.Translate(err, "pending connection request not found", apperror.KindConstraintViolation)
	}
	ok, err := tx.Connections.ResolvePendingRequest(requestID, actor, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NotFound("pending connection request not found")
	}
	req.Status = status
	return req, nil
}

// ListConnections returns the users connected to userID. Only the user may list them.
func (s *ConnectionService) ListConnections(ctx context.Context, actor, userID uint) ([]ConnectedUser, error) {
	if actor != userID {
		return nil, apperror.Forbidden("cannot access other user's connections")
	}
	store := s.store.WithContext(ctx)

	ids, err := store.Connections.GetConnectedUserIDs(userID)
	if err != nil {
		return nil, err
	}
	users, err := store.Users.GetUsersByIDs(ids)
	if err != nil {
		return nil, err
	}

	result := make([]ConnectedUser, 0, len(ids))
	for _, id := range ids {
		u, ok := users[id]
		if !ok {
			continue
		}
		result = append(result, ConnectedUser{
			UserID:            u.ID,
			Email:             u.Email,
			DisplayName:       u.DisplayName,
			ProfilePictureURL: u.ProfilePictureURL,
		})
	}
	return result, nil
}

// PendingRequests returns pending requests addressed to userID
func (s *ConnectionService) PendingRequests(ctx context.Context, actor, userID uint) ([]IncomingRequest, error) {
	if actor != userID {
		return nil, apperror.Forbidden("cannot access other user's pending requests")
	}
	store := s.store.WithContext(ctx)

	requests, err := store.Connections.GetIncomingPendingRequests(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.FromUserID)
	}
	users, err := store.Users.GetUsersByIDs(ids)
	if err != nil {
		return nil, err
	}

	result := make([]IncomingRequest, 0, len(requests))
	for _, r := range requests {
		from := users[r.FromUserID]
		result = append(result, IncomingRequest{
			RequestID:                 r.ID,
			FromUserID:                r.FromUserID,
			FromUserEmail:             from.Email,
			FromUserDisplayName:       from.DisplayName,
			FromUserProfilePictureURL: from.ProfilePictureURL,
			CreatedAt:                 r.CreatedAt,
		})
	}
	return result, nil
}

// SentRequests returns pending requests sent by userID
func (s *ConnectionService) SentRequests(ctx context.Context, actor, userID uint) ([]OutgoingRequest, error) {
	if actor != userID {
		return nil, apperror.Forbidden("cannot access other user's sent requests")
	}
	store := s.store.WithContext(ctx)

	requests, err := store.Connections.GetOutgoingPendingRequests(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ToUserID)
	}
	users, err := store.Users.GetUsersByIDs(ids)
	if err != nil {
		return nil, err
	}

	result := make([]OutgoingRequest, 0, len(requests))
	for _, r := range requests {
		to := users[r.ToUserID]
		result = append(result, OutgoingRequest{
			RequestID:               r.ID,
			ToUserID:                r.ToUserID,
			ToUserEmail:             to.Email,
			ToUserDisplayName:       to.DisplayName,
			ToUserProfilePictureURL: to.ProfilePictureURL,
			CreatedAt:               r.CreatedAt,
		})
	}
	return result, nil
}

// SearchUsers matches display names against query, excluding actor, and flags
// existing connections and pending requests.
func (s *ConnectionService) SearchUsers(ctx context.Context, actor uint, query string) ([]UserSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []UserSearchResult{}, nil
	}
	store := s.store.WithContext(ctx)

	users, err := store.Users.SearchUsers(query, actor)
	if err != nil {
		return nil, err
	}
	connectedIDs, err := store.Connections.GetConnectedUserIDs(actor)
	if err != nil {
		return nil, err
	}
	pendingIDs, err := store.Connections.GetPendingPeerIDs(actor)
	if err != nil {
		return nil, err
	}

	connected := toSet(connectedIDs)
	pending := toSet(pendingIDs)
	result := make([]UserSearchResult, 0, len(users))
	for _, u := range users {
		result = append(result, UserSearchResult{
			UserID:            u.ID,
			DisplayName:       u.DisplayName,
			ProfilePictureURL: u.ProfilePictureURL,
			IsConnection:      connected[u.ID],
			HasPendingRequest: pending[u.ID],
		})
	}
	return result, nil
}

func toSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
