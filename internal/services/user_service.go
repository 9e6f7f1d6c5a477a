package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/linkup/backend/internal/identity"
	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/pkg/apperror"
	"github.com/anonto42/linkup/backend/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles accounts and profiles
type UserService struct {
	store *repositories.Store
	gate  *VisibilityGate
	log   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(store *repositories.Store, gate *VisibilityGate, log *zap.Logger) *UserService {
	return &UserService{store: store, gate: gate, log: logger.OrNop(log)}
}

// Register creates a local account with a bcrypt password hash
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperror.Validation("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(req.DisplayName),
	}

	store := s.store.WithContext(ctx)
	if _, err := store.Users.GetUserByEmail(email); err == nil {
		return nil, apperror.New(apperror.KindConstraintViolation, "user with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := store.Users.CreateUser(user); err != nil {
		return nil, apperror.Translate(err, "", apperror.KindConstraintViolation)
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// Authenticate checks an email/password pair
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.WithContext(ctx).Users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrInvalidCredential
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, identity.ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, identity.ErrInvalidCredential
	}
	return user, nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.WithContext(ctx).Users.GetUserByID(id)
	if err != nil {
		return nil, apperror.Translate(err, "user not found", apperror.KindConstraintViolation)
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of req to the user
func (s *UserService) UpdateProfile(ctx context.Context, id uint, req models.UpdateUserRequest) (*models.User, error) {
	var user *models.User
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		user, err = tx.Users.GetUserByID(id)
		if err != nil {
			return apperror.Translate(err, "user not found", apperror.KindConstraintViolation)
		}
		if req.DisplayName != nil {
			user.DisplayName = strings.TrimSpace(*req.DisplayName)
		}
		if req.ProfilePictureURL != nil {
			user.ProfilePictureURL = strings.TrimSpace(*req.ProfilePictureURL)
		}
		if req.Bio != nil {
			user.Bio = *req.Bio
		}
		return tx.Users.UpdateUser(user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the account. Connections, requests, posts, likes, comments and
// notifications referencing the user are removed by the store.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	var peers []uint
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		if peers, err = tx.Connections.GetConnectedUserIDs(id); err != nil {
			return err
		}
		if err := tx.Users.DeleteUser(id); err != nil {
			return apperror.Translate(err, "user not found", apperror.KindConstraintViolation)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.gate.Forget(ctx, id, peers)
	s.log.Info("user deleted", zap.Uint("user_id", id), zap.Int("connections", len(peers)))
	return nil
}
