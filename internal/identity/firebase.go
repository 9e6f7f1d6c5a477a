package identity

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"gorm.io/gorm"
)

// TokenVerifier verifies Firebase ID tokens. *auth.Client implements it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseResolver maps verified Firebase ID tokens to local users
type FirebaseResolver struct {
	verifier TokenVerifier
	store    *repositories.Store
}

// NewFirebaseResolver creates a FirebaseResolver
func NewFirebaseResolver(verifier TokenVerifier, store *repositories.Store) *FirebaseResolver {
	return &FirebaseResolver{verifier: verifier, store: store}
}

// ResolveActor implements Resolver. Only users already linked to the Firebase UID resolve.
func (r *FirebaseResolver) ResolveActor(ctx context.Context, credential string) (uint, error) {
	token, err := r.verifier.VerifyIDToken(ctx, credential)
	if err != nil {
		return 0, ErrInvalidCredential
	}
	user, err := r.store.WithContext(ctx).Users.GetUserByFirebaseUID(token.UID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInvalidCredential
		}
		return 0, err
	}
	return user.ID, nil
}

// Login verifies idToken and returns the linked local user, linking an existing
// account by email or creating a new one when needed.
func (r *FirebaseResolver) Login(ctx context.Context, idToken string) (*models.User, error) {
	token, err := r.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, ErrInvalidCredential
	}
	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	uid := token.UID

	var user *models.User
	err = r.store.Transaction(ctx, func(tx *repositories.Store) error {
		existing, err := tx.Users.GetUserByFirebaseUID(uid)
		if err == nil {
			if name != "" && existing.DisplayName == "" {
				existing.DisplayName = name
				if err := tx.Users.UpdateUser(existing); err != nil {
					return fmt.Errorf("failed to update user details: %w", err)
				}
			}
			user = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if email == "" {
			return ErrInvalidCredential
		}
		existing, err = tx.Users.GetUserByEmail(email)
		switch {
		case err == nil:
			existing.FirebaseUID = &uid
			if err := tx.Users.UpdateUser(existing); err != nil {
				return fmt.Errorf("failed to link firebase account: %w", err)
			}
			user = existing
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		user = &models.User{Email: email, DisplayName: name, FirebaseUID: &uid}
		if err := tx.Users.CreateUser(user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
