package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// JWTResolver issues and verifies HS256 tokens carrying a user_id claim
type JWTResolver struct {
	secret []byte
	ttl    time.Duration
	store  *repositories.Store
	now    func() time.Time
}

// NewJWTResolver creates a JWTResolver. Resolved tokens must name a user that still exists in store.
func NewJWTResolver(secret string, ttl time.Duration, store *repositories.Store) *JWTResolver {
	return &JWTResolver{secret: []byte(secret), ttl: ttl, store: store, now: time.Now}
}

// IssueToken generates a signed token for user
func (r *JWTResolver) IssueToken(user *models.User) (string, error) {
	now := r.now()
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(r.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(r.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ResolveActor implements Resolver
func (r *JWTResolver) ResolveActor(ctx context.Context, credential string) (uint, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid || claims.UserID == 0 {
		return 0, ErrInvalidCredential
	}

	if _, err := r.store.WithContext(ctx).Users.GetUserByID(claims.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInvalidCredential
		}
		return 0, err
	}
	return claims.UserID, nil
}
