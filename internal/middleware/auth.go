package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/linkup/backend/internal/identity"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const userIDKey = "user_id"

// Authenticate resolves the request credential to a user ID and stores it in the
// context. The credential is read from "Authorization: Bearer <token>" or, failing
// that, the x-access-token header.
func Authenticate(resolver identity.Resolver, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			credential, err := credentialFrom(c.Request())
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			userID, err := resolver.ResolveActor(c.Request().Context(), credential)
			if err != nil {
				if errors.Is(err, identity.ErrInvalidCredential) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Token is invalid")
				}
				log.Error("credential resolution failed", zap.Error(err))
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to authenticate")
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user's ID set by Authenticate
func UserID(c echo.Context) uint {
	id, _ := c.Get(userIDKey).(uint)
	return id
}

func credentialFrom(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			return "", errors.New("Invalid Authorization header format")
		}
		return parts[1], nil
	}
	if token := r.Header.Get("x-access-token"); token != "" {
		return token, nil
	}
	return "", errors.New("Token is missing")
}
