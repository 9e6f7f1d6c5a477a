package handlers

import (
	"net/http"

	"github.com/anonto42/linkup/backend/internal/middleware"
	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles profile-related HTTP requests
type UserHandler struct {
	users       *services.UserService
	connections *services.ConnectionService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService, connections *services.ConnectionService) *UserHandler {
	return &UserHandler{users: users, connections: connections}
}

// RegisterProfileRoutes registers profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetMe)
	g.PUT("/users/me", h.UpdateMe)
	g.DELETE("/users/me", h.DeleteMe)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id/profile", h.GetProfile)
}

// GetMe returns the authenticated user's profile
func (h *UserHandler) GetMe(c echo.Context) error {
	user, err := h.users.GetUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe updates the authenticated user's profile
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateProfile(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteMe deletes the authenticated user and everything they own
func (h *UserHandler) DeleteMe(c echo.Context) error {
	if err := h.users.DeleteUser(c.Request().Context(), middleware.UserID(c)); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}

// GetProfile returns the public profile of any user
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":             user.ID,
		"display_name":        user.DisplayName,
		"profile_picture_url": user.ProfilePictureURL,
		"bio":                 user.Bio,
	})
}

// SearchUsers searches users by display name
func (h *UserHandler) SearchUsers(c echo.Context) error {
	results, err := h.connections.SearchUsers(c.Request().Context(), middleware.UserID(c), c.QueryParam("query"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, results)
}
