package handlers

import (
	"net/http"

	"github.com/anonto42/linkup/backend/internal/identity"
	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	users    *services.UserService
	tokens   *identity.JWTResolver
	firebase *identity.FirebaseResolver
}

// NewAuthHandler creates a new AuthHandler. firebase may be nil when Firebase is not configured.
func NewAuthHandler(users *services.UserService, tokens *identity.JWTResolver, firebase *identity.FirebaseResolver) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, firebase: firebase}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Register handles local user registration with email and password
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user_id": user.ID,
	})
}

// Login handles local user authentication with email and password
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(err)
	}
	token, err := h.tokens.IssueToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token").SetInternal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Login successful", "token": token})
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebase == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "Firebase login is not configured")
	}
	var req FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.firebase.Login(c.Request().Context(), req.IDToken)
	if err != nil {
		return respondError(err)
	}
	token, err := h.tokens.IssueToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate local JWT").SetInternal(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Login successful", "token": token})
}
