package handlers

import (
	"net/http"

	"github.com/anonto42/linkup/backend/internal/middleware"
	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ConnectionHandler handles connection request HTTP requests
type ConnectionHandler struct {
	connections *services.ConnectionService
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(connections *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connections: connections}
}

// RegisterConnectionRoutes registers connection routes
func (h *ConnectionHandler) RegisterConnectionRoutes(g *echo.Group) {
	g.POST("/connections/request", h.RequestConnection)
	g.POST("/connections/accept", h.AcceptConnection)
	g.POST("/connections/deny", h.DenyConnection)
	g.GET("/users/:id/connections", h.ListConnections)
	g.GET("/users/:id/pending_requests", h.PendingRequests)
	g.GET("/users/:id/sent_requests", h.SentRequests)
}

// RequestConnection sends a connection request
func (h *ConnectionHandler) RequestConnection(c echo.Context) error {
	var req models.CreateConnectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	created, err := h.connections.RequestConnection(c.Request().Context(), middleware.UserID(c), req.ToUserID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "Connection request sent successfully",
		"request_id": created.ID,
	})
}

// AcceptConnection accepts a pending request addressed to the current user
func (h *ConnectionHandler) AcceptConnection(c echo.Context) error {
	var req models.RespondConnectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	conn, err := h.connections.AcceptConnection(c.Request().Context(), middleware.UserID(c), req.RequestID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Connection request accepted successfully",
		"connection_id": conn.ID,
	})
}

// DenyConnection denies a pending request addressed to the current user
func (h *ConnectionHandler) DenyConnection(c echo.Context) error {
	var req models.RespondConnectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.connections.DenyConnection(c.Request().Context(), middleware.UserID(c), req.RequestID); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Connection request denied successfully"})
}

// ListConnections lists the current user's connections
func (h *ConnectionHandler) ListConnections(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	users, err := h.connections.ListConnections(c.Request().Context(), middleware.UserID(c), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// PendingRequests lists requests waiting for the current user's answer
func (h *ConnectionHandler) PendingRequests(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	requests, err := h.connections.PendingRequests(c.Request().Context(), middleware.UserID(c), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, requests)
}

// SentRequests lists the current user's unanswered requests
func (h *ConnectionHandler) SentRequests(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	requests, err := h.connections.SentRequests(c.Request().Context(), middleware.UserID(c), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, requests)
}
