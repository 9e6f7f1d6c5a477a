package handlers

import (
	"net/http"

	"github.com/anonto42/linkup/backend/internal/middleware"
	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	content *services.ContentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(content *services.ContentService) *CommentHandler {
	return &CommentHandler{content: content}
}

// RegisterCommentRoutes registers comment routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetComments)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment adds a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	comment, err := h.content.AddComment(c.Request().Context(), middleware.UserID(c), id, req.Content)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Comment added successfully",
		"comment": comment,
	})
}

// GetComments returns a page of comments for a post
func (h *CommentHandler) GetComments(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	page, err := h.content.ListComments(c.Request().Context(), middleware.UserID(c), id,
		queryInt(c, "page"), queryInt(c, "per_page"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, page)
}

// DeleteComment deletes one of the current user's comments
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.content.DeleteComment(c.Request().Context(), middleware.UserID(c), id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Comment deleted successfully"})
}
