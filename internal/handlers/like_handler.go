package handlers

import (
	"net/http"

	"github.com/anonto42/linkup/backend/internal/middleware"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles like-related HTTP requests
type LikeHandler struct {
	content *services.ContentService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(content *services.ContentService) *LikeHandler {
	return &LikeHandler{content: content}
}

// RegisterLikeRoutes registers like routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
	g.GET("/posts/:id/likes", h.GetLikes)
}

// ToggleLike likes or unlikes a post
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	result, err := h.content.ToggleLike(c.Request().Context(), middleware.UserID(c), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":        "Post " + result.Action + " successfully",
		"action":         result.Action,
		"like_count":     result.LikeCount,
		"user_has_liked": result.UserHasLiked,
	})
}

// GetLikes returns the like count and whether the current user liked the post
func (h *LikeHandler) GetLikes(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	result, err := h.content.LikeStatus(c.Request().Context(), middleware.UserID(c), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, result)
}
