package handlers

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/anonto42/linkup/backend/internal/middleware"
	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/anonto42/linkup/backend/internal/storage"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	content *services.ContentService
	blobs   storage.BlobStore
	log     *zap.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(content *services.ContentService, blobs storage.BlobStore, log *zap.Logger) *PostHandler {
	return &PostHandler{content: content, blobs: blobs, log: log}
}

// RegisterPostRoutes registers post routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts/upload", h.UploadImage)
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:id/posts", h.GetUserPosts)
	g.GET("/users/:id/connections/posts", h.GetConnectionsFeed)
}

// RegisterUploadRoutes registers the public route serving uploaded images
func (h *PostHandler) RegisterUploadRoutes(e *echo.Echo) {
	e.GET("/uploads/:filename", h.ServeUpload)
}

// UploadImage stores an uploaded image under a generated name
func (h *PostHandler) UploadImage(c echo.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file part")
	}
	if header.Filename == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "No selected file")
	}
	if header.Size > storage.MaxUploadSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10MB")
	}

	name, err := storage.GenerateName(header.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrTypeNotAllowed) {
			return echo.NewHTTPError(http.StatusBadRequest, "File type not allowed")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid filename")
	}

	src, err := header.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid file")
	}
	defer src.Close()

	if err := h.blobs.Save(c.Request().Context(), name, src); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Upload failed").SetInternal(err)
	}

	url := "/uploads/" + name
	h.log.Info("file uploaded", zap.Uint("user_id", middleware.UserID(c)), zap.String("url", url))
	return c.JSON(http.StatusOK, echo.Map{"message": "File uploaded successfully", "filename": url})
}

// ServeUpload streams an uploaded image
func (h *PostHandler) ServeUpload(c echo.Context) error {
	name := c.Param("filename")
	if !storage.ValidName(name) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid filename")
	}

	rc, err := h.blobs.Open(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "File not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "File access error").SetInternal(err)
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, contentType, rc)
}

// CreatePost creates a post for the current user
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.content.CreatePost(c.Request().Context(), middleware.UserID(c), req.ImageURL, req.Caption)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Post created successfully", "post_id": post.ID})
}

// GetPost returns a single enriched post
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.content.GetPost(c.Request().Context(), middleware.UserID(c), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes one of the current user's posts
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.content.DeletePost(c.Request().Context(), middleware.UserID(c), id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}

// GetUserPosts returns a user's posts if the current user may see them
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	posts, err := h.content.ListUserPosts(c.Request().Context(), middleware.UserID(c), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetConnectionsFeed returns the current user's posts merged with their connections' posts
func (h *PostHandler) GetConnectionsFeed(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	posts, err := h.content.ConnectionsFeed(c.Request().Context(), middleware.UserID(c), id,
		queryInt(c, "page"), queryInt(c, "per_page"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, posts)
}
