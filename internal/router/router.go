package router

import (
	"time"

	"github.com/anonto42/linkup/backend/internal/handlers"
	"github.com/anonto42/linkup/backend/internal/identity"
	"github.com/anonto42/linkup/backend/internal/middleware"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/anonto42/linkup/backend/internal/storage"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Dependencies are the external resources the routes are built on.
// Cache and Firebase are optional.
type Dependencies struct {
	DB            *gorm.DB
	Blobs         storage.BlobStore
	Cache         services.MembershipCache
	Firebase      identity.TokenVerifier
	JWTSecret     string
	TokenTTL      time.Duration
	MaxUploadSize string
	// AuthRateLimit is requests per second per client IP on /auth. Zero disables limiting.
	AuthRateLimit float64
	AuthRateBurst int
	Log           *zap.Logger
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	log := deps.Log

	e.GET("/health", handlers.HealthCheck)

	// --- Services ---
	store := repositories.NewStore(deps.DB)
	gate := services.NewVisibilityGate(deps.Cache, log.Named("visibility"))
	notifications := services.NewNotificationService(store, log.Named("notifications"))
	connections := services.NewConnectionService(store, notifications, log.Named("connections"))
	content := services.NewContentService(store, gate, notifications, log.Named("content"))
	users := services.NewUserService(store, gate, log.Named("users"))

	// --- Identity ---
	tokens := identity.NewJWTResolver(deps.JWTSecret, deps.TokenTTL, store)
	resolver := identity.Chain{tokens}
	var firebaseResolver *identity.FirebaseResolver
	if deps.Firebase != nil {
		firebaseResolver = identity.NewFirebaseResolver(deps.Firebase, store)
		resolver = append(resolver, firebaseResolver)
	}

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/auth")
	if deps.AuthRateLimit > 0 {
		authGroup.Use(eMiddleware.RateLimiterWithConfig(eMiddleware.RateLimiterConfig{
			Store: eMiddleware.NewRateLimiterMemoryStoreWithConfig(eMiddleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(deps.AuthRateLimit),
				Burst:     deps.AuthRateBurst,
				ExpiresIn: 3 * time.Minute,
			}),
		}))
	}
	handlers.NewAuthHandler(users, tokens, firebaseResolver).RegisterAuthRoutes(authGroup)

	postHandler := handlers.NewPostHandler(content, deps.Blobs, log.Named("uploads"))
	postHandler.RegisterUploadRoutes(e)

	// --- Protected routes ---
	api := e.Group("")
	api.Use(middleware.Authenticate(resolver, log.Named("auth")))
	if deps.MaxUploadSize != "" {
		api.Use(eMiddleware.BodyLimit(deps.MaxUploadSize))
	}

	handlers.NewUserHandler(users, connections).RegisterProfileRoutes(api)
	handlers.NewConnectionHandler(connections).RegisterConnectionRoutes(api)
	postHandler.RegisterPostRoutes(api)
	handlers.NewLikeHandler(content).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(content).RegisterCommentRoutes(api)
	handlers.NewNotificationHandler(notifications).RegisterNotificationRoutes(api)

	log.Info("all routes configured", zap.Bool("firebase", firebaseResolver != nil), zap.Bool("membership_cache", deps.Cache != nil))
}
