package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/linkup/backend/internal/cache"
	"github.com/anonto42/linkup/backend/internal/identity"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/internal/router"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/anonto42/linkup/backend/internal/storage"
	"github.com/anonto42/linkup/backend/pkg/config"
	"github.com/anonto42/linkup/backend/pkg/firebase"
	"github.com/anonto42/linkup/backend/pkg/logger"
	"github.com/anonto42/linkup/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// Initialize database connections
	db, err := config.InitDB(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	if err := repositories.Migrate(db.SQL); err != nil {
		log.Fatal("failed to auto migrate models", zap.Error(err))
	}
	log.Info("auto-migrations completed")

	ctx := context.Background()
	deps := router.Dependencies{
		DB:            db.SQL,
		JWTSecret:     cfg.JWTSecret,
		TokenTTL:      cfg.TokenTTL,
		MaxUploadSize: cfg.MaxUploadSize,
		AuthRateLimit: cfg.AuthRateLimit,
		AuthRateBurst: cfg.AuthRateBurst,
		Log:           log,
	}

	// Image storage: GridFS when MongoDB is configured, local disk otherwise
	var blobs storage.BlobStore
	if db.Mongo != nil {
		blobs, err = storage.NewGridFSStore(db.Mongo.Database(cfg.MongoDatabase))
	} else {
		blobs, err = storage.NewLocalStore(cfg.UploadDir)
	}
	if err != nil {
		log.Fatal("failed to initialize image storage", zap.Error(err))
	}
	deps.Blobs = blobs

	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn("membership cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			var membership services.MembershipCache = cache.NewConnectionCache(client, cfg.ConnectionCacheTTL)
			deps.Cache = membership
		}
	}

	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatal("failed to initialize Firebase", zap.Error(err))
		}
		var verifier identity.TokenVerifier = firebaseApp.AuthClient
		deps.Firebase = verifier
		log.Info("firebase auth client initialized")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e, log)

	// Setup routes and dependencies
	router.SetupRoutes(e, deps)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	log.Info("server exited")
}
