package main

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"cliphub/internal/auth"
	"cliphub/internal/cache"
	"cliphub/internal/config"
	"cliphub/internal/db"
	"cliphub/internal/handler"
	"cliphub/internal/media"
	"cliphub/internal/model"
	"cliphub/internal/repository"
	"cliphub/internal/router"
	"cliphub/internal/service"
)

// @title Cliphub API
// @version 1.0
// @description User-account service with JWT session rotation, media uploads, and channel profiles.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Subscription{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	mediaStore, err := media.NewMinioStore(
		context.Background(),
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioBucket,
		cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("media store init: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	subscriptionRepo := repository.NewSubscriptionRepository(gormDB)

	// Initialize auth components
	tokenService := auth.NewTokenService(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenExpiry,
		cfg.RefreshTokenExpiry,
	)

	// Initialize services
	sessionService := service.NewSessionService(userRepo, tokenService, mediaStore)
	profileService := service.NewProfileService(userRepo, subscriptionRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(sessionService, cfg)
	userHandler := handler.NewUserHandler(sessionService, cfg)
	profileHandler := handler.NewProfileHandler(profileService)

	// Register routes
	router.Register(e, cfg, sessionService, authHandler, userHandler, profileHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
