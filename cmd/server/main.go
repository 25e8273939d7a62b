package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/foodierank/foodierank-backend/config"
	"github.com/foodierank/foodierank-backend/internal/app/controller"
	"github.com/foodierank/foodierank-backend/internal/app/repository"
	"github.com/foodierank/foodierank-backend/internal/app/service"
	"github.com/foodierank/foodierank-backend/internal/db"
	"github.com/foodierank/foodierank-backend/internal/middleware"
	"github.com/foodierank/foodierank-backend/internal/router"
	"github.com/foodierank/foodierank-backend/internal/scheduler"
	"github.com/foodierank/foodierank-backend/internal/storage"
	"github.com/foodierank/foodierank-backend/pkg/logger"
	"github.com/foodierank/foodierank-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting FOODIERANK Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis (optional: blacklist and ranking cache degrade gracefully)
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, continuing without token blacklist and ranking cache", map[string]interface{}{
				"error": err.Error(),
			})
		}
	} else {
		logger.Info("Redis disabled, token blacklist and ranking cache are off", nil)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	restaurantRepo := repository.NewRestaurantRepository(db.GetDB())
	dishRepo := repository.NewDishRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	favoriteRepo := repository.NewFavoriteRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo, db.GetDB())
	restaurantService := service.NewRestaurantService(restaurantRepo, categoryRepo, db.GetDB())
	dishService := service.NewDishService(dishRepo, restaurantRepo, db.GetDB())
	reviewService := service.NewReviewService(reviewRepo, db.GetDB())
	favoriteService := service.NewFavoriteService(favoriteRepo, restaurantRepo, dishRepo)
	rankingService := service.NewRankingService(
		restaurantRepo,
		db.GetDB(),
		cfg.Ranking.TopSize,
		cfg.Ranking.CacheTTL,
	)

	// Initialize S3 storage for photo uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService, cfg.JWT.Secret)
	userController := controller.NewUserController(userService)
	categoryController := controller.NewCategoryController(categoryService)
	restaurantController := controller.NewRestaurantController(restaurantService)
	dishController := controller.NewDishController(dishService)
	reviewController := controller.NewReviewController(reviewService)
	favoriteController := controller.NewFavoriteController(favoriteService)
	rankingController := controller.NewRankingController(rankingService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		userController,
		categoryController,
		restaurantController,
		dishController,
		reviewController,
		favoriteController,
		rankingController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start the nightly aggregate reconciliation scheduler
	rankingScheduler := scheduler.NewRankingScheduler(rankingService)
	if err := rankingScheduler.Start(); err != nil {
		logger.Fatal("Failed to start ranking scheduler", err)
	}
	defer rankingScheduler.Stop()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
