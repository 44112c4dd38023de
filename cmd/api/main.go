package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alumnet-backend/config"
	_ "alumnet-backend/docs" // Important for Swagger
	v1 "alumnet-backend/internal/delivery/http/v1"
	"alumnet-backend/internal/repository/postgres"
	"alumnet-backend/internal/usecase"
	"alumnet-backend/pkg/database"
	"alumnet-backend/pkg/logger"
	"alumnet-backend/pkg/redis"
	"alumnet-backend/pkg/security"

	"github.com/go-playground/validator/v10"
)

// @title           Alumnet Backend API
// @version         1.0
// @description     Alumni network registration and login backend.
// @host            localhost:5000
// @BasePath        /
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.Debug)
	logger.Log.Info("Starting alumnet backend", "port", cfg.Port)
	security.InitSecurityLogger("alumnet-backend", os.Getenv("APP_ENV"))

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := database.EnsureSchema(context.Background(), dbPool); err != nil {
		logger.Log.Error("Failed to apply schema", "error", err)
		os.Exit(1)
	}

	// 4. Setup Redis (optional; rate limiting falls back to in-memory)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory fallback", "error", err)
	}

	// 5. Setup Repositories and UseCases
	userRepo := postgres.NewUserRepository(dbPool)
	validate := validator.New()
	authUC := usecase.NewAuthUsecase(userRepo, validate, cfg.BcryptCost)

	tracker := security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
	})

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:       authUC,
		LoginTracker: tracker,
		Config:       cfg,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
