// File: app/app.go
package app

import (
	"context"
	"go-account-api/cache"
	"go-account-api/clock"
	"go-account-api/config"
	"go-account-api/db"
	"go-account-api/handler"
	"go-account-api/logger"
	"go-account-api/mailer"
	"go-account-api/repository"
	"go-account-api/router"
	"go-account-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	// Collaborators are wired by explicit constructor injection; every
	// service sees interfaces, not concrete clients.
	store := cache.NewRedisStore(redisClient)
	clk := clock.New()
	notifier := mailer.NewSMTPMailer()
	readTTL := config.AppConfig.ReadCacheTTL()

	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	geoRepo := repository.NewGeoRepository(database)

	authService := service.NewAuthService(userRepo, tokenRepo, store, clk, notifier)
	userService := service.NewUserService(userRepo, tokenRepo, store, readTTL)
	geoService := service.NewGeoService(geoRepo, store, readTTL)
	resyncService := service.NewResyncService(tokenRepo, store, clk)

	userHandler := handler.NewUserHandler(userService, authService)
	authHandler := handler.NewAuthHandler(authService)
	geoHandler := handler.NewGeoHandler(geoService)

	r := router.NewRouter(userHandler, authHandler, geoHandler)

	// The resync job runs on its own schedule, concurrent with request
	// handling.
	resyncCtx, cancelResync := context.WithCancel(context.Background())
	defer cancelResync()
	resyncService.Start(resyncCtx, 24*time.Hour)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")
	cancelResync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
