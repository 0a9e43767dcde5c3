package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qrmenu/config"
	"github.com/yeremiapane/qrmenu/database"
	"github.com/yeremiapane/qrmenu/live"
	"github.com/yeremiapane/qrmenu/router"
	"github.com/yeremiapane/qrmenu/storage"
	"github.com/yeremiapane/qrmenu/utils"
)

func main() {
	cfg := config.Load()
	if err := utils.ConfigureLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		utils.ErrorLogger.Fatalf("Invalid LOG_LEVEL: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.JWT.Secret == "" {
		utils.ErrorLogger.Warn("JWT_SECRET is not set, using the development secret")
	}
	utils.InitJWT(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.Expiry)
	utils.BcryptCost = cfg.Security.BcryptCost

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize DB
	db, err := database.Connect(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	ctx := context.Background()
	if err := database.EnsureSuperAdmin(ctx, db, cfg.Seed); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed super admin: %v", err)
	}
	if cfg.Seed.DemoData {
		if err := database.SeedDemoData(ctx, db); err != nil {
			utils.ErrorLogger.Errorf("Failed to seed demo data: %v", err)
		}
	}

	images, err := storage.NewLocalImageStore(cfg.Storage.ImageDir, cfg.Storage.MaxImageBytes)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to prepare image store: %v", err)
	}
	hub := live.NewHub()

	r := router.SetupRouter(db, cfg, images, hub)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.InfoLogger.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Errorf("Server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	utils.InfoLogger.Println("Server exited")
}
