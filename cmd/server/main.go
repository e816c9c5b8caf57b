package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hrcamilo11/upblioteca-core/internal/cache"
	"github.com/hrcamilo11/upblioteca-core/internal/config"
	"github.com/hrcamilo11/upblioteca-core/internal/database"
	"github.com/hrcamilo11/upblioteca-core/internal/logger"
	"github.com/hrcamilo11/upblioteca-core/internal/publications"
	"github.com/hrcamilo11/upblioteca-core/internal/router"
	"github.com/hrcamilo11/upblioteca-core/internal/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded, continuing with environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	if err := logger.Init(cfg.GinMode == gin.ReleaseMode); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := database.Connect(cfg); err != nil {
		logger.L().Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.Migrate(&users.User{}, &publications.Publication{}, &publications.Rating{}); err != nil {
		logger.L().Fatal("migrations failed", zap.Error(err))
	}

	if err := cache.Connect(cfg); err != nil {
		logger.L().Fatal("failed to connect to redis", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.L().Fatal("failed to create upload directory", zap.Error(err))
	}

	r := router.Setup()

	logger.L().Info("listening", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
