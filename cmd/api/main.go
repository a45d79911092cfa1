package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/quiverhq/accounts-api/internal/auth"
	"github.com/quiverhq/accounts-api/internal/config"
	"github.com/quiverhq/accounts-api/internal/database"
	"github.com/quiverhq/accounts-api/internal/handler"
	middlewarepkg "github.com/quiverhq/accounts-api/internal/middleware"
	"github.com/quiverhq/accounts-api/internal/repository"
	"github.com/quiverhq/accounts-api/internal/router"
	"github.com/quiverhq/accounts-api/internal/service"
	"github.com/quiverhq/accounts-api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.MigrateOnStart {
		if err := database.Migrate(ctx, cfg.DatabaseURL); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	files, err := newFileStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize file storage: %v", err)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	usersService := service.NewUserService(usersRepo, files, service.WithPhoneRegion(cfg.PhoneRegion))
	usersHandler := handler.NewUsersHandler(usersService, cfg.MaxAvatarBytes)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{Users: usersHandler})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

func newFileStore(ctx context.Context, cfg *config.Config) (storage.FileStore, error) {
	if cfg.FileStorage == config.StorageS3 {
		return storage.NewS3Store(ctx, storage.S3Config{
			Region:       cfg.S3.Region,
			Bucket:       cfg.S3.Bucket,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			BaseEndpoint: cfg.S3.BaseEndpoint,
			KeyPrefix:    cfg.S3.KeyPrefix,
		})
	}
	return storage.NewDiskStore(cfg.StorageDir)
}
