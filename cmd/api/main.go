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
	"go.uber.org/zap"

	"github.com/octobees/intake-api/internal/auth"
	"github.com/octobees/intake-api/internal/config"
	"github.com/octobees/intake-api/internal/database"
	"github.com/octobees/intake-api/internal/handler"
	"github.com/octobees/intake-api/internal/logging"
	"github.com/octobees/intake-api/internal/mailer"
	middlewarepkg "github.com/octobees/intake-api/internal/middleware"
	"github.com/octobees/intake-api/internal/repository"
	"github.com/octobees/intake-api/internal/router"
	"github.com/octobees/intake-api/internal/service"
	"github.com/octobees/intake-api/internal/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer pool.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	submissionsRepo := repository.NewPGXSubmissionsRepository(pool)
	draftsRepo := repository.NewPGXEmailDraftsRepository(pool)
	operatorsRepo := repository.NewPGXOperatorsRepository(pool)

	httpClient := &http.Client{Timeout: 15 * time.Second}
	forwarder := webhook.NewClient(httpClient, cfg.WebhookURL, cfg.WebhookSecret)
	sender := mailer.NewClient(httpClient, cfg.ResendAPIKey, cfg.EmailFrom)

	intakeService := service.NewIntakeService(submissionsRepo, forwarder, logger)
	dispatchService := service.NewDispatchService(draftsRepo, sender, logger)
	authService := service.NewAuthService(operatorsRepo, jwtManager)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{
		Intake:        handler.NewIntakeHandler(intakeService),
		Emails:        handler.NewEmailsHandler(dispatchService),
		EnrichWebhook: handler.NewEnrichWebhookHandler(intakeService),
		Auth:          handler.NewAuthHandler(authService),
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}
