package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"launcher-api/internal/app"
	"launcher-api/internal/config"
	"launcher-api/pkg/httpapi"
	"launcher-api/pkg/telegrambot"
)

func main() {
	// Setup logger
	logger := app.SetupLogger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: ", err)
	}
	app.ConfigureLogger(logger, cfg.LogLevel, cfg.LogFormat)

	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize services
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize: ", err)
	}
	defer a.Close(context.Background())

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	if cfg.Telegram.AdminBot {
		bot, err := telegrambot.NewBot(cfg.Telegram, a.Hub, a.QR, logger)
		if err != nil {
			logger.Fatal("Failed to create Telegram admin bot: ", err)
		}
		go func() {
			if err := bot.Start(ctx); err != nil {
				logger.Error("Telegram admin bot failed: ", err)
			}
		}()
	}

	// Start server
	logger.Infof("Starting launcher API with %s storage", a.Store.Backend)
	server := httpapi.NewServer(a.Router, cfg.Server, logger)
	if err := server.Start(ctx); err != nil {
		logger.Error("Server failed: ", err)
		a.Close(context.Background())
		os.Exit(1)
	}
}
