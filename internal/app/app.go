// Package app wires configuration, storage, services and the route table together for
// the commands.
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"launcher-api/internal/config"
	"launcher-api/internal/handlers"
	"launcher-api/internal/permissions"
	"launcher-api/internal/services"
	"launcher-api/internal/storage"
	"launcher-api/internal/token"
)

// App holds the wired components
type App struct {
	Config *config.Config
	Store  *storage.Store
	Hub    *services.HubService
	Router *handlers.Router
	QR     *services.QRService
	logger *logrus.Logger
}

// New opens the configured store and builds the route table
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	store, err := storage.Open(ctx, cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	codec, err := token.New(token.Mode(cfg.Auth.TokenMode), cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	if err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("failed to create token codec: %w", err)
	}
	if cfg.Auth.TokenMode == string(token.ModePlain) {
		logger.Warn("Using unsigned tokens: any client can claim any username")
	}

	permController := permissions.NewController(cfg.Auth.AdminUsername, logger)
	notifier := services.NewNotifier(cfg.Telegram, logger)
	hub := services.NewHubService(store, permController, notifier, cfg.Store.ReloadPerRequest, logger)
	limiter := services.NewAuthLimiter(cfg.Auth.RateLimit, cfg.Auth.RateWindow, logger)
	qrService := services.NewQRService(logger)

	factory := handlers.NewHandlerFactory(hub, codec, limiter, qrService, logger)

	return &App{
		Config: cfg,
		Store:  store,
		Hub:    hub,
		Router: factory.CreateRouter(),
		QR:     qrService,
		logger: logger,
	}, nil
}

// Close releases the store
func (a *App) Close(ctx context.Context) {
	if err := a.Store.Close(ctx); err != nil {
		a.logger.Errorf("Failed to close store: %v", err)
	}
}
