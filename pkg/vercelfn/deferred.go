package vercelfn

import (
	"context"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"

	"launcher-api/internal/app"
	"launcher-api/internal/config"
	"launcher-api/internal/handlers"
)

// Wrap turns the route table into a function handler
type Wrap func(router *handlers.Router, logger *logrus.Logger) http.HandlerFunc

// Deferred builds the application from the environment on the first request and serves
// every request with the handler wrap returns. A failed build answers 500 until the
// instance is recycled.
func Deferred(wrap Wrap) http.HandlerFunc {
	var (
		once    sync.Once
		handler http.HandlerFunc
	)

	return func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() {
			handler = build(wrap)
		})
		handler(w, r)
	}
}

func build(wrap Wrap) http.HandlerFunc {
	logger := app.SetupLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("Failed to load configuration: %v", err)
		return unavailable
	}
	app.ConfigureLogger(logger, cfg.LogLevel, cfg.LogFormat)

	// Instances may run side by side, so every request starts from the store
	cfg.Store.ReloadPerRequest = true

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Errorf("Failed to initialize: %v", err)
		return unavailable
	}

	return wrap(a.Router, logger)
}

func unavailable(w http.ResponseWriter, _ *http.Request) {
	handlers.WriteHTTP(w, handlers.JSON(http.StatusInternalServerError, map[string]string{
		"error":   "Internal server error",
		"message": "The request could not be completed",
	}))
}

// RouteOf wraps the route table with Route
func RouteOf(method, routePath string) Wrap {
	return func(router *handlers.Router, logger *logrus.Logger) http.HandlerFunc {
		return Route(router, method, routePath, logger)
	}
}

// ActionOf wraps the route table with Action
func ActionOf(prefix string) Wrap {
	return func(router *handlers.Router, logger *logrus.Logger) http.HandlerFunc {
		return Action(router, prefix, logger)
	}
}
