package app

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"

	"launcher-api/internal/config"
	"launcher-api/internal/handlers"
	"launcher-api/internal/routes"
)

func TestNew_FileBackend(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		Store: config.StoreConfig{Backend: config.BackendFile, DataDir: t.TempDir()},
		Auth:  config.AuthConfig{AdminUsername: "Anton", TokenMode: "signed", TokenSecret: "s3cret"},
	}

	a, err := New(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close(context.Background())

	for _, key := range []string{
		routes.Key(http.MethodPost, routes.Signup),
		routes.Key(http.MethodGet, routes.Broadcasts),
		routes.Key(http.MethodPost, routes.ConfirmPayment),
		routes.Key(http.MethodGet, routes.Health),
	} {
		method, path := routes.Split(key)
		if !a.Router.Has(method, path) {
			t.Errorf("route %s is not registered", key)
		}
	}

	resp := a.Router.Dispatch(context.Background(), &handlers.Request{Method: http.MethodGet, Path: routes.Health})
	if resp.Status != http.StatusOK {
		t.Errorf("health returned %d", resp.Status)
	}
}

func TestNew_UnknownTokenMode(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		Store: config.StoreConfig{Backend: config.BackendMemory},
		Auth:  config.AuthConfig{TokenMode: "rot13"},
	}
	if _, err := New(context.Background(), cfg, logger); err == nil {
		t.Error("expected error for unknown token mode")
	}
}

func TestConfigureLogger(t *testing.T) {
	logger := logrus.New()

	ConfigureLogger(logger, "debug", "json")
	if logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %s", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("expected JSON formatter, got %T", logger.Formatter)
	}

	ConfigureLogger(logger, "nonsense", "")
	if logger.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info fallback, got %s", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*logrus.TextFormatter); !ok {
		t.Errorf("expected text formatter, got %T", logger.Formatter)
	}
}

func TestNew_DefaultConfigNeverLimitsLogins(t *testing.T) {
	t.Setenv("STORE_BACKEND", config.BackendMemory)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	a, err := New(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close(context.Background())

	call := func(path, body string) *handlers.Response {
		return a.Router.Dispatch(context.Background(), &handlers.Request{
			Method:   http.MethodPost,
			Path:     path,
			Body:     []byte(body),
			ClientIP: "198.51.100.7",
		})
	}

	if resp := call(routes.Signup, `{"username":"alice","password":"pw","email":"a@example.com"}`); resp.Status != http.StatusOK {
		t.Fatalf("signup returned %d", resp.Status)
	}
	for i := 1; i <= 30; i++ {
		if resp := call(routes.Login, `{"username":"alice","password":"pw"}`); resp.Status != http.StatusOK {
			t.Fatalf("login #%d returned %d", i, resp.Status)
		}
	}
}
