package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"launcher-api/internal/config"
	"launcher-api/internal/handlers"
	"launcher-api/internal/permissions"
	"launcher-api/internal/services"
	"launcher-api/internal/storage"
	"launcher-api/internal/token"
)

func newTestServer(t *testing.T, cfg config.ServerConfig) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	hub := services.NewHubService(storage.NewMemoryStore(), permissions.NewController("", logger), nil, false, logger)
	factory := handlers.NewHandlerFactory(hub, token.NewPlainCodec(), services.NewAuthLimiter(2, 0, logger), services.NewQRService(logger), logger)

	srv := httptest.NewServer(NewServer(factory.CreateRouter(), cfg, logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return out
}

func TestServer_SignupAndStatus(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})

	resp, err := http.Post(srv.URL+"/api/auth/signup", "application/json",
		strings.NewReader(`{"username":"alice","password":"pw","email":"a@example.com"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signup status %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
	body := decode(t, resp)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/user/status", nil)
	req.Header.Set("Authorization", "Bearer "+body["token"].(string))
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if status := decode(t, resp); status["username"] != "alice" {
		t.Errorf("unexpected status body %v", status)
	}
}

func TestServer_UnknownAPIRoute(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})

	resp, err := http.Get(srv.URL + "/api/does-not-exist")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if body := decode(t, resp); body["error"] != "API endpoint not found" || body["path"] != "/api/does-not-exist" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestServer_AuthRateLimit(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})

	var last int
	for i := 0; i < 3; i++ {
		resp, err := http.Post(srv.URL+"/api/auth/login", "application/json", strings.NewReader(`{}`))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		last = resp.StatusCode
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("expected 429 after the limit, got %d", last)
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{CORSOrigins: []string{"https://app.example.com"}})

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/chat/send", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "authorization,content-type")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("expected allowed origin, got %q", got)
	}
}

func TestServer_StaticFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>launcher</h1>"), 0644); err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, config.ServerConfig{StaticDir: dir})

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(data), "launcher") {
		t.Errorf("expected index.html, got %d %q", resp.StatusCode, data)
	}
}
