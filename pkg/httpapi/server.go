// Package httpapi serves the route table from a standing gin HTTP server.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"launcher-api/internal/config"
	"launcher-api/internal/constants"
	"launcher-api/internal/handlers"
)

const requestIDKey = "request_id"

// Server is the long-running HTTP adapter
type Server struct {
	router  *handlers.Router
	cfg     config.ServerConfig
	engine  *gin.Engine
	handler http.Handler
	logger  *logrus.Logger
}

// NewServer creates a new server for router
func NewServer(router *handlers.Router, cfg config.ServerConfig, logger *logrus.Logger) *Server {
	s := &Server{
		router: router,
		cfg:    cfg,
		engine: gin.New(),
		logger: logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.handler = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
	}).Handler(s.engine)

	return s
}

// Handler returns the complete HTTP handler including CORS
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.handler,
		ReadTimeout:  constants.DefaultReadTimeout,
		WriteTimeout: constants.DefaultWriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownWait)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// setupMiddleware sets up the gin middleware
func (s *Server) setupMiddleware() {
	if err := s.engine.SetTrustedProxies(nil); err != nil {
		s.logger.Warnf("Failed to reset trusted proxies: %v", err)
	}

	s.engine.Use(requestID(), requestLogger(s.logger), gin.Recovery())
}

// setupRoutes sends every /api call through the route table
func (s *Server) setupRoutes() {
	s.engine.Any("/api/*path", s.dispatch)

	var static http.Handler
	if s.cfg.StaticDir != "" {
		s.logger.Infof("Serving static files from %s", s.cfg.StaticDir)
		static = http.FileServer(http.Dir(s.cfg.StaticDir))
	}

	s.engine.NoRoute(func(c *gin.Context) {
		if static != nil && c.Request.Method == http.MethodGet {
			static.ServeHTTP(c.Writer, c.Request)
			return
		}
		s.dispatch(c)
	})
}

// dispatch translates between gin and the route table
func (s *Server) dispatch(c *gin.Context) {
	req, err := handlers.FromHTTP(c.Request)
	if err != nil {
		s.logger.Errorf("Failed to read request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}
	req.ClientIP = c.ClientIP()

	resp := s.router.Dispatch(c.Request.Context(), req)
	if resp.Raw != nil {
		c.Data(resp.Status, resp.ContentType, resp.Raw)
		return
	}
	c.JSON(resp.Status, resp.Body)
}

// requestID tags every request with an id, reusing one supplied by the caller
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// requestLogger logs one line per request
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		})

		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Error("Request failed")
			return
		}
		entry.Info("Handled request")
	}
}
