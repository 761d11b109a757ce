// Package server exposes the running timer over a small JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alkime/pomodoro/internal/config"
	"github.com/alkime/pomodoro/internal/timer"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Controller is the slice of runner.Runner the API needs.
type Controller interface {
	Do(ctx context.Context, fn func(*timer.Timer) error) error
	Snapshot(ctx context.Context) (timer.State, error)
	Settings() timer.Settings
}

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *slog.Logger
	router *gin.Engine

	timer  Controller
	sounds timer.SoundBank
	token  string
}

// New creates a new Server. A non-empty token protects mutating routes.
func New(cfg *config.Config, logger *slog.Logger, ctrl Controller, sounds timer.SoundBank, token string) *Server {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	server := &Server{
		config: cfg,
		logger: logger,
		router: router,
		timer:  ctrl,
		sounds: sounds,
		token:  token,
	}

	setupSecurityMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server
}

// Router returns the HTTP handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", s.config.Addr, "auth", s.token != "")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api/v1")
	{
		api.GET("/timer", s.handleGetTimer)
		api.GET("/presets", s.handleListPresets)
		api.GET("/presets/:name/wav", s.handlePresetWAV)

		control := api.Group("/timer", requireToken(s.token))
		control.POST("/toggle", s.handleCommand(func(t *timer.Timer) { t.ToggleRunning() }))
		control.POST("/reset", s.handleCommand(func(t *timer.Timer) { t.Reset() }))
		control.POST("/skip", s.handleCommand(func(t *timer.Timer) { t.Skip() }))
		control.PUT("/preset", s.handleSelectPreset)
	}

	// a web front end, when one is deployed next to the binary
	if s.config.PublicDir != "" {
		s.router.Use(static.Serve("/", static.LocalFile(s.config.PublicDir, false)))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pomodoro",
	})
}
