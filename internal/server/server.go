// Package server serves published trending documents over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ghtrending/ghtrending/internal/stars"
	"github.com/ghtrending/ghtrending/pkg/filesystem"
	"github.com/ghtrending/ghtrending/pkg/trending"
)

// shutdownTimeout is how long in-flight requests get after the context ends
const shutdownTimeout = 30 * time.Second

// Config holds server settings
type Config struct {
	Addr         string
	DataDir      string
	AllowOrigins []string
	CacheMaxAge  int // Seconds
}

// Server serves the documents written by the publisher
type Server struct {
	config Config
	router *gin.Engine
}

// New creates a server and registers its routes
func New(config Config) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	if corsConfig, ok := corsFor(config.AllowOrigins); ok {
		router.Use(cors.New(corsConfig))
	}

	s := &Server{config: config, router: router}

	router.GET("/healthz", s.health)
	router.GET("/trends/stars/:file", s.document)
	router.HEAD("/trends/stars/:file", s.document)

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", s.config.Addr, "dataDir", s.config.DataDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func corsFor(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}

	config := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Accept", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return config, true
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("Handled request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// document serves /trends/stars/{range}.json
func (s *Server) document(c *gin.Context) {
	key, ok := strings.CutSuffix(c.Param("file"), trending.DefaultSuffix)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	r, err := trending.ParseRange(key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown range"})
		return
	}

	data, err := filesystem.ReadFile(stars.DocumentPath(s.config.DataDir, r))
	if err != nil {
		if errors.Is(err, filesystem.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not published"})
			return
		}
		slog.Error("Failed to read trending document", "range", r, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Header("Cache-Control", fmt.Sprintf("public,max-age=%d", s.config.CacheMaxAge))
	c.Data(http.StatusOK, "application/json", data)
}
