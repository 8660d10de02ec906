// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes journal recommendation over HTTP with gin.
//
// Routes:
//
//	POST /api/v1/recommend   research input in, ranked journals out
//	POST /api/v1/journals    raw query in, ranked journals out
//	GET  /api/v1/history     saved runs (when history is enabled)
//	GET  /api/v1/history/:id one saved run
//	GET  /healthz            liveness
//	GET  /metrics            Prometheus exposition
//
// Every request builds its own OpenAlex client; nothing is shared between
// requests except the metrics registry and the optional history store.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pdiddy/venue-engine/internal/history"
	"github.com/pdiddy/venue-engine/internal/metrics"
	"github.com/pdiddy/venue-engine/internal/refine"
	"github.com/pdiddy/venue-engine/pkg/types"
)

// DefaultAddr is the listen address used when the configuration leaves it
// empty.
const DefaultAddr = ":8080"

// Options configures a Server.
type Options struct {
	Config types.Config

	// Refiner cleans research inputs; refine.Local{} when nil.
	Refiner refine.Refiner

	// History, when set, receives every successful run.
	History *history.Store

	// Registry collects metrics and backs /metrics. A fresh registry is
	// created when nil.
	Registry *prometheus.Registry

	Logger *zap.Logger
}

// Server is the HTTP front end.
type Server struct {
	cfg      types.Config
	refiner  refine.Refiner
	history  *history.Store
	registry *prometheus.Registry
	metrics  *metrics.Recorder
	logger   *zap.Logger
	engine   *gin.Engine
}

// New wires the routes and middleware.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Refiner == nil {
		opts.Refiner = refine.Local{}
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	s := &Server{
		cfg:      opts.Config,
		refiner:  opts.Refiner,
		history:  opts.History,
		registry: opts.Registry,
		metrics:  metrics.New(opts.Registry),
		logger:   opts.Logger.Named("server"),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	api.Use(apiKeyAuthMiddleware(s.cfg.Server.APIKey))
	api.POST("/recommend", s.handleRecommend)
	api.POST("/journals", s.handleJournals)
	api.GET("/history", s.handleHistoryList)
	api.GET("/history/:id", s.handleHistoryGet)

	s.engine = router
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Server.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func apiKeyAuthMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-KEY") != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}
