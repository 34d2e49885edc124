package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/JustJay7/court-case-resolver/internal/api"
	"github.com/JustJay7/court-case-resolver/internal/cache"
	"github.com/JustJay7/court-case-resolver/internal/config"
	"github.com/JustJay7/court-case-resolver/internal/documents"
	"github.com/JustJay7/court-case-resolver/internal/ledger"
	"github.com/JustJay7/court-case-resolver/internal/resolver"
	"github.com/JustJay7/court-case-resolver/internal/source"
	"github.com/JustJay7/court-case-resolver/internal/store"
	"github.com/JustJay7/court-case-resolver/internal/summary"
	"github.com/JustJay7/court-case-resolver/pkg/logger"
)

type Server struct {
	cfg    *config.Config
	logger *logger.Logger
	router *gin.Engine
	portal *source.PortalAdapter // nil in fixture mode
}

func New(cfg *config.Config, db *gorm.DB, log *logger.Logger) (*Server, error) {
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	caseStore := store.New(db)
	queryLedger := ledger.New(db)
	hotCache := cache.New(cfg.CacheSize, cfg.CacheTTL)
	summarizer := summary.NewGroqSummarizer(cfg, log)
	downloader := documents.NewDownloader(caseStore, cfg, log)

	var adapter source.Adapter
	var portal *source.PortalAdapter
	if cfg.SourceMode == "portal" {
		p, err := source.NewPortalAdapter(cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize portal adapter: %w", err)
		}
		adapter = p
		portal = p
	} else {
		adapter = source.NewFixtureAdapter()
	}

	res := resolver.New(caseStore, queryLedger, hotCache, adapter, summarizer, log)
	api.SetupRoutes(router, res, caseStore, queryLedger, hotCache, downloader, log)

	return &Server{
		cfg:    cfg,
		logger: log,
		router: router,
		portal: portal,
	}, nil
}

func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("Failed to start server", "error", err)
		}
	}()

	s.logger.Info("Server started", "address", srv.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if s.portal != nil {
		if err := s.portal.Close(); err != nil {
			s.logger.Error("Failed to close portal adapter", "error", err)
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		return err
	}

	s.logger.Info("Server exited gracefully")
	return nil
}

func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			"client_ip", c.ClientIP(),
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", latency.String(),
			"user_agent", c.Request.UserAgent(),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
