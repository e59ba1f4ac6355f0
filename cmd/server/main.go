package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetlite/internal/core/services"
	httphandlers "meetlite/internal/handlers/http"
	"meetlite/internal/infrastructure/middleware"
	"meetlite/internal/infrastructure/monitoring"
	repositories "meetlite/internal/infrastructure/repositories"
	"meetlite/pkg/config"
	"meetlite/pkg/logger"
	"meetlite/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Try multiple config paths
	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"/etc/meetlite/config.yaml",
		"config.yaml",
	}

	var cfg *config.Config
	var err error

	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}

	// Missing signing material must never be served around; refuse to start.
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()

	logg := zapLogger.Sugar()

	// Initialize tracing
	tracingCfg := tracing.DefaultConfig()
	tracingCfg.Enabled = cfg.Tracing.Enabled
	tracingCfg.JaegerURL = cfg.Tracing.JaegerURL
	tracingCfg.SampleRate = cfg.Tracing.SampleRate
	tp, err := tracing.Init(tracingCfg)
	if err != nil {
		logg.Fatalw("failed to initialize tracing", "error", err)
	}

	// Initialize the passcode registry (Redis with TTL, or memory fallback)
	repoFactory, err := repositories.NewRepositoryFactory(cfg, logg)
	if err != nil {
		logg.Fatalw("failed to create repository factory", "error", err)
	}
	defer repoFactory.Close()

	meetingRepo := repoFactory.CreateMeetingRepository()

	// Initialize services
	admissionService := services.NewAdmissionService(meetingRepo, logg)
	tokenService := services.NewTokenService(
		cfg.LiveKit.APIKey,
		cfg.LiveKit.APISecret,
		cfg.LiveKit.URL,
		cfg.LiveKit.TokenTTL,
	)

	// Initialize monitoring
	var collector *monitoring.PrometheusCollector
	if cfg.Monitoring.PrometheusEnabled {
		collector = monitoring.NewPrometheusCollector()
	}

	admissionHandler := httphandlers.NewAdmissionHandler(admissionService, tokenService, collector, logg)

	// Configure Gin
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(logg))
	router.Use(middleware.ErrorHandlerMiddleware(logg))
	router.Use(middleware.NewHTTPRateLimitMiddleware(cfg))
	if cfg.Tracing.Enabled {
		router.Use(middleware.TracingMiddleware())
	}

	admissionHandler.SetupRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"uptime": time.Since(startTime).String(),
		})
	})

	if cfg.Monitoring.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logg.Infow("starting MeetLite admission server",
			"address", cfg.Server.Address,
			"livekit_url", cfg.LiveKit.URL,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatalw("server failed", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logg.Errorw("forced shutdown", "error", err)
	}
	if err := tp.Shutdown(ctx); err != nil {
		logg.Errorw("tracing shutdown failed", "error", err)
	}

	logg.Info("server stopped")
}
