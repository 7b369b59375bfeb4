package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/site-auditor/backend/analyzer"
	"github.com/site-auditor/backend/config"
	"github.com/site-auditor/backend/logging"
	"github.com/site-auditor/backend/middleware"
	"github.com/site-auditor/backend/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	gin.SetMode(cfg.GinMode)

	storage, err := stats.NewStorage(cfg.DataDir, log)
	if err != nil {
		log.Fatal("failed to initialize stats storage", zap.Error(err))
	}

	srv := &server{
		audit: analyzer.New(analyzer.Options{
			PageSpeedAPIKey:       cfg.PageSpeedAPIKey,
			LinkCheckConcurrency:  cfg.LinkCheckConcurrency,
			BlockPrivateAddresses: cfg.BlockPrivateAddresses,
			Logger:                log,
		}),
		stats: storage,
		log:   log,
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := middleware.NewMetrics(registry)
	rateLimiter := middleware.NewRateLimiter(2, 5) // 2 requests per second, bucket size of 5

	r := gin.New()
	r.Use(middleware.ErrorHandler(log))
	r.Use(middleware.RequestID())
	r.Use(metrics.Handler())
	r.Use(requestLogger(log))
	r.Use(cors())
	r.Use(rateLimiter.RateLimit())

	api := r.Group("/api")
	{
		api.GET("/health", srv.handleHealth)
		api.POST("/audit", srv.handleAudit)
		api.GET("/speed", srv.handleSpeed)
		api.GET("/meta", srv.handleMeta)
		api.GET("/links", srv.handleLinks)
		api.GET("/robots", srv.handleRobots)
		api.GET("/headers", srv.handleHeaders)
		api.GET("/statistics", srv.handleStatistics)
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if err := storage.Shutdown(); err != nil {
		log.Error("stats shutdown failed", zap.Error(err))
	}
}

// cors allows the frontend to call the API from any origin.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", middleware.RequestIDFrom(c)),
		)
	}
}
