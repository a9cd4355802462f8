package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"texthub/internal/api"
	"texthub/internal/auth"
	"texthub/internal/config"
	"texthub/internal/keystore"
	"texthub/internal/logger"
	"texthub/internal/metrics"
	"texthub/internal/middleware"
	"texthub/internal/ratelimit"
	"texthub/internal/scheduler"

	"github.com/gin-gonic/gin"
)

// customRecovery is a middleware that recovers from panics and handles http.ErrAbortHandler gracefully.
func customRecovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				if recovered == http.ErrAbortHandler {
					log.Warn("Client connection aborted", "path", c.Request.URL.Path)
					c.Abort()
					return
				}

				log.Error("Panic recovered",
					"error", recovered,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   "internal_error",
					"detail":  "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

func main() {
	// Load configuration
	cfg, warning, err := config.LoadConfig("config.yaml")
	if err != nil {
		// Use a temporary logger for startup errors
		slog.Error("Error loading configuration", "error", err)
		os.Exit(1)
	}

	// Setup logger
	log := logger.New(cfg.LogFormat, cfg.Debug)
	log.Info("Logger initialized", "debug_mode", cfg.Debug, "format", cfg.LogFormat)
	if warning != "" {
		log.Warn(warning)
	}

	// Shared state owned here and handed to the auth gate by reference.
	masterKeys := config.ParseMasterKeys(cfg.MasterKeys)
	keys := keystore.New(masterKeys, time.Duration(cfg.DemoKeyTTLHours)*time.Hour)
	log.Info("Key store initialized", "master_keys", len(masterKeys), "demo_key_ttl_hours", cfg.DemoKeyTTLHours)

	limiter := ratelimit.NewLimiter(cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second)
	log.Info("Rate limiter initialized", "requests", cfg.RateLimit.Requests, "window_seconds", cfg.RateLimit.WindowSeconds)

	// Start the scheduler that drops stale rate-limit counters.
	sched := scheduler.New(limiter, log)
	sched.Start()
	log.Info("Scheduler started")

	m := metrics.New()

	// Create a Gin router
	router := gin.New()
	// Use our custom recovery middleware instead of the default one.
	router.Use(customRecovery(log))
	router.Use(middleware.RequestID())

	// If debug mode is enabled, add the logger middleware
	if cfg.Debug {
		// This uses the default gin logger, which is fine for development.
		router.Use(gin.Logger())
	}

	handler := api.NewHandler(keys, cfg.RateLimit, m, log)
	api.SetupRoutes(router, handler, auth.Middleware(keys, limiter, m, log), m)

	// Create and start the main server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// Stop the scheduler's background job
	sched.Stop()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exiting")
}
