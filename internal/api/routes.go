package api

import (
	"net/http"
	"strconv"

	"texthub/internal/auth"
	"texthub/internal/metrics"
	"texthub/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers all endpoints. authGate guards the text-transform
// routes; everything else is public.
func SetupRoutes(router *gin.Engine, handler *Handler, authGate gin.HandlerFunc, m *metrics.Metrics) {
	// Browser clients call the API from any origin, so CORS is wide open.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", auth.APIKeyHeader, middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))
	router.Use(requestMetrics(m))

	router.GET("/", handler.HealthHandler)
	router.GET("/health", handler.HealthHandler)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/health", handler.DetailedHealthHandler)
		apiGroup.POST("/generate-key", handler.GenerateKeyHandler)

		protected := apiGroup.Group("")
		protected.Use(authGate)
		{
			protected.POST("/extract-emails", handler.ExtractEmailsHandler)
			protected.POST("/format-phone", handler.FormatPhoneHandler)
			protected.POST("/convert-case", handler.ConvertCaseHandler)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "not_found",
			"detail":  "The requested endpoint " + c.Request.URL.Path + " does not exist.",
		})
	})
}

// requestMetrics counts finished requests by route and status.
func requestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
