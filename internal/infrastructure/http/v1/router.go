package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xy2yp/Artify/internal/infrastructure/http/v1/handler"
	"github.com/xy2yp/Artify/pkg/logger"
	"github.com/xy2yp/Artify/pkg/telemetry"
)

func NewRouter(handler *handler.Handler, l logger.Logger, telemetryEnabled bool) *gin.Engine {
	r := gin.Default()

	r.Use(gin.Recovery())

	// Add OpenTelemetry middleware if enabled
	if telemetryEnabled {
		r.Use(telemetry.GinMiddleware("artify-workbench"))
	}

	r.Use(ginZapLogger(l))

	api := r.Group("/api")
	v1 := api.Group("/v1")

	v1.GET("/healthz", handler.Healthz)

	prompts := v1.Group("/prompts")
	{
		prompts.GET("", handler.ListPrompts)
		prompts.GET("/:id", handler.GetPrompt)
		prompts.POST("", handler.CreatePrompt)
		prompts.PUT("/:id", handler.UpdatePrompt)
		prompts.PATCH("/:id/image", handler.UpdatePromptImage)
		prompts.DELETE("/:id", handler.DeletePrompt)
		prompts.POST("/backfill", handler.BackfillImages)
	}

	sync := v1.Group("/sync")
	{
		sync.POST("", handler.SyncPrompts)
		sync.GET("/status", handler.SyncStatus)
	}

	cache := v1.Group("/cache")
	{
		cache.GET("/stats", handler.CacheStats)
		cache.POST("/invalidate", handler.InvalidateCache)
	}

	slicer := v1.Group("/slicer")
	{
		slicer.POST("/slice", handler.Slice)
		slicer.POST("/archive", handler.SliceArchive)
		slicer.POST("/export", handler.SliceExport)
	}

	// Prometheus metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func ginZapLogger(l logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("logger", l)

		start := time.Now()

		c.Next()

		end := time.Now()
		latency := end.Sub(start)

		l.Info("request",
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
			"latency", latency,
			"size", c.Writer.Size(),
		)
	}
}
