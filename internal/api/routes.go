package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/labmedia/related-videos/internal/config"
	"github.com/labmedia/related-videos/internal/middleware"
	"github.com/labmedia/related-videos/internal/telemetry"
)

// SetupRoutes configures the service routes. Health routes are registered
// separately by the server.
func SetupRoutes(
	router *gin.Engine,
	handlers Handlers,
	rateLimit config.RateLimitConfig,
	done <-chan struct{},
) {
	router.GET("/metrics", gin.WrapH(telemetry.Handler()))

	videos := router.Group("/videos")
	videos.GET("/:id/related", handlers.Related.HandleRelated)

	// Click recording with bot filter and per-IP rate limiting.
	window := time.Duration(rateLimit.WindowSeconds) * time.Second
	click := videos.Group("")
	click.Use(middleware.BotFilter())
	click.Use(middleware.RateLimiter(rateLimit.MaxClicksPerMinute, window, done))
	click.POST("/:id/click", handlers.Click.HandleClick)
}
