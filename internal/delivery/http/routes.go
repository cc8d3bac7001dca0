package http

import (
	"github.com/JoudMawad/Ignite-sub000/config"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		labels := v1.Group("/labels")
		labels.Use(BodyLimitMiddleware(labelBodyLimit(cfg.Parser.MaxTextBytes)))
		{
			labels.POST("/parse", handler.ParseLabel)
		}

		foods := v1.Group("/foods")
		{
			foods.POST("/search", handler.SearchFood)
		}
	}

	return router
}

// jsonEscapeFactor covers label text growing when JSON-escaped ("\n", "\u00e4")
const jsonEscapeFactor = 3

// labelBodyLimit is the request body cap for a label of maxTextBytes; the service enforces the exact text limit
func labelBodyLimit(maxTextBytes int) int64 {
	if maxTextBytes <= 0 {
		return 0
	}
	return int64(maxTextBytes)*jsonEscapeFactor + 1024
}
