// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pdiddy/civic-search/internal/logging"
)

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(handler *Handler, log *zap.Logger) *gin.Engine {
	log = logging.OrNop(log)
	router := gin.New()
	router.Use(RequestIDMiddleware(), LoggerMiddleware(log), RecoveryMiddleware(log))
	SetupRoutes(router, handler)
	return router
}

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handler.HealthCheck)

		search := v1.Group("/search")
		search.GET("", handler.Search)
		search.POST("", handler.Search)
		search.GET("/suggestions", handler.Suggestions)
	}
}
