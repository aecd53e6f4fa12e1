package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"schemagraph/internal/handlers"
)

func RegisterRoutes(router *gin.Engine, schemaHandler *handlers.SchemaHandler, healthHandler *handlers.HealthHandler, apiMiddlewares ...gin.HandlerFunc) {
	api := router.Group("/api", apiMiddlewares...)

	schemaRoutes := NewSchemaRoutes(schemaHandler)
	schemaRoutes.RegisterRoutes(api)

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
