package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"schemagraph/internal/config"
	"schemagraph/internal/handlers"
	"schemagraph/internal/middlewares"
	"schemagraph/internal/repositories"
	"schemagraph/internal/routes"
	"schemagraph/internal/services"
)

// Service is what the router needs from the schema layer.
type Service interface {
	handlers.SchemaProvider
	handlers.ReadinessChecker
}

// NewServer connects to the catalog and returns a configured HTTP server plus a
// cleanup func that releases the database connection.
func NewServer(ctx context.Context, cfg *config.Config) (*http.Server, func(), error) {
	catalog, err := repositories.NewCatalogRepository(ctx, cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up catalog repository: %w", err)
	}

	// Dependency injection
	schemaService := services.NewSchemaService(catalog, cfg.DB.QueryTimeout)
	router := NewRouter(cfg, schemaService)

	// Create and configure the HTTP server
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server, catalog.Close, nil
}

// NewRouter builds the gin engine with middlewares and routes registered.
func NewRouter(cfg *config.Config, svc Service) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middlewares.RequestID,
		middlewares.Logger,
		middlewares.Metrics,
		cors.New(corsConfig(cfg.Server.CORSAllowedOrigins)),
	)

	schemaHandler := handlers.NewSchemaHandler(svc)
	healthHandler := handlers.NewHealthHandler(svc)

	routes.RegisterRoutes(router, schemaHandler, healthHandler,
		middlewares.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{http.MethodGet, http.MethodOptions}
	c.ExposeHeaders = []string{middlewares.RequestIDHeader}

	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}
