package routes

import (
	"github.com/gin-gonic/gin"

	"schemagraph/internal/handlers"
)

type SchemaRoutes struct {
	handler *handlers.SchemaHandler
}

func NewSchemaRoutes(handler *handlers.SchemaHandler) *SchemaRoutes {
	return &SchemaRoutes{handler: handler}
}

func (r *SchemaRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/schema", r.handler.GetSchema)
	router.GET("/schema/mermaid", r.handler.GetMermaid)
	router.GET("/diagram", r.handler.GetDiagram)
	router.GET("/constraints", r.handler.GetConstraints)
}
