package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"schemagraph/internal/models"
	"schemagraph/internal/responses"
)

// SchemaProvider is the part of the schema service the handlers need.
type SchemaProvider interface {
	GetSchema(ctx context.Context) (*models.SchemaGraph, error)
	GetConstraints(ctx context.Context) ([]models.ConstraintRow, error)
	GetMermaid(ctx context.Context) (string, error)
	GetDiagram(ctx context.Context) (*models.Diagram, error)
}

type SchemaHandler struct {
	schemaService SchemaProvider
}

func NewSchemaHandler(schemaService SchemaProvider) *SchemaHandler {
	return &SchemaHandler{
		schemaService: schemaService,
	}
}

// GetSchema handles GET /api/schema
func (h *SchemaHandler) GetSchema(c *gin.Context) {
	graph, err := h.schemaService.GetSchema(c.Request.Context())
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to fetch schema")
		return
	}

	responses.Success(c, http.StatusOK, graph)
}

// GetConstraints handles GET /api/constraints. Rows are returned unreconciled.
func (h *SchemaHandler) GetConstraints(c *gin.Context) {
	rows, err := h.schemaService.GetConstraints(c.Request.Context())
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to fetch constraints")
		return
	}

	responses.Success(c, http.StatusOK, gin.H{"rows": rows})
}

// GetMermaid handles GET /api/schema/mermaid
func (h *SchemaHandler) GetMermaid(c *gin.Context) {
	diagram, err := h.schemaService.GetMermaid(c.Request.Context())
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to render schema")
		return
	}

	responses.Success(c, http.StatusOK, gin.H{"mermaid": diagram})
}

// GetDiagram handles GET /api/diagram
func (h *SchemaHandler) GetDiagram(c *gin.Context) {
	diagram, err := h.schemaService.GetDiagram(c.Request.Context())
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to build diagram")
		return
	}

	responses.Success(c, http.StatusOK, diagram)
}
