package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"schemagraph/internal/models"
	"schemagraph/internal/observability"
	"schemagraph/internal/repositories"
)

// ErrCatalogUnavailable wraps any failure to read the database catalog.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

type SchemaService struct {
	catalog      repositories.CatalogRepository
	queryTimeout time.Duration
}

// NewSchemaService creates a new SchemaService. A zero queryTimeout means no per-call deadline.
func NewSchemaService(catalog repositories.CatalogRepository, queryTimeout time.Duration) *SchemaService {
	return &SchemaService{
		catalog:      catalog,
		queryTimeout: queryTimeout,
	}
}

// GetSchema reads columns and constraints concurrently and reconciles them.
func (s *SchemaService) GetSchema(ctx context.Context) (*models.SchemaGraph, error) {
	ctx, span := observability.Tracer.Start(ctx, "SchemaService.GetSchema")
	defer span.End()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var columnRows []models.ColumnRow
	var constraintRows []models.ConstraintRow

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.catalog.GetColumnRows(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch columns: %w", err)
		}
		columnRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.catalog.GetConstraintRows(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch constraints: %w", err)
		}
		constraintRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	start := time.Now()
	graph, stats := ReconcileWithStats(columnRows, constraintRows)
	observability.ReconcileDuration.Observe(time.Since(start).Seconds())

	recordStats(stats)
	observability.SchemaTables.Set(float64(len(graph.Tables)))
	observability.SchemaRelationships.Set(float64(len(graph.Relationships)))

	span.SetAttributes(
		attribute.Int("schema.tables", len(graph.Tables)),
		attribute.Int("schema.relationships", len(graph.Relationships)),
		attribute.Int("schema.skipped_constraints", stats.Skipped()),
	)

	if stats.SkippedMalformedFK > 0 {
		slog.WarnContext(ctx, "foreign key rows without a reference target were dropped",
			"count", stats.SkippedMalformedFK)
	}
	if stats.Skipped() > 0 {
		slog.DebugContext(ctx, "constraint rows skipped during reconciliation",
			"unknown_table", stats.SkippedUnknownTable,
			"unknown_column", stats.SkippedUnknownColumn,
			"malformed_fk", stats.SkippedMalformedFK,
			"ignored_kind", stats.IgnoredKinds)
	}

	return &graph, nil
}

// GetConstraints returns the raw constraint rows without reconciliation.
func (s *SchemaService) GetConstraints(ctx context.Context) ([]models.ConstraintRow, error) {
	ctx, span := observability.Tracer.Start(ctx, "SchemaService.GetConstraints")
	defer span.End()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.catalog.GetConstraintRows(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: failed to fetch constraints: %w", ErrCatalogUnavailable, err)
	}
	if rows == nil {
		rows = []models.ConstraintRow{}
	}
	return rows, nil
}

// GetMermaid renders the current schema as a Mermaid ER diagram.
func (s *SchemaService) GetMermaid(ctx context.Context) (string, error) {
	graph, err := s.GetSchema(ctx)
	if err != nil {
		return "", err
	}
	return GenerateMermaid(*graph), nil
}

// GetDiagram projects the current schema onto diagram nodes and edges.
func (s *SchemaService) GetDiagram(ctx context.Context) (*models.Diagram, error) {
	graph, err := s.GetSchema(ctx)
	if err != nil {
		return nil, err
	}
	diagram := ProjectDiagram(*graph)
	return &diagram, nil
}

// Ready reports whether the catalog answers a ping.
func (s *SchemaService) Ready(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.catalog.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return nil
}

func (s *SchemaService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func recordStats(stats ReconcileStats) {
	skipped := observability.ReconcileSkippedRowsTotal
	skipped.WithLabelValues("unknown_table").Add(float64(stats.SkippedUnknownTable))
	skipped.WithLabelValues("unknown_column").Add(float64(stats.SkippedUnknownColumn))
	skipped.WithLabelValues("malformed_fk").Add(float64(stats.SkippedMalformedFK))
	skipped.WithLabelValues("ignored_kind").Add(float64(stats.IgnoredKinds))
}
