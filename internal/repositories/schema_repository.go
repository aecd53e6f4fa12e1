package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"schemagraph/internal/models"
	"schemagraph/internal/observability"
)

const postgresColumnsQuery = `
	SELECT
		c.table_name::text,
		c.column_name::text,
		c.data_type::text,
		c.ordinal_position::int
	FROM information_schema.columns c
	WHERE c.table_schema = $1
	ORDER BY c.table_name, c.ordinal_position
`

// Read from pg_constraint rather than information_schema so foreign keys that reference
// a unique index (not a unique constraint) still resolve. conkey and confkey are unnested
// side by side, which pairs composite keys column by column. For primary keys confkey is
// NULL and the foreign fields come back NULL.
const postgresConstraintsQuery = `
	SELECT
		cl.relname::text AS table_name,
		CASE con.contype WHEN 'p' THEN 'PRIMARY KEY' ELSE 'FOREIGN KEY' END AS constraint_type,
		con.conname::text AS constraint_name,
		a.attname::text AS column_name,
		fcl.relname::text AS foreign_table,
		fa.attname::text AS foreign_column
	FROM pg_catalog.pg_constraint con
	JOIN pg_catalog.pg_class cl ON cl.oid = con.conrelid
	JOIN pg_catalog.pg_namespace n ON n.oid = cl.relnamespace
	CROSS JOIN LATERAL unnest(con.conkey, con.confkey) WITH ORDINALITY AS k(attnum, fattnum, position)
	JOIN pg_catalog.pg_attribute a
		ON a.attrelid = con.conrelid
		AND a.attnum = k.attnum
	LEFT JOIN pg_catalog.pg_class fcl ON fcl.oid = con.confrelid
	LEFT JOIN pg_catalog.pg_attribute fa
		ON fa.attrelid = con.confrelid
		AND fa.attnum = k.fattnum
	WHERE n.nspname = $1
		AND con.contype IN ('p', 'f')
	ORDER BY cl.relname, con.conname, k.position
`

type PostgresCatalogRepository struct {
	pool   *pgxpool.Pool
	schema string
}

func NewPostgresCatalogRepository(pool *pgxpool.Pool, schema string) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{pool: pool, schema: schema}
}

var _ CatalogRepository = (*PostgresCatalogRepository)(nil)

// GetColumnRows returns all columns of the configured schema
func (r *PostgresCatalogRepository) GetColumnRows(ctx context.Context) ([]models.ColumnRow, error) {
	ctx, span := startQuerySpan(ctx, "columns", r.schema)
	defer span.End()
	defer observeQuery("columns", time.Now())

	rows, err := r.pool.Query(ctx, postgresColumnsQuery, r.schema)
	if err != nil {
		return nil, recordQueryError(span, "columns", err)
	}
	defer rows.Close()

	var columns []models.ColumnRow
	for rows.Next() {
		var col models.ColumnRow
		var ordinal int32
		if err := rows.Scan(&col.TableName, &col.ColumnName, &col.DataType, &ordinal); err != nil {
			return nil, recordQueryError(span, "columns", err)
		}
		col.OrdinalPosition = int(ordinal)
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, recordQueryError(span, "columns", err)
	}

	return columns, nil
}

// GetConstraintRows returns primary and foreign key rows of the configured schema
func (r *PostgresCatalogRepository) GetConstraintRows(ctx context.Context) ([]models.ConstraintRow, error) {
	ctx, span := startQuerySpan(ctx, "constraints", r.schema)
	defer span.End()
	defer observeQuery("constraints", time.Now())

	rows, err := r.pool.Query(ctx, postgresConstraintsQuery, r.schema)
	if err != nil {
		return nil, recordQueryError(span, "constraints", err)
	}
	defer rows.Close()

	var constraints []models.ConstraintRow
	for rows.Next() {
		var c models.ConstraintRow
		var kind string
		if err := rows.Scan(&c.TableName, &kind, &c.ConstraintName, &c.ColumnName, &c.ForeignTable, &c.ForeignColumn); err != nil {
			return nil, recordQueryError(span, "constraints", err)
		}
		c.ConstraintType = models.ConstraintKind(kind)
		c.ForeignTable = nullableString(c.ForeignTable)
		c.ForeignColumn = nullableString(c.ForeignColumn)
		constraints = append(constraints, c)
	}

	if err := rows.Err(); err != nil {
		return nil, recordQueryError(span, "constraints", err)
	}

	return constraints, nil
}

func (r *PostgresCatalogRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresCatalogRepository) Close() {
	r.pool.Close()
}

func startQuerySpan(ctx context.Context, query, schema string) (context.Context, trace.Span) {
	return observability.Tracer.Start(ctx, "catalog."+query,
		trace.WithAttributes(attribute.String("db.schema", schema)))
}

func observeQuery(query string, start time.Time) {
	observability.CatalogQueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}

func recordQueryError(span trace.Span, query string, err error) error {
	observability.CatalogQueryErrorsTotal.WithLabelValues(query).Inc()
	span.RecordError(err)
	return err
}
