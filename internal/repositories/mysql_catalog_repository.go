package repositories

import (
	"context"
	"database/sql"
	"time"

	"schemagraph/internal/models"
)

const mysqlColumnsQuery = `
	SELECT
		c.table_name,
		c.column_name,
		c.data_type,
		c.ordinal_position
	FROM information_schema.columns c
	WHERE c.table_schema = ?
	ORDER BY c.table_name, c.ordinal_position
`

const mysqlConstraintsQuery = `
	SELECT
		kcu.table_name,
		tc.constraint_type,
		kcu.constraint_name,
		kcu.column_name,
		kcu.referenced_table_name,
		kcu.referenced_column_name
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
		ON kcu.constraint_schema = tc.constraint_schema
		AND kcu.constraint_name = tc.constraint_name
		AND kcu.table_name = tc.table_name
	WHERE tc.table_schema = ?
		AND tc.constraint_type IN ('PRIMARY KEY', 'FOREIGN KEY')
	ORDER BY kcu.table_name, kcu.constraint_name, kcu.ordinal_position
`

// MySQLCatalogRepository reads the catalog of one MySQL database.
type MySQLCatalogRepository struct {
	db     *sql.DB
	schema string
}

func NewMySQLCatalogRepository(db *sql.DB, schema string) *MySQLCatalogRepository {
	return &MySQLCatalogRepository{db: db, schema: schema}
}

var _ CatalogRepository = (*MySQLCatalogRepository)(nil)

func (r *MySQLCatalogRepository) GetColumnRows(ctx context.Context) ([]models.ColumnRow, error) {
	ctx, span := startQuerySpan(ctx, "columns", r.schema)
	defer span.End()
	defer observeQuery("columns", time.Now())

	columns, err := scanColumnRows(r.db.QueryContext(ctx, mysqlColumnsQuery, r.schema))
	if err != nil {
		return nil, recordQueryError(span, "columns", err)
	}
	return columns, nil
}

func (r *MySQLCatalogRepository) GetConstraintRows(ctx context.Context) ([]models.ConstraintRow, error) {
	ctx, span := startQuerySpan(ctx, "constraints", r.schema)
	defer span.End()
	defer observeQuery("constraints", time.Now())

	constraints, err := scanConstraintRows(r.db.QueryContext(ctx, mysqlConstraintsQuery, r.schema))
	if err != nil {
		return nil, recordQueryError(span, "constraints", err)
	}
	return constraints, nil
}

func (r *MySQLCatalogRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *MySQLCatalogRepository) Close() {
	_ = r.db.Close()
}

// scanColumnRows drains (table, column, type, position) rows from a database/sql query.
func scanColumnRows(rows *sql.Rows, err error) ([]models.ColumnRow, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []models.ColumnRow
	for rows.Next() {
		var col models.ColumnRow
		if err := rows.Scan(&col.TableName, &col.ColumnName, &col.DataType, &col.OrdinalPosition); err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// scanConstraintRows drains constraint rows. Extra trailing columns are scanned and dropped.
func scanConstraintRows(rows *sql.Rows, err error) ([]models.ConstraintRow, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var constraints []models.ConstraintRow
	for rows.Next() {
		var c models.ConstraintRow
		var kind string
		dest := []any{&c.TableName, &kind, &c.ConstraintName, &c.ColumnName, &c.ForeignTable, &c.ForeignColumn}
		for i := len(dest); i < len(names); i++ {
			dest = append(dest, new(any))
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		c.ConstraintType = models.ConstraintKind(kind)
		c.ForeignTable = nullableString(c.ForeignTable)
		c.ForeignColumn = nullableString(c.ForeignColumn)
		constraints = append(constraints, c)
	}

	return constraints, rows.Err()
}
