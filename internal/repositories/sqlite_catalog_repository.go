package repositories

import (
	"context"
	"database/sql"
	"time"

	"schemagraph/internal/models"
)

const sqliteColumnsQuery = `
	SELECT
		m.name,
		p.name,
		p.type,
		p.cid + 1
	FROM sqlite_master m
	JOIN pragma_table_info(m.name) p
	WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%'
	ORDER BY m.name, p.cid
`

// A foreign key declared without a column list ("REFERENCES parent") reports NULL in
// "to" and targets the parent's primary key, so the column is looked up by position.
// It stays NULL only when the parent has no primary key.
const sqliteConstraintsQuery = `
	SELECT
		m.name,
		'PRIMARY KEY',
		'pk_' || m.name,
		p.name,
		NULL,
		NULL,
		p.pk AS seq
	FROM sqlite_master m
	JOIN pragma_table_info(m.name) p
	WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%' AND p.pk > 0
	UNION ALL
	SELECT
		m.name,
		'FOREIGN KEY',
		'fk_' || m.name || '_' || f.id,
		f."from",
		f."table",
		COALESCE(f."to", (
			SELECT parent.name
			FROM pragma_table_info(f."table") parent
			WHERE parent.pk = f.seq + 1
		)),
		f.seq
	FROM sqlite_master m
	JOIN pragma_foreign_key_list(m.name) f
	WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%'
	ORDER BY 1, 3, 7
`

// SQLiteCatalogRepository reads the catalog of the main SQLite database.
type SQLiteCatalogRepository struct {
	db *sql.DB
}

func NewSQLiteCatalogRepository(db *sql.DB) *SQLiteCatalogRepository {
	return &SQLiteCatalogRepository{db: db}
}

var _ CatalogRepository = (*SQLiteCatalogRepository)(nil)

func (r *SQLiteCatalogRepository) GetColumnRows(ctx context.Context) ([]models.ColumnRow, error) {
	ctx, span := startQuerySpan(ctx, "columns", "main")
	defer span.End()
	defer observeQuery("columns", time.Now())

	columns, err := scanColumnRows(r.db.QueryContext(ctx, sqliteColumnsQuery))
	if err != nil {
		return nil, recordQueryError(span, "columns", err)
	}
	return columns, nil
}

func (r *SQLiteCatalogRepository) GetConstraintRows(ctx context.Context) ([]models.ConstraintRow, error) {
	ctx, span := startQuerySpan(ctx, "constraints", "main")
	defer span.End()
	defer observeQuery("constraints", time.Now())

	constraints, err := scanConstraintRows(r.db.QueryContext(ctx, sqliteConstraintsQuery))
	if err != nil {
		return nil, recordQueryError(span, "constraints", err)
	}
	return constraints, nil
}

func (r *SQLiteCatalogRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteCatalogRepository) Close() {
	_ = r.db.Close()
}
