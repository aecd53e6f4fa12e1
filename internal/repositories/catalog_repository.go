package repositories

import (
	"context"
	"fmt"

	"schemagraph/internal/config"
	"schemagraph/internal/database"
	"schemagraph/internal/models"
)

// CatalogRepository runs the two fixed catalog queries against one namespace.
type CatalogRepository interface {
	// GetColumnRows returns one row per column, ordered by table then ordinal position.
	GetColumnRows(ctx context.Context) ([]models.ColumnRow, error)
	// GetConstraintRows returns one row per participating column of every primary
	// and foreign key constraint.
	GetConstraintRows(ctx context.Context) ([]models.ConstraintRow, error)
	Ping(ctx context.Context) error
	Close()
}

// NewCatalogRepository opens a connection for the configured driver and wraps it.
func NewCatalogRepository(ctx context.Context, cfg config.Database) (CatalogRepository, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := database.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewPostgresCatalogRepository(pool, cfg.Schema), nil
	case config.DriverMySQL:
		db, err := database.OpenSQL(ctx, "mysql", cfg)
		if err != nil {
			return nil, err
		}
		return NewMySQLCatalogRepository(db, cfg.Schema), nil
	case config.DriverSQLite:
		db, err := database.OpenSQL(ctx, "sqlite", cfg)
		if err != nil {
			return nil, err
		}
		return NewSQLiteCatalogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// nullableString turns an empty scanned value into nil.
func nullableString(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
