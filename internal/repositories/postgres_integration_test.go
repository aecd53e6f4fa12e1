//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"schemagraph/internal/config"
	"schemagraph/internal/database"
	"schemagraph/internal/models"
)

func startPostgres(t *testing.T) config.Database {
	t.Helper()

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("catalog"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	return config.Database{
		Driver:       config.DriverPostgres,
		DSN:          dsn,
		Schema:       "public",
		MaxConns:     4,
		MinConns:     1,
		QueryTimeout: 30 * time.Second,
		SeedSample:   true,
	}
}

func TestPostgresCatalogSampleSchema(t *testing.T) {
	cfg := startPostgres(t)
	ctx := context.Background()

	repo, err := NewCatalogRepository(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(repo.Close)

	require.NoError(t, repo.Ping(ctx))

	columns, err := repo.GetColumnRows(ctx)
	require.NoError(t, err)

	var editionPrints []models.ColumnRow
	for _, c := range columns {
		if c.TableName == "edition_prints" {
			editionPrints = append(editionPrints, c)
		}
	}
	assert.Equal(t, []models.ColumnRow{
		{TableName: "edition_prints", ColumnName: "print_id", DataType: "integer", OrdinalPosition: 1},
		{TableName: "edition_prints", ColumnName: "title_id", DataType: "integer", OrdinalPosition: 2},
		{TableName: "edition_prints", ColumnName: "edition_no", DataType: "integer", OrdinalPosition: 3},
		{TableName: "edition_prints", ColumnName: "copies", DataType: "integer", OrdinalPosition: 4},
	}, editionPrints)

	constraints, err := repo.GetConstraintRows(ctx)
	require.NoError(t, err)

	var compositeFK []string
	for _, c := range constraints {
		if c.TableName != "edition_prints" || c.ConstraintType != models.ForeignKey {
			continue
		}
		require.NotNil(t, c.ForeignTable)
		require.NotNil(t, c.ForeignColumn)
		compositeFK = append(compositeFK, c.ColumnName+"->"+*c.ForeignTable+"."+*c.ForeignColumn)
	}
	assert.Equal(t, []string{
		"title_id->editions.title_id",
		"edition_no->editions.edition_no",
	}, compositeFK, "composite keys pair column by column, without a cross product")

	for _, c := range constraints {
		if c.ConstraintType == models.PrimaryKey {
			assert.Nil(t, c.ForeignTable, "%s.%s", c.TableName, c.ColumnName)
			assert.Nil(t, c.ForeignColumn, "%s.%s", c.TableName, c.ColumnName)
		}
	}
}

func TestPostgresSeedIsIdempotent(t *testing.T) {
	cfg := startPostgres(t)
	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, database.SeedSampleSchema(ctx, database.PoolExec(pool)))
}

func TestPostgresQueryHonoursCancellation(t *testing.T) {
	cfg := startPostgres(t)
	cfg.SeedSample = false

	repo, err := NewCatalogRepository(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(repo.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = repo.GetColumnRows(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPostgresForeignKeyToUniqueIndex(t *testing.T) {
	cfg := startPostgres(t)
	cfg.SeedSample = false
	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg)
	require.NoError(t, err)
	defer pool.Close()

	for _, stmt := range []string{
		`CREATE TABLE accounts (id INTEGER PRIMARY KEY, code TEXT NOT NULL)`,
		`CREATE UNIQUE INDEX accounts_code_idx ON accounts (code)`,
		`CREATE TABLE invoices (id INTEGER PRIMARY KEY, account_code TEXT REFERENCES accounts (code))`,
	} {
		_, err := pool.Exec(ctx, stmt)
		require.NoError(t, err)
	}

	repo := NewPostgresCatalogRepository(pool, "public")

	rows, err := repo.GetConstraintRows(ctx)
	require.NoError(t, err)

	var fks []models.ConstraintRow
	for _, r := range rows {
		if r.ConstraintType == models.ForeignKey {
			fks = append(fks, r)
		}
	}
	require.Len(t, fks, 1)
	assert.Equal(t, "invoices", fks[0].TableName)
	assert.Equal(t, "account_code", fks[0].ColumnName)
	require.NotNil(t, fks[0].ForeignTable)
	require.NotNil(t, fks[0].ForeignColumn)
	assert.Equal(t, "accounts", *fks[0].ForeignTable)
	assert.Equal(t, "code", *fks[0].ForeignColumn)
}
