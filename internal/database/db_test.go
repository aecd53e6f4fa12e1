package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemagraph/internal/config"
)

type recordingExec struct {
	statements []string
	err        error
}

func (r *recordingExec) exec(_ context.Context, stmt string) error {
	r.statements = append(r.statements, stmt)
	return r.err
}

func pingOK(context.Context) error { return nil }

func pingDown(context.Context) error { return errors.New("connection refused") }

func TestPrepare(t *testing.T) {
	tests := []struct {
		name      string
		seed      bool
		ping      func(context.Context) error
		execErr   error
		wantStmts int
	}{
		{name: "reachable without seeding", seed: false, ping: pingOK, wantStmts: 0},
		{name: "reachable with seeding", seed: true, ping: pingOK, wantStmts: len(SampleSchemaStatements())},
		{name: "unreachable skips seeding", seed: true, ping: pingDown, wantStmts: 0},
		{name: "failed seed stops at first statement", seed: true, ping: pingOK, execErr: errors.New("permission denied"), wantStmts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingExec{err: tt.execErr}

			prepare(context.Background(), config.Database{SeedSample: tt.seed}, tt.ping, rec.exec)

			assert.Len(t, rec.statements, tt.wantStmts)
		})
	}
}

func TestVerifyConnection(t *testing.T) {
	assert.True(t, verifyConnection(context.Background(), pingOK))
	assert.False(t, verifyConnection(context.Background(), pingDown))
}

func TestOpenSQLStartsWithDatabaseDownAndSeedingOn(t *testing.T) {
	db, err := OpenSQL(context.Background(), "mysql", config.Database{
		Driver:     config.DriverMySQL,
		DSN:        "root:secret@tcp(127.0.0.1:1)/catalog?timeout=1s",
		MaxConns:   2,
		MinConns:   1,
		SeedSample: true,
	})
	require.NoError(t, err)
	require.NotNil(t, db)
	defer db.Close()

	assert.Error(t, db.PingContext(context.Background()))
}

func TestOpenSQLSeedsReachableDatabase(t *testing.T) {
	db, err := OpenSQL(context.Background(), "sqlite", config.Database{
		Driver:     config.DriverSQLite,
		DSN:        ":memory:",
		SeedSample: true,
	})
	require.NoError(t, err)
	defer db.Close()

	var tables int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table'`).Scan(&tables))
	assert.Equal(t, len(SampleSchemaStatements()), tables)
}
