package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ExecFunc runs one DDL statement.
type ExecFunc func(ctx context.Context, stmt string) error

func PoolExec(pool *pgxpool.Pool) ExecFunc {
	return func(ctx context.Context, stmt string) error {
		_, err := pool.Exec(ctx, stmt)
		return err
	}
}

func SQLExec(db *sql.DB) ExecFunc {
	return func(ctx context.Context, stmt string) error {
		_, err := db.ExecContext(ctx, stmt)
		return err
	}
}

// SeedSampleSchema creates a small publishing schema. Statements are idempotent and
// portable across postgres, mysql and sqlite.
func SeedSampleSchema(ctx context.Context, exec ExecFunc) error {
	statements := SampleSchemaStatements()

	for i, stmt := range statements {
		slog.Debug("seeding sample schema", "step", i+1, "of", len(statements))
		if err := exec(ctx, stmt); err != nil {
			return fmt.Errorf("sample schema statement %d failed: %w", i+1, err)
		}
	}

	slog.Info("sample schema ready", "statements", len(statements))
	return nil
}

// SampleSchemaStatements returns the DDL in dependency order.
func SampleSchemaStatements() []string {
	return []string{
		createPublishersTable,
		createJobsTable,
		createEmployeeTable,
		createTitlesTable,
		createAuthorsTable,
		createTitleAuthorTable,
		createEditionsTable,
		createEditionPrintsTable,
	}
}

const createPublishersTable = `
CREATE TABLE IF NOT EXISTS publishers (
  pub_id INTEGER NOT NULL,
  pub_name VARCHAR(40),
  city VARCHAR(20),
  state CHAR(2),
  country VARCHAR(30),
  PRIMARY KEY (pub_id)
)`

const createJobsTable = `
CREATE TABLE IF NOT EXISTS jobs (
  job_id INTEGER NOT NULL,
  job_desc VARCHAR(50) NOT NULL,
  min_lvl INTEGER NOT NULL,
  max_lvl INTEGER NOT NULL,
  PRIMARY KEY (job_id)
)`

const createEmployeeTable = `
CREATE TABLE IF NOT EXISTS employee (
  emp_id INTEGER NOT NULL,
  fname VARCHAR(20) NOT NULL,
  minit CHAR(1),
  lname VARCHAR(30) NOT NULL,
  job_id INTEGER NOT NULL,
  job_lvl INTEGER,
  pub_id INTEGER NOT NULL,
  hire_date DATE NOT NULL,
  PRIMARY KEY (emp_id),
  FOREIGN KEY (job_id) REFERENCES jobs (job_id),
  FOREIGN KEY (pub_id) REFERENCES publishers (pub_id)
)`

const createTitlesTable = `
CREATE TABLE IF NOT EXISTS titles (
  title_id INTEGER NOT NULL,
  title VARCHAR(80) NOT NULL,
  type CHAR(12) NOT NULL,
  pub_id INTEGER,
  price NUMERIC(10, 2),
  advance NUMERIC(10, 2),
  royalty INTEGER,
  ytd_sales INTEGER,
  notes VARCHAR(200),
  pubdate DATE NOT NULL,
  PRIMARY KEY (title_id),
  FOREIGN KEY (pub_id) REFERENCES publishers (pub_id)
)`

const createAuthorsTable = `
CREATE TABLE IF NOT EXISTS authors (
  au_id INTEGER NOT NULL,
  au_lname VARCHAR(40) NOT NULL,
  au_fname VARCHAR(20) NOT NULL,
  phone CHAR(12) NOT NULL,
  city VARCHAR(20),
  PRIMARY KEY (au_id)
)`

const createTitleAuthorTable = `
CREATE TABLE IF NOT EXISTS titleauthor (
  au_id INTEGER NOT NULL,
  title_id INTEGER NOT NULL,
  au_ord INTEGER,
  royaltyper INTEGER,
  PRIMARY KEY (au_id, title_id),
  FOREIGN KEY (au_id) REFERENCES authors (au_id),
  FOREIGN KEY (title_id) REFERENCES titles (title_id)
)`

const createEditionsTable = `
CREATE TABLE IF NOT EXISTS editions (
  title_id INTEGER NOT NULL,
  edition_no INTEGER NOT NULL,
  released DATE,
  PRIMARY KEY (title_id, edition_no),
  FOREIGN KEY (title_id) REFERENCES titles (title_id)
)`

const createEditionPrintsTable = `
CREATE TABLE IF NOT EXISTS edition_prints (
  print_id INTEGER NOT NULL,
  title_id INTEGER NOT NULL,
  edition_no INTEGER NOT NULL,
  copies INTEGER,
  PRIMARY KEY (print_id),
  FOREIGN KEY (title_id, edition_no) REFERENCES editions (title_id, edition_no)
)`
