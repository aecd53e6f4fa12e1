package services

import (
	"schemagraph/internal/models"
)

// ReconcileStats counts the constraint rows a pass did not apply.
type ReconcileStats struct {
	SkippedUnknownTable  int
	SkippedUnknownColumn int
	SkippedMalformedFK   int
	IgnoredKinds         int
}

// Skipped returns the total number of constraint rows that were not applied.
func (s ReconcileStats) Skipped() int {
	return s.SkippedUnknownTable + s.SkippedUnknownColumn + s.SkippedMalformedFK + s.IgnoredKinds
}

// tableBuilder holds a table under construction plus a name index into its columns.
type tableBuilder struct {
	table   models.Table
	columns map[string]int
}

// Reconcile merges the column listing and the constraint listing into one schema graph.
func Reconcile(columnRows []models.ColumnRow, constraintRows []models.ConstraintRow) models.SchemaGraph {
	graph, _ := ReconcileWithStats(columnRows, constraintRows)
	return graph
}

// ReconcileWithStats is Reconcile that also reports which constraint rows were skipped.
// Columns are taken from columnRows only; constraints can flag columns but never add
// or reorder them.
func ReconcileWithStats(columnRows []models.ColumnRow, constraintRows []models.ConstraintRow) (models.SchemaGraph, ReconcileStats) {
	var stats ReconcileStats

	order := make([]*tableBuilder, 0)
	byName := make(map[string]*tableBuilder)

	for _, row := range columnRows {
		tb, ok := byName[row.TableName]
		if !ok {
			tb = &tableBuilder{
				table:   models.Table{Name: row.TableName, Columns: []models.Column{}},
				columns: make(map[string]int),
			}
			byName[row.TableName] = tb
			order = append(order, tb)
		}
		if _, dup := tb.columns[row.ColumnName]; dup {
			continue
		}
		tb.columns[row.ColumnName] = len(tb.table.Columns)
		tb.table.Columns = append(tb.table.Columns, models.Column{
			Name:         row.ColumnName,
			DeclaredType: row.DataType,
		})
	}

	relationships := make([]models.Relationship, 0)

	for _, row := range constraintRows {
		tb, ok := byName[row.TableName]
		if !ok {
			stats.SkippedUnknownTable++
			continue
		}
		idx, ok := tb.columns[row.ColumnName]
		if !ok {
			stats.SkippedUnknownColumn++
			continue
		}
		col := &tb.table.Columns[idx]

		switch row.ConstraintType {
		case models.PrimaryKey:
			col.IsPrimaryKey = true
		case models.ForeignKey:
			toTable, toColumn := deref(row.ForeignTable), deref(row.ForeignColumn)
			if toTable == "" || toColumn == "" {
				stats.SkippedMalformedFK++
				continue
			}
			col.IsForeignKey = true
			col.ReferencedTable = toTable
			col.ReferencedColumn = toColumn
			relationships = append(relationships, models.Relationship{
				FromTable:  row.TableName,
				FromColumn: row.ColumnName,
				ToTable:    toTable,
				ToColumn:   toColumn,
			})
		default:
			stats.IgnoredKinds++
		}
	}

	tables := make([]models.Table, 0, len(order))
	for _, tb := range order {
		tables = append(tables, tb.table)
	}

	return models.SchemaGraph{Tables: tables, Relationships: relationships}, stats
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
