package models

type ConstraintKind string

const (
	PrimaryKey ConstraintKind = "PRIMARY KEY"
	ForeignKey ConstraintKind = "FOREIGN KEY"
)

// ColumnRow is one row of the column query, ordered by table then ordinal position.
type ColumnRow struct {
	TableName       string `json:"table_name"`
	ColumnName      string `json:"column_name"`
	DataType        string `json:"data_type"`
	OrdinalPosition int    `json:"ordinal_position"`
}

// ConstraintRow is one participating column of a primary or foreign key constraint.
// ForeignTable and ForeignColumn are nil for anything but foreign keys.
type ConstraintRow struct {
	TableName      string         `json:"table_name"`
	ConstraintType ConstraintKind `json:"constraint_type"`
	ConstraintName string         `json:"constraint_name"`
	ColumnName     string         `json:"column_name"`
	ForeignTable   *string        `json:"foreign_table"`
	ForeignColumn  *string        `json:"foreign_column"`
}
