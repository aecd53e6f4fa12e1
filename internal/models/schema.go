package models

type Column struct {
	Name             string `json:"name"`
	DeclaredType     string `json:"type"`
	IsPrimaryKey     bool   `json:"isPrimaryKey"`
	IsForeignKey     bool   `json:"isForeignKey"`
	ReferencedTable  string `json:"foreignTable,omitempty"`
	ReferencedColumn string `json:"foreignColumn,omitempty"`
}

type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Relationship is a directed edge: FromColumn is a foreign key referencing ToColumn.
type Relationship struct {
	FromTable  string `json:"fromTable"`
	FromColumn string `json:"fromColumn"`
	ToTable    string `json:"toTable"`
	ToColumn   string `json:"toColumn"`
}

// SchemaGraph is the output of one reconciliation pass. It is never patched in place.
type SchemaGraph struct {
	Tables        []Table        `json:"tables"`
	Relationships []Relationship `json:"relationships"`
}

// FindTable returns the table with the given name, or nil.
func (g *SchemaGraph) FindTable(name string) *Table {
	for i := range g.Tables {
		if g.Tables[i].Name == name {
			return &g.Tables[i]
		}
	}
	return nil
}

// FindColumn returns the column with the given name, or nil.
func (t *Table) FindColumn(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}
