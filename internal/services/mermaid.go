package services

import (
	"fmt"
	"strings"

	"schemagraph/internal/models"
)

const mermaidManyToOne = "}o--||"

// GenerateMermaid renders a schema graph as a Mermaid ER diagram.
func GenerateMermaid(graph models.SchemaGraph) string {
	var sb strings.Builder

	sb.WriteString("erDiagram\n")

	if len(graph.Relationships) > 0 {
		for _, rel := range graph.Relationships {
			sb.WriteString(fmt.Sprintf("    %s %s %s : \"%s\"\n",
				mermaidName(rel.FromTable),
				mermaidManyToOne,
				mermaidName(rel.ToTable),
				fmt.Sprintf("%s -> %s", rel.FromColumn, rel.ToColumn)))
		}
		sb.WriteString("\n")
	}

	for _, table := range graph.Tables {
		sb.WriteString(fmt.Sprintf("    %s {\n", mermaidName(table.Name)))

		for _, col := range table.Columns {
			var keys []string
			if col.IsPrimaryKey {
				keys = append(keys, "PK")
			}
			if col.IsForeignKey {
				keys = append(keys, "FK")
			}

			annotations := ""
			if len(keys) > 0 {
				annotations = " " + strings.Join(keys, ", ")
			}

			sb.WriteString(fmt.Sprintf("        %s %s%s\n",
				mermaidToken(simplifyDataType(col.DeclaredType)),
				col.Name,
				annotations))
		}

		sb.WriteString("    }\n\n")
	}

	return sb.String()
}

// mermaidName upper-cases an entity name the way the ER header expects it.
func mermaidName(name string) string {
	return mermaidToken(strings.ToUpper(name))
}

// mermaidToken replaces characters Mermaid rejects inside a bare word.
func mermaidToken(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '.', '(', ')', ',', '"':
			return '_'
		}
		return r
	}, s)
}

func simplifyDataType(dataType string) string {
	dt := strings.ToLower(dataType)

	switch {
	case dt == "integer":
		return "int"
	case dt == "bigint":
		return "bigint"
	case dt == "smallint":
		return "smallint"
	case strings.HasPrefix(dt, "character varying"):
		return "varchar"
	case strings.HasPrefix(dt, "character"):
		return "char"
	case dt == "text":
		return "text"
	case strings.HasPrefix(dt, "timestamp without time zone"):
		return "timestamp"
	case strings.HasPrefix(dt, "timestamp with time zone"):
		return "timestamptz"
	case strings.HasPrefix(dt, "time without time zone"):
		return "time"
	case dt == "date":
		return "date"
	case dt == "boolean":
		return "boolean"
	case strings.HasPrefix(dt, "numeric"):
		return "numeric"
	case strings.HasPrefix(dt, "decimal"):
		return "decimal"
	case dt == "real":
		return "real"
	case dt == "double precision":
		return "double"
	case dt == "json":
		return "json"
	case dt == "jsonb":
		return "jsonb"
	case dt == "uuid":
		return "uuid"
	case dt == "bytea":
		return "bytea"
	case strings.HasPrefix(dt, "array"):
		return "array"
	case dt == "":
		return "unknown"
	default:
		return dataType
	}
}
