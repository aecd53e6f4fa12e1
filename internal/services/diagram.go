package services

import (
	"fmt"

	"schemagraph/internal/models"
)

const (
	nodeWidth     = 220
	nodeRowHeight = 40
	gapX          = 80
	gapY          = 60
	nodesPerRow   = 3

	tableNodeType = "tableNode"
)

// ProjectDiagram maps a schema graph onto positioned nodes and edges. Every table
// becomes one node and every relationship one edge, including relationships whose
// target table has no node.
func ProjectDiagram(graph models.SchemaGraph) models.Diagram {
	nodes := make([]models.Node, 0, len(graph.Tables))
	for i, table := range graph.Tables {
		row := i / nodesPerRow
		col := i % nodesPerRow

		columns := make([]models.NodeColumn, 0, len(table.Columns))
		for _, c := range table.Columns {
			columns = append(columns, models.NodeColumn{
				Name:         c.Name,
				Type:         c.DeclaredType,
				IsPrimaryKey: c.IsPrimaryKey,
				IsForeignKey: c.IsForeignKey,
			})
		}

		nodes = append(nodes, models.Node{
			ID:   table.Name,
			Type: tableNodeType,
			Position: models.Position{
				X: col * (nodeWidth + gapX),
				Y: row * (nodeRowHeight*(len(table.Columns)+1) + gapY),
			},
			Data: models.NodeData{TableName: table.Name, Columns: columns},
		})
	}

	edges := make([]models.Edge, 0, len(graph.Relationships))
	for i, rel := range graph.Relationships {
		edges = append(edges, models.Edge{
			ID:           fmt.Sprintf("e-%s-%s-%s-%d", rel.FromTable, rel.FromColumn, rel.ToTable, i),
			Source:       rel.FromTable,
			Target:       rel.ToTable,
			SourceHandle: rel.FromColumn + "-source",
			TargetHandle: rel.ToColumn + "-target",
			Animated:     true,
		})
	}

	return models.Diagram{Nodes: nodes, Edges: edges}
}
