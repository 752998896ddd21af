package types

// VariableRole is how a variable is classified in a rendered graph.
type VariableRole string

const (
	VariableRoleScience   VariableRole = "science"
	VariableRoleMetadata  VariableRole = "metadata"
	VariableRoleReference VariableRole = "reference"
)

type GraphNode struct {
	Path string
	Role VariableRole
}

// GraphEdge points from a variable to a variable it references.
type GraphEdge struct {
	From string
	To   string
}

// GraphView is a renderable snapshot of a variable graph, nodes and edges
// in lexical order.
type GraphView struct {
	Nodes []GraphNode
	Edges []GraphEdge
}

type ExportFormat string

const (
	ExportFormatDOT ExportFormat = "dot"
	ExportFormatSVG ExportFormat = "svg"
)
