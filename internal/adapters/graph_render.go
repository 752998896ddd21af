package adapters

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/goccy/go-graphviz"

	"granule-varinfo/internal/ports"
	"granule-varinfo/internal/types"
)

// ToDOT renders a graph view in Graphviz DOT. Science variables are
// filled, metadata variables are grey and referenced variables are plain.
func ToDOT(view types.GraphView) string {
	var buf bytes.Buffer
	buf.WriteString("digraph variables {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")
	for _, node := range view.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", node.Path, dotNodeAttrs(node.Role))
	}
	buf.WriteString("\n")
	for _, edge := range view.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", edge.From, edge.To)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func dotNodeAttrs(role types.VariableRole) string {
	switch role {
	case types.VariableRoleScience:
		return "fillcolor=lightblue"
	case types.VariableRoleMetadata:
		return "fillcolor=lightgrey, style=\"rounded,filled,dashed\""
	default:
		return "fillcolor=white"
	}
}

type GraphvizRendererAdapter struct{}

func NewGraphvizRendererAdapter() GraphvizRendererAdapter {
	return GraphvizRendererAdapter{}
}

func (a GraphvizRendererAdapter) RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to initialise graphviz").
			WithCause(err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse dot graph").
			WithCause(err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to render svg").
			WithCause(err)
	}
	return buf.Bytes(), nil
}

var _ ports.GraphRendererPort = GraphvizRendererAdapter{}
