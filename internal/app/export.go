package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"granule-varinfo/internal/adapters"
	"granule-varinfo/internal/core"
	"granule-varinfo/internal/types"
)

// Export renders the variable graph as DOT or SVG.
func (s Service) Export(ctx context.Context, req ExportRequest) (ExportResult, error) {
	format, err := exportFormat(req.Format)
	if err != nil {
		return ExportResult{}, err
	}
	graph, _, err := s.LoadGraph(ctx, req.GraphRequest)
	if err != nil {
		return ExportResult{}, err
	}

	paths := graph.VariablePaths()
	if requested := variableSet(req.Variables); len(requested) > 0 {
		paths = graph.RequiredVariables(requested).Sorted()
	}
	view := graphView(graph, paths)

	dot := adapters.ToDOT(view)
	result := ExportResult{Format: format, View: view, Data: []byte(dot)}
	if format == types.ExportFormatSVG {
		renderer := s.Renderer
		if renderer == nil {
			renderer = adapters.NewGraphvizRendererAdapter()
		}
		svg, err := renderer.RenderSVG(ctx, dot)
		if err != nil {
			return ExportResult{}, err
		}
		result.Data = svg
	}
	log.Ctx(ctx).Debug().
		Str("format", string(format)).
		Int("nodes", len(view.Nodes)).
		Int("edges", len(view.Edges)).
		Msg("graph exported")
	return result, nil
}

func exportFormat(requested string) (types.ExportFormat, error) {
	switch types.ExportFormat(strings.ToLower(strings.TrimSpace(requested))) {
	case "", types.ExportFormatDOT:
		return types.ExportFormatDOT, nil
	case types.ExportFormatSVG:
		return types.ExportFormatSVG, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported export format %q", requested))
	}
}

// graphView keeps the given paths that are ingested variables. Edges join
// two kept variables and self references are dropped.
func graphView(graph *core.VariableGraph, paths []string) types.GraphView {
	science := graph.ScienceVariables()
	metadata := graph.MetadataVariables()
	kept := types.PathSet{}
	view := types.GraphView{}
	for _, path := range paths {
		if _, ok := graph.Variable(path); !ok {
			continue
		}
		kept.Add(path)
		role := types.VariableRoleReference
		switch {
		case science.Has(path):
			role = types.VariableRoleScience
		case metadata.Has(path):
			role = types.VariableRoleMetadata
		}
		view.Nodes = append(view.Nodes, types.GraphNode{Path: path, Role: role})
	}
	for _, node := range view.Nodes {
		variable, _ := graph.Variable(node.Path)
		for _, reference := range variable.AllReferences().Sorted() {
			if reference == node.Path || !kept.Has(reference) {
				continue
			}
			view.Edges = append(view.Edges, types.GraphEdge{From: node.Path, To: reference})
		}
	}
	return view
}
