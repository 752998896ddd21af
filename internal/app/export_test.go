package app

import (
	"context"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"granule-varinfo/internal/types"
)

type testRenderer struct {
	dot string
}

func (r *testRenderer) RenderSVG(_ context.Context, dot string) ([]byte, error) {
	r.dot = dot
	return []byte("<svg/>"), nil
}

func TestExportRequiredClosure(t *testing.T) {
	result, err := NewService().Export(t.Context(), ExportRequest{
		GraphRequest: sampleRequest(t),
		Variables:    []string{"/grid/ice_fraction"},
	})
	require.NoError(t, err)

	want := types.GraphView{
		Nodes: []types.GraphNode{
			{Path: "/ancillary_data/atlas_sdp_gps_epoch", Role: types.VariableRoleMetadata},
			{Path: "/grid/ice_fraction", Role: types.VariableRoleScience},
			{Path: "/grid/lat", Role: types.VariableRoleReference},
			{Path: "/grid/lon", Role: types.VariableRoleReference},
			{Path: "/grid/time", Role: types.VariableRoleReference},
		},
		Edges: []types.GraphEdge{
			{From: "/grid/ice_fraction", To: "/grid/lat"},
			{From: "/grid/ice_fraction", To: "/grid/lon"},
			{From: "/grid/ice_fraction", To: "/grid/time"},
		},
	}
	if diff := cmp.Diff(want, result.View); diff != "" {
		t.Fatalf("unexpected graph view (-want +got):\n%s", diff)
	}
	assert.Equal(t, types.ExportFormatDOT, result.Format)
	assert.Contains(t, string(result.Data), `"/grid/ice_fraction" -> "/grid/lat";`)
}

func TestExportWholeGraph(t *testing.T) {
	result, err := NewService().Export(t.Context(), ExportRequest{GraphRequest: sampleRequest(t)})
	require.NoError(t, err)

	paths := make([]string, 0, len(result.View.Nodes))
	for _, node := range result.View.Nodes {
		paths = append(paths, node.Path)
	}
	assert.Contains(t, paths, "/FakeDim1")
	assert.Contains(t, paths, "/gt1l/heights/h_ph")
	for _, edge := range result.View.Edges {
		assert.NotEqual(t, edge.From, edge.To)
		assert.Contains(t, paths, edge.To)
	}
}

func TestExportSVGUsesRenderer(t *testing.T) {
	renderer := &testRenderer{}
	service := NewService()
	service.Renderer = renderer

	result, err := service.Export(t.Context(), ExportRequest{
		GraphRequest: sampleRequest(t),
		Variables:    []string{"/grid/ice_fraction"},
		Format:       "SVG",
	})
	require.NoError(t, err)
	assert.Equal(t, types.ExportFormatSVG, result.Format)
	assert.Equal(t, "<svg/>", string(result.Data))
	assert.Contains(t, renderer.dot, "digraph variables {")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	_, err := NewService().Export(t.Context(), ExportRequest{GraphRequest: sampleRequest(t), Format: "png"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
