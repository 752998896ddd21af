package core

import (
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"granule-varinfo/internal/types"
)

type testRules struct {
	variables   map[string]types.VariableRules
	excluded    []string
	required    []string
	overrides   map[string]any
	supplements map[string]any
}

func (r testRules) VariableRules(path string) types.VariableRules { return r.variables[path] }
func (r testRules) ExcludedSciencePatterns() []string             { return r.excluded }
func (r testRules) RequiredVariablePatterns() []string            { return r.required }
func (r testRules) IsExcludedScience(path string) bool            { return hasPrefix(path, r.excluded) }
func (r testRules) IsRequired(path string) bool                   { return hasPrefix(path, r.required) }
func (r testRules) GlobalOverrides() map[string]any               { return r.overrides }
func (r testRules) GlobalSupplements() map[string]any             { return r.supplements }

func hasPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func sampleGranule() types.GranuleDescription {
	return types.GranuleDescription{
		Format:           types.GranuleFormatDMR,
		GlobalAttributes: map[string]any{"short_name": "SAMPLE", "title": "raw"},
		Variables: []types.RawVariable{
			{
				Path:       "/Grid/temperature",
				Attributes: map[string]any{"coordinates": "lat lon", "ancillary_variables": "quality"},
				Dimensions: []string{"time", "lat", "lon"},
			},
			{
				Path:       "/Grid/precipitation",
				Attributes: map[string]any{"coordinates": "lat lon"},
				Dimensions: []string{"time", "lat", "lon"},
			},
			{
				Path:       "/Grid/quality",
				Attributes: map[string]any{"coordinates": "lat lon"},
				Dimensions: []string{"lat", "lon"},
			},
			{
				Path:       "/Grid/lat",
				Attributes: map[string]any{"units": "degrees_north"},
				Dimensions: []string{"lat"},
			},
			{
				Path:       "/Grid/lon",
				Attributes: map[string]any{"units": "degrees_east"},
				Dimensions: []string{"lon"},
			},
			{
				Path:       "/Grid/time",
				Attributes: map[string]any{"units": "seconds since 2000-01-01", "bounds": "time_bnds"},
				Dimensions: []string{"time"},
			},
			{
				Path:       "/Grid/diagnostics/flags",
				Attributes: map[string]any{"coordinates": "../lat ../lon"},
				Dimensions: []string{"FakeDim0", "../lon"},
			},
			{
				Path:       "/Grid/FakeDim0",
				Attributes: map[string]any{},
			},
			{
				Path:       "/Grid/diagnostics/FakeDim0",
				Attributes: map[string]any{},
			},
			{
				Path:       "/epoch",
				Attributes: map[string]any{"units": "seconds"},
			},
			{
				Path:       "/history",
				Attributes: map[string]any{},
			},
		},
	}
}

func buildSample(t *testing.T, rules testRules) *VariableGraph {
	t.Helper()
	graph, err := BuildGraph(t.Context(), sampleGranule(), rules)
	require.NoError(t, err)
	return graph
}

func TestGraphClassification(t *testing.T) {
	graph := buildSample(t, testRules{})

	wantScience := types.NewPathSet("/Grid/temperature", "/Grid/precipitation", "/Grid/diagnostics/flags")
	if diff := cmp.Diff(wantScience, graph.ScienceVariables()); diff != "" {
		t.Fatalf("unexpected science variables (-want +got):\n%s", diff)
	}
	wantMetadata := types.NewPathSet("/Grid/FakeDim0", "/epoch", "/history")
	if diff := cmp.Diff(wantMetadata, graph.MetadataVariables()); diff != "" {
		t.Fatalf("unexpected metadata variables (-want +got):\n%s", diff)
	}
}

func TestGraphReferencedVariableIsNotScience(t *testing.T) {
	graph := buildSample(t, testRules{})

	// quality has coordinates but is an ancillary variable of temperature.
	assert.False(t, graph.ScienceVariables().Has("/Grid/quality"))
	assert.False(t, graph.MetadataVariables().Has("/Grid/quality"))
	assert.True(t, graph.References().Has("/Grid/quality"))
}

func TestGraphPrunesDanglingReferences(t *testing.T) {
	graph := buildSample(t, testRules{})

	references := graph.References()
	assert.False(t, references.Has("/Grid/time_bnds"))
	for path := range references {
		_, ok := graph.Variable(path)
		assert.True(t, ok, "reference %s has no variable", path)
	}
}

func TestGraphForwardReferencesSurvivePruning(t *testing.T) {
	granule := types.GranuleDescription{Variables: []types.RawVariable{
		{Path: "/science", Attributes: map[string]any{"coordinates": "/late"}},
		{Path: "/late", Attributes: map[string]any{}},
	}}
	graph, err := BuildGraph(t.Context(), granule, nil)
	require.NoError(t, err)

	assert.True(t, graph.References().Has("/late"))
	assert.False(t, graph.MetadataVariables().Has("/late"))
}

func TestGraphExclusions(t *testing.T) {
	graph := buildSample(t, testRules{excluded: []string{"/Grid/precipitation"}})

	assert.False(t, graph.ScienceVariables().Has("/Grid/precipitation"))
	assert.True(t, graph.MetadataVariables().Has("/Grid/precipitation"))
	assert.True(t, graph.ScienceVariables().Has("/Grid/temperature"))
}

func TestGraphScienceAndMetadataAreDisjoint(t *testing.T) {
	for _, rules := range []testRules{{}, {excluded: []string{"/Grid"}}, {excluded: []string{"/Grid/temp"}}} {
		graph := buildSample(t, rules)
		metadata := graph.MetadataVariables()
		for path := range graph.ScienceVariables() {
			assert.False(t, metadata.Has(path), "%s is both science and metadata", path)
		}
	}
}

func TestGraphVariableLookup(t *testing.T) {
	graph := buildSample(t, testRules{})

	variable, ok := graph.Variable("/Grid/temperature")
	require.True(t, ok)
	assert.True(t, variable.HasCoordinates())

	variable, ok = graph.Variable("/Grid/lat")
	require.True(t, ok)
	assert.True(t, variable.IsLatitude())

	_, ok = graph.Variable("/missing")
	assert.False(t, ok)
}

func TestRequiredVariables(t *testing.T) {
	graph := buildSample(t, testRules{})

	got := graph.RequiredVariables(types.NewPathSet("/Grid/temperature"))
	want := types.NewPathSet("/Grid/temperature", "/Grid/quality", "/Grid/lat", "/Grid/lon", "/Grid/time")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected required variables (-want +got):\n%s", diff)
	}
}

func TestRequiredVariablesExcludePlaceholderDimensions(t *testing.T) {
	graph := buildSample(t, testRules{})

	got := graph.RequiredVariables(types.NewPathSet("/Grid/diagnostics/flags", "/Grid/FakeDim0"))
	want := types.NewPathSet("/Grid/diagnostics/flags", "/Grid/lat", "/Grid/lon")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected required variables (-want +got):\n%s", diff)
	}
}

func TestRequiredVariablesEmpty(t *testing.T) {
	graph := buildSample(t, testRules{})
	assert.Empty(t, graph.RequiredVariables(types.PathSet{}))
	assert.Empty(t, graph.RequiredVariables(nil))
}

func TestRequiredVariablesIncludesConfiguredRequirements(t *testing.T) {
	graph := buildSample(t, testRules{required: []string{"/epoch", "/absent"}})

	got := graph.RequiredVariables(types.PathSet{})
	if diff := cmp.Diff(types.NewPathSet("/epoch"), got); diff != "" {
		t.Fatalf("unexpected required variables (-want +got):\n%s", diff)
	}
}

func TestRequiredVariablesKeepsUnknownRequests(t *testing.T) {
	graph := buildSample(t, testRules{})
	got := graph.RequiredVariables(types.NewPathSet("/not/in/granule"))
	assert.Equal(t, types.NewPathSet("/not/in/granule"), got)
}

func TestRequiredVariablesIsFixedPoint(t *testing.T) {
	graph := buildSample(t, testRules{required: []string{"/history"}})

	first := graph.RequiredVariables(types.NewPathSet("/Grid/temperature", "/Grid/diagnostics/flags"))
	second := graph.RequiredVariables(first)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("closure is not a fixed point (-first +second):\n%s", diff)
	}
}

func TestRequiredVariablesDoesNotDrainInput(t *testing.T) {
	graph := buildSample(t, testRules{})
	requested := types.NewPathSet("/Grid/temperature")

	graph.RequiredVariables(requested)
	assert.Equal(t, types.NewPathSet("/Grid/temperature"), requested)
}

func TestRequiredVariablesHandlesCycles(t *testing.T) {
	granule := types.GranuleDescription{Variables: []types.RawVariable{
		{Path: "/a", Attributes: map[string]any{"coordinates": "b"}},
		{Path: "/b", Attributes: map[string]any{"coordinates": "a"}},
	}}
	graph, err := BuildGraph(t.Context(), granule, nil)
	require.NoError(t, err)

	assert.Equal(t, types.NewPathSet("/a", "/b"), graph.RequiredVariables(types.NewPathSet("/a")))
}

func TestRequiredDimensions(t *testing.T) {
	graph := buildSample(t, testRules{})
	variables := types.NewPathSet("/Grid/temperature", "/Grid/diagnostics/flags", "/epoch", "/missing")

	want := types.NewPathSet("/Grid/time", "/Grid/lat", "/Grid/lon", "/Grid/diagnostics/FakeDim0")
	if diff := cmp.Diff(want, graph.RequiredDimensions(variables)); diff != "" {
		t.Fatalf("unexpected required dimensions (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(types.NewPathSet("/Grid/lat", "/Grid/lon"), graph.SpatialDimensions(variables)); diff != "" {
		t.Fatalf("unexpected spatial dimensions (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(types.NewPathSet("/Grid/time"), graph.TemporalDimensions(variables)); diff != "" {
		t.Fatalf("unexpected temporal dimensions (-want +got):\n%s", diff)
	}
}

func TestRequiredDimensionsOfScalar(t *testing.T) {
	graph := buildSample(t, testRules{})
	assert.Empty(t, graph.RequiredDimensions(types.NewPathSet("/history")))
	assert.Empty(t, graph.TemporalDimensions(types.NewPathSet("/history")))
}

func TestGlobalAttributesSupplementedThenOverridden(t *testing.T) {
	graph := buildSample(t, testRules{
		supplements: map[string]any{"title": "supplement", "source": "supplement"},
		overrides:   map[string]any{"title": "override"},
	})

	want := map[string]any{"short_name": "SAMPLE", "title": "override", "source": "supplement"}
	if diff := cmp.Diff(want, graph.GlobalAttributes()); diff != "" {
		t.Fatalf("unexpected global attributes (-want +got):\n%s", diff)
	}
}

func TestGraphConfigurationOverridesReferences(t *testing.T) {
	graph := buildSample(t, testRules{variables: map[string]types.VariableRules{
		"/history": {Overrides: map[string]string{"coordinates": "/Grid/lat"}},
	}})

	assert.True(t, graph.ScienceVariables().Has("/history"))
	assert.False(t, graph.MetadataVariables().Has("/history"))
}

func TestGraphBuilderRejectsDuplicates(t *testing.T) {
	builder := NewGraphBuilder(nil, "", nil)
	_, err := builder.Add(t.Context(), types.RawVariable{Path: "/a"})
	require.NoError(t, err)
	_, err = builder.Add(t.Context(), types.RawVariable{Path: "a"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeAlreadyExists, errbuilder.CodeOf(err))
}

func TestGraphBuilderRejectsEmptyPath(t *testing.T) {
	builder := NewGraphBuilder(nil, "", nil)
	for _, path := range []string{"", "  ", "/"} {
		_, err := builder.Add(t.Context(), types.RawVariable{Path: path})
		require.Error(t, err, "path %q", path)
		assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	}
	graph, err := builder.Build(t.Context())
	require.NoError(t, err)
	assert.Empty(t, graph.VariablePaths())
}

func TestGraphBuilderSingleUse(t *testing.T) {
	builder := NewGraphBuilder(nil, "", nil)
	_, err := builder.Build(t.Context())
	require.NoError(t, err)

	_, err = builder.Build(t.Context())
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	_, err = builder.Add(t.Context(), types.RawVariable{Path: "/a"})
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
}

func TestGraphVariablePathsSorted(t *testing.T) {
	graph := buildSample(t, testRules{})
	paths := graph.VariablePaths()
	require.Len(t, paths, 11)
	assert.Equal(t, "/Grid/FakeDim0", paths[0])
	assert.Equal(t, "/history", paths[len(paths)-1])
}
