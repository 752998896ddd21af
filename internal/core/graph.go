package core

import (
	"context"
	"fmt"
	"maps"
	"regexp"
	"sort"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"granule-varinfo/internal/policies"
	"granule-varinfo/internal/ports"
	"granule-varinfo/internal/shared"
	"granule-varinfo/internal/types"
)

// placeholderDimension matches the synthetic dimensions OPeNDAP inserts
// when a granule lacks dimension metadata. They can never be retrieved.
var placeholderDimension = regexp.MustCompile(`(^|/)FakeDim\d+$`)

// GraphBuilder accumulates the variables of one granule. Classification
// happens as each variable is added; the graph-wide reference set is only
// pruned in Build, once every forward reference can be resolved.
type GraphBuilder struct {
	rules            ports.RuleSourcePort
	namespace        string
	globalAttributes map[string]any
	withCoordinates  map[string]Variable
	metadata         map[string]Variable
	references       types.PathSet
	built            bool
}

// NewGraphBuilder starts a graph for a granule. Global attributes are
// supplemented and then overridden by the rule source, so overrides have
// the final say.
func NewGraphBuilder(rules ports.RuleSourcePort, namespace string, globalAttributes map[string]any) *GraphBuilder {
	if rules == nil {
		rules = policies.NoRules{}
	}
	globals := shared.CloneAttributes(globalAttributes)
	if globals == nil {
		globals = map[string]any{}
	}
	maps.Copy(globals, rules.GlobalSupplements())
	maps.Copy(globals, rules.GlobalOverrides())
	return &GraphBuilder{
		rules:            rules,
		namespace:        namespace,
		globalAttributes: globals,
		withCoordinates:  map[string]Variable{},
		metadata:         map[string]Variable{},
		references:       types.PathSet{},
	}
}

// Add constructs and classifies one variable.
func (b *GraphBuilder) Add(ctx context.Context, raw types.RawVariable) (Variable, error) {
	if b.built {
		return Variable{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("graph already built")
	}
	path := normalizeVariablePath(raw.Path)
	if path == pathSeparator {
		return Variable{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("variable path must be set")
	}
	if _, exists := b.lookup(path); exists {
		return Variable{}, errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg(fmt.Sprintf("duplicate variable %s", path))
	}

	variable := NewVariable(raw, b.rules.VariableRules(path), b.namespace)
	b.references.Union(variable.AllReferences())
	if variable.HasCoordinates() {
		b.withCoordinates[path] = variable
	} else {
		b.metadata[path] = variable
	}
	return variable, nil
}

// Build prunes references that do not name an ingested variable and
// returns the finished graph. The builder cannot be used afterwards.
func (b *GraphBuilder) Build(ctx context.Context) (*VariableGraph, error) {
	if b.built {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("graph already built")
	}
	b.built = true

	pruned := types.PathSet{}
	for reference := range b.references {
		if _, ok := b.lookup(reference); ok {
			pruned.Add(reference)
		}
	}

	paths := make([]string, 0, len(b.withCoordinates)+len(b.metadata))
	for path := range b.withCoordinates {
		paths = append(paths, path)
	}
	for path := range b.metadata {
		paths = append(paths, path)
	}
	assert.Equal(ctx, len(paths), len(types.NewPathSet(paths...)), "variable classified twice")
	sort.Strings(paths)

	log.Ctx(ctx).Debug().
		Int("with_coordinates", len(b.withCoordinates)).
		Int("metadata", len(b.metadata)).
		Int("references", len(pruned)).
		Int("dangling_references", len(b.references)-len(pruned)).
		Msg("variable graph built")

	graph := &VariableGraph{
		namespace:        b.namespace,
		withCoordinates:  b.withCoordinates,
		metadata:         b.metadata,
		references:       pruned,
		globalAttributes: b.globalAttributes,
		paths:            paths,
		isExcluded:       b.rules.IsExcludedScience,
		isRequired:       b.rules.IsRequired,
	}
	b.withCoordinates, b.metadata, b.references = nil, nil, nil
	return graph, nil
}

func (b *GraphBuilder) lookup(path string) (Variable, bool) {
	if variable, ok := b.withCoordinates[path]; ok {
		return variable, true
	}
	variable, ok := b.metadata[path]
	return variable, ok
}

// BuildGraph ingests every variable of a granule in a single pass.
func BuildGraph(ctx context.Context, granule types.GranuleDescription, rules ports.RuleSourcePort) (*VariableGraph, error) {
	builder := NewGraphBuilder(rules, granule.Namespace, granule.GlobalAttributes)
	for _, raw := range granule.Variables {
		if _, err := builder.Add(ctx, raw); err != nil {
			return nil, err
		}
	}
	return builder.Build(ctx)
}

// VariableGraph is the read-only view of a granule's variables and the
// references between them. All queries are pure and may be repeated.
type VariableGraph struct {
	namespace        string
	withCoordinates  map[string]Variable
	metadata         map[string]Variable
	references       types.PathSet
	globalAttributes map[string]any
	paths            []string
	isExcluded       func(string) bool
	isRequired       func(string) bool
}

// Variable looks up a variable by absolute path, checking variables with
// coordinates before metadata variables.
func (g *VariableGraph) Variable(path string) (Variable, bool) {
	if variable, ok := g.withCoordinates[path]; ok {
		return variable, true
	}
	variable, ok := g.metadata[path]
	return variable, ok
}

func (g *VariableGraph) Namespace() string { return g.namespace }

// VariablePaths returns every ingested path in lexical order.
func (g *VariableGraph) VariablePaths() []string {
	out := make([]string, len(g.paths))
	copy(out, g.paths)
	return out
}

// References returns every path referenced by some variable that is
// itself an ingested variable.
func (g *VariableGraph) References() types.PathSet {
	return g.references.Clone()
}

func (g *VariableGraph) GlobalAttributes() map[string]any {
	return shared.CloneAttributes(g.globalAttributes)
}

// ScienceVariables are variables with coordinates that are neither
// excluded by configuration nor referenced by another variable.
func (g *VariableGraph) ScienceVariables() types.PathSet {
	science := types.PathSet{}
	for path := range g.withCoordinates {
		if g.isExcluded(path) || g.references.Has(path) {
			continue
		}
		science.Add(path)
	}
	return science
}

// MetadataVariables are variables without coordinates, plus excluded
// variables with coordinates, that no other variable references.
func (g *VariableGraph) MetadataVariables() types.PathSet {
	metadata := types.PathSet{}
	for path := range g.metadata {
		if !g.references.Has(path) {
			metadata.Add(path)
		}
	}
	for path := range g.withCoordinates {
		if g.isExcluded(path) && !g.references.Has(path) {
			metadata.Add(path)
		}
	}
	return metadata
}

// RequiredVariables returns the requested variables, the variables the
// configuration always requires, and everything they transitively
// reference. Placeholder dimensions are never part of the result. The
// requested set is not modified.
func (g *VariableGraph) RequiredVariables(requested types.PathSet) types.PathSet {
	pending := requested.Clone()
	for _, path := range g.paths {
		if g.isRequired(path) {
			pending.Add(path)
		}
	}

	required := types.PathSet{}
	for len(pending) > 0 {
		path := popPath(pending)
		required.Add(path)

		variable, ok := g.Variable(path)
		if !ok {
			continue
		}
		for reference := range variable.AllReferences() {
			if required.Has(reference) {
				continue
			}
			if _, exists := g.Variable(reference); exists {
				pending.Add(reference)
			}
		}
	}

	for path := range required {
		if placeholderDimension.MatchString(path) {
			delete(required, path)
		}
	}
	return required
}

// RequiredDimensions returns every ingested variable used as a dimension
// by any of the given variables.
func (g *VariableGraph) RequiredDimensions(variables types.PathSet) types.PathSet {
	dimensions := types.PathSet{}
	for path := range variables {
		variable, ok := g.Variable(path)
		if !ok {
			continue
		}
		for _, dimension := range variable.dimensions {
			if _, exists := g.Variable(dimension); exists {
				dimensions.Add(dimension)
			}
		}
	}
	return dimensions
}

// SpatialDimensions filters RequiredDimensions to latitude and longitude.
func (g *VariableGraph) SpatialDimensions(variables types.PathSet) types.PathSet {
	return g.filterDimensions(variables, Variable.IsGeographic)
}

// TemporalDimensions filters RequiredDimensions to time dimensions.
func (g *VariableGraph) TemporalDimensions(variables types.PathSet) types.PathSet {
	return g.filterDimensions(variables, Variable.IsTemporal)
}

func (g *VariableGraph) filterDimensions(variables types.PathSet, keep func(Variable) bool) types.PathSet {
	out := types.PathSet{}
	for path := range g.RequiredDimensions(variables) {
		if variable, ok := g.Variable(path); ok && keep(variable) {
			out.Add(path)
		}
	}
	return out
}

func popPath(set types.PathSet) string {
	for path := range set {
		delete(set, path)
		return path
	}
	return ""
}
