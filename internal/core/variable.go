package core

import (
	"reflect"
	"slices"
	"strings"

	"github.com/spf13/cast"

	"granule-varinfo/internal/shared"
	"granule-varinfo/internal/types"
)

var (
	latitudeUnits = map[string]struct{}{
		"degrees_north": {}, "degree_north": {},
		"degrees_N": {}, "degree_N": {},
		"degreesN": {}, "degreeN": {},
	}
	longitudeUnits = map[string]struct{}{
		"degrees_east": {}, "degree_east": {},
		"degrees_E": {}, "degree_E": {},
		"degreesE": {}, "degreeE": {},
	}
)

// Variable is one variable of a granule with every reference and
// dimension qualified to an absolute path and any configured overrides or
// supplements applied. A Variable is never modified after construction;
// accessors hand out copies.
type Variable struct {
	path       string
	groupPath  string
	name       string
	dataType   string
	namespace  string
	attributes map[string]any
	references map[string]types.PathSet
	dimensions []string
}

// NewVariable builds a Variable from the reader tuple and the rules scoped
// to its path. namespace is the format-specific token the reader supplied.
func NewVariable(raw types.RawVariable, rules types.VariableRules, namespace string) Variable {
	path := normalizeVariablePath(raw.Path)
	groupPath, name := splitVariablePath(path)
	attributes := shared.CloneAttributes(raw.Attributes)
	if attributes == nil {
		attributes = map[string]any{}
	}
	return Variable{
		path:       path,
		groupPath:  groupPath,
		name:       name,
		dataType:   raw.DataType,
		namespace:  namespace,
		attributes: attributes,
		references: extractReferences(path, groupPath, attributes, rules),
		dimensions: extractDimensions(path, groupPath, raw.Dimensions, rules),
	}
}

func (v Variable) Path() string      { return v.path }
func (v Variable) GroupPath() string { return v.groupPath }
func (v Variable) Name() string      { return v.name }
func (v Variable) DataType() string  { return v.dataType }
func (v Variable) Namespace() string { return v.namespace }

// Attributes returns the raw metadata attributes, without configuration
// augmentation. Qualified references are available via References.
func (v Variable) Attributes() map[string]any {
	return shared.CloneAttributes(v.attributes)
}

func (v Variable) Attribute(name string) (any, bool) {
	value, ok := v.attributes[name]
	return shared.CloneValue(value), ok
}

// References maps each CF reference attribute with at least one reference
// to its qualified paths.
func (v Variable) References() map[string]types.PathSet {
	out := make(map[string]types.PathSet, len(v.references))
	for name, set := range v.references {
		out[name] = set.Clone()
	}
	return out
}

func (v Variable) ReferencesFor(attribute string) types.PathSet {
	return v.references[attribute].Clone()
}

// HasCoordinates reports whether the variable has any coordinate references.
func (v Variable) HasCoordinates() bool {
	return len(v.references[types.AttributeCoordinates]) > 0
}

// Dimensions returns the qualified dimension paths in axis order.
func (v Variable) Dimensions() []string {
	return slices.Clone(v.dimensions)
}

// AllReferences is the union of the dimensions and every reference
// attribute set. These are the edges of the variable graph.
func (v Variable) AllReferences() types.PathSet {
	set := types.NewPathSet(v.dimensions...)
	for _, references := range v.references {
		set.Union(references)
	}
	return set
}

// Range returns the valid range of the data, preferring a two element
// valid_range over the valid_min and valid_max pair.
func (v Variable) Range() ([]float64, bool) {
	if validRange, ok := v.validRange(); ok {
		return validRange, true
	}
	validMin, minOK := v.numericAttribute(types.AttributeValidMin)
	validMax, maxOK := v.numericAttribute(types.AttributeValidMax)
	if !minOK || !maxOK {
		return nil, false
	}
	return []float64{validMin, validMax}, true
}

func (v Variable) ValidMin() (float64, bool) {
	if value, ok := v.numericAttribute(types.AttributeValidMin); ok {
		return value, true
	}
	if validRange, ok := v.validRange(); ok {
		return validRange[0], true
	}
	return 0, false
}

func (v Variable) ValidMax() (float64, bool) {
	if value, ok := v.numericAttribute(types.AttributeValidMax); ok {
		return value, true
	}
	if validRange, ok := v.validRange(); ok {
		return validRange[1], true
	}
	return 0, false
}

func (v Variable) IsLatitude() bool {
	units, ok := v.units()
	if !ok {
		return false
	}
	_, found := latitudeUnits[units]
	return found
}

func (v Variable) IsLongitude() bool {
	units, ok := v.units()
	if !ok {
		return false
	}
	_, found := longitudeUnits[units]
	return found
}

func (v Variable) IsGeographic() bool {
	return v.IsLatitude() || v.IsLongitude()
}

// IsTemporal relies on CF time units, e.g. "seconds since 2000-01-01".
func (v Variable) IsTemporal() bool {
	units, ok := v.units()
	return ok && strings.Contains(units, " since ")
}

func (v Variable) units() (string, bool) {
	units, ok := v.attributes[types.AttributeUnits].(string)
	return units, ok
}

func (v Variable) numericAttribute(name string) (float64, bool) {
	raw, ok := v.attributes[name]
	if !ok || raw == nil {
		return 0, false
	}
	value, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}

func (v Variable) validRange() ([]float64, bool) {
	raw, ok := v.attributes[types.AttributeValidRange]
	if !ok || raw == nil {
		return nil, false
	}
	values, ok := toFloatSlice(raw)
	if !ok || len(values) != 2 {
		return nil, false
	}
	return values, true
}

// toFloatSlice accepts any slice or array of numeric values, which covers
// both []any from the DMR reader and typed slices from NetCDF-4.
func toFloatSlice(raw any) ([]float64, bool) {
	value := reflect.ValueOf(raw)
	if value.Kind() != reflect.Slice && value.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]float64, 0, value.Len())
	for idx := 0; idx < value.Len(); idx++ {
		number, err := cast.ToFloat64E(value.Index(idx).Interface())
		if err != nil {
			return nil, false
		}
		out = append(out, number)
	}
	return out, true
}
