package types

// VariableRules is the configuration slice scoped to a single variable
// path. Keys are attribute names (including "dimensions"); values are the
// raw reference strings to use instead of, or in addition to, what the
// granule stores.
type VariableRules struct {
	Overrides   map[string]string
	Supplements map[string]string
}

func (r VariableRules) Override(name string) (string, bool) {
	value, ok := r.Overrides[name]
	return value, ok
}

func (r VariableRules) Supplement(name string) (string, bool) {
	value, ok := r.Supplements[name]
	return value, ok
}
