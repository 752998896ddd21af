package ports

import "granule-varinfo/internal/types"

// RuleSourcePort is the compiled configuration for one collection.
//
// The pattern accessors expose the raw fragments as configured; the
// predicates are compiled once and are what the graph consults.
type RuleSourcePort interface {
	// VariableRules returns overrides and supplements scoped to path.
	// A path without rules yields empty maps, never an error.
	VariableRules(path string) types.VariableRules

	ExcludedSciencePatterns() []string
	RequiredVariablePatterns() []string

	IsExcludedScience(path string) bool
	IsRequired(path string) bool

	GlobalOverrides() map[string]any
	GlobalSupplements() map[string]any
}
