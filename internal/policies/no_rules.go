package policies

import (
	"granule-varinfo/internal/ports"
	"granule-varinfo/internal/types"
)

// NoRules is the rule source for granules without a configuration file.
type NoRules struct{}

func (NoRules) VariableRules(string) types.VariableRules { return types.VariableRules{} }
func (NoRules) ExcludedSciencePatterns() []string        { return nil }
func (NoRules) RequiredVariablePatterns() []string       { return nil }
func (NoRules) IsExcludedScience(string) bool            { return false }
func (NoRules) IsRequired(string) bool                   { return false }
func (NoRules) GlobalOverrides() map[string]any          { return nil }
func (NoRules) GlobalSupplements() map[string]any        { return nil }

var _ ports.RuleSourcePort = NoRules{}
