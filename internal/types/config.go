package types

// ConfigFile is the top-level structure of a varinfo CF configuration
// file. Rules are scoped to collections by their Applicability block.
type ConfigFile struct {
	Identification string `yaml:"identification"`
	Version        int    `yaml:"version"`

	// CollectionShortNamePath lists global attribute paths, in priority
	// order, that may hold the collection short name.
	CollectionShortNamePath []string `yaml:"collection_shortname_path"`

	// Mission maps short name patterns to a mission, first match wins.
	Mission []MissionRule `yaml:"mission"`

	ExcludedScienceVariables []VariablePatternRule `yaml:"excluded_science_variables"`
	RequiredFields           []VariablePatternRule `yaml:"required_fields"`
	CFOverrides              []AttributeRule       `yaml:"cf_overrides"`
	CFSupplements            []AttributeRule       `yaml:"cf_supplements"`
}

type MissionRule struct {
	ShortNamePattern string `yaml:"short_name_pattern"`
	Name             string `yaml:"name"`
}

// Applicability scopes a rule. Every non-empty field is a regular
// expression matched from the start of the corresponding value.
type Applicability struct {
	Mission         string `yaml:"mission,omitempty"`
	ShortNamePath   string `yaml:"short_name_path,omitempty"`
	VariablePattern string `yaml:"variable_pattern,omitempty"`
}

type VariablePatternRule struct {
	Applicability   Applicability `yaml:"applicability"`
	VariablePattern []string      `yaml:"variable_pattern"`
}

// AttributeRule overrides or supplements attributes. Without a variable
// pattern in its applicability the rule applies to global attributes.
type AttributeRule struct {
	Applicability Applicability    `yaml:"applicability"`
	Attributes    []AttributeValue `yaml:"attributes"`
}

type AttributeValue struct {
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
}
