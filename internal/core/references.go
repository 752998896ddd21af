package core

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"granule-varinfo/internal/types"
)

var referenceSeparator = regexp.MustCompile(`\s+|,\s*`)

// extractReferences resolves every CF reference attribute of a variable
// into a set of absolute paths. Attributes whose set ends up empty are left
// out of the result.
func extractReferences(path string, groupPath string, attributes map[string]any, rules types.VariableRules) map[string]types.PathSet {
	references := map[string]types.PathSet{}
	for _, name := range types.CFReferenceAttributes {
		raw, ok := mergedAttribute(name, attributes, rules)
		if !ok {
			continue
		}
		set := types.NewPathSet(qualifyTokens(path, groupPath, splitReferences(raw))...)
		if len(set) > 0 {
			references[name] = set
		}
	}
	return references
}

// extractDimensions applies dimension overrides and supplements to the raw
// dimension list. Order and duplicates are kept: they encode axis order.
func extractDimensions(path string, groupPath string, raw []string, rules types.VariableRules) []string {
	var dimensions []string
	if override, ok := rules.Override(types.AttributeDimensions); ok {
		dimensions = splitReferences(override)
	} else {
		for _, name := range raw {
			if strings.TrimSpace(name) != "" {
				dimensions = append(dimensions, name)
			}
		}
	}
	if supplement, ok := rules.Supplement(types.AttributeDimensions); ok {
		dimensions = append(dimensions, splitReferences(supplement)...)
	}
	return qualifyTokens(path, groupPath, dimensions)
}

// mergedAttribute returns the override (or the raw attribute) joined with
// any supplement.
func mergedAttribute(name string, attributes map[string]any, rules types.VariableRules) (string, bool) {
	value, found := rules.Override(name)
	if !found {
		value, found = attributeString(attributes, name)
	}
	if supplement, ok := rules.Supplement(name); ok {
		if found {
			value = value + ", " + supplement
		} else {
			value, found = supplement, true
		}
	}
	return value, found
}

func attributeString(attributes map[string]any, name string) (string, bool) {
	raw, ok := attributes[name]
	if !ok || raw == nil {
		return "", false
	}
	if value, ok := raw.(string); ok {
		return value, true
	}
	value, err := cast.ToStringE(raw)
	if err != nil {
		return "", false
	}
	return value, true
}

func splitReferences(value string) []string {
	var tokens []string
	for _, token := range referenceSeparator.Split(value, -1) {
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func qualifyTokens(path string, groupPath string, tokens []string) []string {
	qualified := make([]string, 0, len(tokens))
	for _, token := range tokens {
		absolute, err := QualifyReference(token, groupPath)
		if err != nil {
			log.Warn().
				Err(err).
				Str("variable", path).
				Str("reference", token).
				Msg("skipping unqualifiable reference")
			continue
		}
		qualified = append(qualified, absolute)
	}
	return qualified
}
