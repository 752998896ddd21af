package policies

import (
	"fmt"
	"maps"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cast"

	"granule-varinfo/internal/ports"
	"granule-varinfo/internal/types"
)

// CFRulePolicy is a configuration file compiled for one collection. Only
// rules applicable to the collection's mission and short name survive
// compilation, and every pattern is compiled exactly once.
type CFRulePolicy struct {
	identity          types.CollectionIdentity
	excluded          PatternMatcher
	required          PatternMatcher
	overrides         []variableAttributeRule
	supplements       []variableAttributeRule
	globalOverrides   map[string]any
	globalSupplements map[string]any
}

type variableAttributeRule struct {
	variable *regexp.Regexp
	values   map[string]string
}

func NewCFRulePolicy(config types.ConfigFile, identity types.CollectionIdentity) (CFRulePolicy, error) {
	policy := CFRulePolicy{
		identity:          identity,
		globalOverrides:   map[string]any{},
		globalSupplements: map[string]any{},
	}

	excluded, err := compilePatternRules(config.ExcludedScienceVariables, identity)
	if err != nil {
		return CFRulePolicy{}, err
	}
	required, err := compilePatternRules(config.RequiredFields, identity)
	if err != nil {
		return CFRulePolicy{}, err
	}
	policy.excluded = excluded
	policy.required = required

	policy.overrides, err = compileAttributeRules(config.CFOverrides, identity, policy.globalOverrides)
	if err != nil {
		return CFRulePolicy{}, err
	}
	policy.supplements, err = compileAttributeRules(config.CFSupplements, identity, policy.globalSupplements)
	if err != nil {
		return CFRulePolicy{}, err
	}
	return policy, nil
}

func (p CFRulePolicy) Identity() types.CollectionIdentity { return p.identity }

// VariableRules collects every applicable override and supplement whose
// variable pattern matches path. Later rules win for the same attribute.
func (p CFRulePolicy) VariableRules(path string) types.VariableRules {
	return types.VariableRules{
		Overrides:   collectAttributes(p.overrides, path),
		Supplements: collectAttributes(p.supplements, path),
	}
}

func (p CFRulePolicy) ExcludedSciencePatterns() []string  { return p.excluded.Fragments() }
func (p CFRulePolicy) RequiredVariablePatterns() []string { return p.required.Fragments() }
func (p CFRulePolicy) IsExcludedScience(path string) bool { return p.excluded.Match(path) }
func (p CFRulePolicy) IsRequired(path string) bool        { return p.required.Match(path) }

func (p CFRulePolicy) GlobalOverrides() map[string]any   { return maps.Clone(p.globalOverrides) }
func (p CFRulePolicy) GlobalSupplements() map[string]any { return maps.Clone(p.globalSupplements) }

func collectAttributes(rules []variableAttributeRule, path string) map[string]string {
	values := map[string]string{}
	for _, rule := range rules {
		if rule.variable.MatchString(path) {
			maps.Copy(values, rule.values)
		}
	}
	return values
}

func compilePatternRules(rules []types.VariablePatternRule, identity types.CollectionIdentity) (PatternMatcher, error) {
	var fragments []string
	for _, rule := range rules {
		ok, err := isApplicable(rule.Applicability, identity)
		if err != nil {
			return PatternMatcher{}, err
		}
		if ok {
			fragments = append(fragments, rule.VariablePattern...)
		}
	}
	return NewPatternMatcher(fragments)
}

// compileAttributeRules returns the variable scoped rules and writes the
// rules without a variable pattern into globals.
func compileAttributeRules(rules []types.AttributeRule, identity types.CollectionIdentity, globals map[string]any) ([]variableAttributeRule, error) {
	var compiled []variableAttributeRule
	for _, rule := range rules {
		ok, err := isApplicable(rule.Applicability, identity)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if strings.TrimSpace(rule.Applicability.VariablePattern) == "" {
			for _, attribute := range rule.Attributes {
				if attribute.Name != "" {
					globals[attribute.Name] = attribute.Value
				}
			}
			continue
		}
		pattern, err := compileAnchored(rule.Applicability.VariablePattern)
		if err != nil {
			return nil, err
		}
		values := map[string]string{}
		for _, attribute := range rule.Attributes {
			if attribute.Name == "" {
				continue
			}
			value, err := cast.ToStringE(attribute.Value)
			if err != nil {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("attribute %s for %s must be a string", attribute.Name, rule.Applicability.VariablePattern)).
					WithCause(err)
			}
			values[attribute.Name] = value
		}
		compiled = append(compiled, variableAttributeRule{variable: pattern, values: values})
	}
	return compiled, nil
}

func isApplicable(applicability types.Applicability, identity types.CollectionIdentity) (bool, error) {
	for _, check := range []struct {
		pattern string
		value   string
	}{
		{applicability.Mission, identity.Mission},
		{applicability.ShortNamePath, identity.ShortName},
	} {
		if strings.TrimSpace(check.pattern) == "" {
			continue
		}
		pattern, err := compileAnchored(check.pattern)
		if err != nil {
			return false, err
		}
		if !pattern.MatchString(check.value) {
			return false, nil
		}
	}
	return true, nil
}

var _ ports.RuleSourcePort = CFRulePolicy{}
