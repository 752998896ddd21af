package policies

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// PatternMatcher is a set of regular expression fragments compiled into a
// single alternation. Fragments match from the start of a path. A matcher
// without fragments matches nothing.
type PatternMatcher struct {
	fragments []string
	pattern   *regexp.Regexp
}

func NewPatternMatcher(fragments []string) (PatternMatcher, error) {
	var kept []string
	for _, fragment := range fragments {
		if strings.TrimSpace(fragment) == "" {
			continue
		}
		kept = append(kept, fragment)
	}
	if len(kept) == 0 {
		return PatternMatcher{}, nil
	}
	grouped := make([]string, 0, len(kept))
	for _, fragment := range kept {
		grouped = append(grouped, "(?:"+fragment+")")
	}
	pattern, err := compileAnchored(strings.Join(grouped, "|"))
	if err != nil {
		return PatternMatcher{}, err
	}
	return PatternMatcher{fragments: kept, pattern: pattern}, nil
}

func (m PatternMatcher) Match(path string) bool {
	if m.pattern == nil {
		return false
	}
	return m.pattern.MatchString(path)
}

func (m PatternMatcher) Fragments() []string {
	return slices.Clone(m.fragments)
}

func compileAnchored(expression string) (*regexp.Regexp, error) {
	pattern, err := regexp.Compile("^(?:" + expression + ")")
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid rule pattern %q", expression)).
			WithCause(err)
	}
	return pattern, nil
}
