package types

import "sort"

// PathSet is an unordered set of absolute variable paths.
type PathSet map[string]struct{}

func NewPathSet(paths ...string) PathSet {
	set := make(PathSet, len(paths))
	for _, path := range paths {
		set[path] = struct{}{}
	}
	return set
}

func (s PathSet) Add(paths ...string) {
	for _, path := range paths {
		s[path] = struct{}{}
	}
}

func (s PathSet) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// Union adds every member of other to s.
func (s PathSet) Union(other PathSet) {
	for path := range other {
		s[path] = struct{}{}
	}
}

func (s PathSet) Clone() PathSet {
	out := make(PathSet, len(s))
	for path := range s {
		out[path] = struct{}{}
	}
	return out
}

// Sorted returns the members in lexical order, for stable output.
func (s PathSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for path := range s {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}
