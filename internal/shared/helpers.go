// Package shared provides common utility functions used across multiple
// packages in the granule-varinfo codebase.
package shared

import (
	"reflect"
	"strings"
)

// SplitAttributePath turns a slash separated attribute path into the key
// sequence used to walk nested global attributes, e.g.
// "/Metadata/Series/short_name" becomes [Metadata Series short_name].
func SplitAttributePath(path string) []string {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// RecursiveGet walks nested attribute maps along keys. It returns false
// when any key is missing or an intermediate value is not a map.
func RecursiveGet(attributes map[string]any, keys []string) (any, bool) {
	if len(keys) == 0 {
		return nil, false
	}
	current := attributes
	for idx, key := range keys {
		value, ok := current[key]
		if !ok {
			return nil, false
		}
		if idx == len(keys)-1 {
			return value, value != nil
		}
		next, ok := value.(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// JoinGroupPath appends a child name to an absolute group path. The root
// group is the empty string.
func JoinGroupPath(groupPath string, name string) string {
	return strings.TrimSuffix(groupPath, "/") + "/" + strings.Trim(name, "/")
}

// CloneAttributes copies an attribute map and every nested map or slice
// in it, so the copy shares no mutable state with attributes.
func CloneAttributes(attributes map[string]any) map[string]any {
	if attributes == nil {
		return nil
	}
	out := make(map[string]any, len(attributes))
	for key, value := range attributes {
		out[key] = CloneValue(value)
	}
	return out
}

// CloneValue deep copies nested attribute maps and slices of any element
// type. Other values are returned as is.
func CloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return CloneAttributes(typed)
	case []any:
		if typed == nil {
			return typed
		}
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = CloneValue(item)
		}
		return out
	}
	slice := reflect.ValueOf(value)
	if slice.Kind() != reflect.Slice || slice.IsNil() {
		return value
	}
	out := reflect.MakeSlice(slice.Type(), slice.Len(), slice.Len())
	reflect.Copy(out, slice)
	return out.Interface()
}
