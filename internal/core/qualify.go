package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

const (
	pathSeparator = "/"
	parentMarker  = "../"
	currentMarker = "./"
)

// QualifyReference turns a reference token found on a variable into an
// absolute path. groupPath is the absolute path of the group owning the
// variable, or "" for variables at the root.
//
// Tokens that climb above the root are rejected rather than turned into a
// relative path.
func QualifyReference(token string, groupPath string) (string, error) {
	switch {
	case strings.HasPrefix(token, pathSeparator):
		return token, nil
	case strings.HasPrefix(token, parentMarker):
		return climbReference(token, groupPath)
	case strings.HasPrefix(token, currentMarker):
		return joinReference(groupPath, strings.TrimPrefix(token, currentMarker)), nil
	default:
		return joinReference(groupPath, token), nil
	}
}

func climbReference(token string, groupPath string) (string, error) {
	segments := groupSegments(groupPath)
	remaining := token
	for strings.HasPrefix(remaining, parentMarker) {
		if len(segments) == 0 {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("reference %q climbs above the root from group %q", token, groupPath))
		}
		remaining = strings.TrimPrefix(remaining, parentMarker)
		segments = segments[:len(segments)-1]
	}
	return joinReference(pathSeparator+strings.Join(segments, pathSeparator), remaining), nil
}

func joinReference(groupPath string, name string) string {
	base := strings.TrimSuffix(groupPath, pathSeparator)
	return base + pathSeparator + name
}

func groupSegments(groupPath string) []string {
	trimmed := strings.Trim(groupPath, pathSeparator)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, pathSeparator)
}

// splitVariablePath separates an absolute variable path at its last
// separator into the owning group path ("" at the root) and base name.
func splitVariablePath(path string) (string, string) {
	idx := strings.LastIndex(path, pathSeparator)
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

// normalizeVariablePath guarantees a single leading separator.
func normalizeVariablePath(path string) string {
	return pathSeparator + strings.TrimLeft(strings.TrimSpace(path), pathSeparator)
}
