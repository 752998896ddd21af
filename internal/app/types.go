package app

import "granule-varinfo/internal/types"

// GraphRequest locates a granule and its optional CF configuration file.
// An empty Format is inferred from the granule file extension.
type GraphRequest struct {
	GranulePath string
	Format      string
	ConfigPath  string
}

type VariablesRequest struct {
	GraphRequest
}

type VariablesResult struct {
	ShortName        string
	Mission          string
	Namespace        string
	Science          []string
	Metadata         []string
	GlobalAttributes map[string]any
}

type RequiredRequest struct {
	GraphRequest
	Variables []string
}

type RequiredResult struct {
	Requested []string
	Required  []string
}

type DimensionsRequest struct {
	GraphRequest
	Variables []string
}

type DimensionsResult struct {
	Required []string
	Spatial  []string
	Temporal []string
}

// ExportRequest renders the variable graph. With Variables set only their
// required closure is rendered.
type ExportRequest struct {
	GraphRequest
	Variables []string
	Format    string
}

type ExportResult struct {
	Format types.ExportFormat
	View   types.GraphView
	Data   []byte
}
