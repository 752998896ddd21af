package types

import (
	"path/filepath"
	"strings"
)

type GranuleFormat string

const (
	GranuleFormatUnknown GranuleFormat = ""
	GranuleFormatDMR     GranuleFormat = "dmr"
	GranuleFormatNetCDF4 GranuleFormat = "netcdf4"
)

// ParseGranuleFormat accepts the user-facing format names.
func ParseGranuleFormat(value string) (GranuleFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dmr", "xml":
		return GranuleFormatDMR, true
	case "netcdf4", "netcdf", "nc4", "nc", "hdf5", "h5":
		return GranuleFormatNetCDF4, true
	default:
		return GranuleFormatUnknown, false
	}
}

// FormatFromPath guesses the granule format from the file extension.
func FormatFromPath(path string) GranuleFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dmr", ".xml":
		return GranuleFormatDMR
	case ".nc", ".nc4", ".h5", ".he5", ".hdf5":
		return GranuleFormatNetCDF4
	default:
		return GranuleFormatUnknown
	}
}

// CFReferenceAttributes lists the CF-Convention attributes whose values
// name other variables in the granule.
var CFReferenceAttributes = []string{
	"ancillary_variables",
	"bounds",
	"climatology",
	"coordinates",
	"grid_mapping",
	"subset_control_variables",
}

const (
	AttributeCoordinates = "coordinates"
	AttributeDimensions  = "dimensions"
	AttributeUnits       = "units"
	AttributeValidRange  = "valid_range"
	AttributeValidMin    = "valid_min"
	AttributeValidMax    = "valid_max"
)
