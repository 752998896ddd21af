package adapters

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"granule-varinfo/internal/ports"
	"granule-varinfo/internal/types"
)

// NewGranuleReader returns the reader for a granule format.
func NewGranuleReader(format types.GranuleFormat) (ports.GranuleReaderPort, error) {
	switch format {
	case types.GranuleFormatDMR:
		return NewDMRReaderAdapter(), nil
	case types.GranuleFormatNetCDF4:
		return NewNetCDF4ReaderAdapter(), nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported granule format %q", format))
	}
}
