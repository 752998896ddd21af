package ports

import (
	"context"

	"granule-varinfo/internal/types"
)

// GranuleReaderPort turns one granule on disk into raw variable tuples.
// It is the only place where granule I/O happens.
type GranuleReaderPort interface {
	ReadGranule(ctx context.Context, path string) (types.GranuleDescription, error)
}
