package ports

import "granule-varinfo/internal/types"

type ConfigLoaderPort interface {
	LoadConfig(path string) (types.ConfigFile, error)
}
