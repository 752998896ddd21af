package app

import (
	"time"

	"granule-varinfo/internal/adapters"
	"granule-varinfo/internal/policies"
	"granule-varinfo/internal/ports"
	"granule-varinfo/internal/types"
)

type Service struct {
	ConfigLoader ports.ConfigLoaderPort
	Readers      map[types.GranuleFormat]ports.GranuleReaderPort
	Policies     *policies.Cache
	Renderer     ports.GraphRendererPort
	Clock        func() time.Time
}

func NewService() Service {
	readers := map[types.GranuleFormat]ports.GranuleReaderPort{
		types.GranuleFormatDMR:     adapters.NewDMRReaderAdapter(),
		types.GranuleFormatNetCDF4: adapters.NewNetCDF4ReaderAdapter(),
	}
	return Service{
		ConfigLoader: adapters.NewConfigFileAdapter(),
		Readers:      readers,
		Policies:     policies.NewCache(),
		Renderer:     adapters.NewGraphvizRendererAdapter(),
		Clock:        time.Now,
	}
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}
