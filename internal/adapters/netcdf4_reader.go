package adapters

import (
	"context"
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/rs/zerolog/log"

	"granule-varinfo/internal/ports"
	"granule-varinfo/internal/shared"
	"granule-varinfo/internal/types"
)

// NetCDF4ReaderAdapter reads NetCDF-4 and HDF5 granules. Only metadata is
// read; variable values are never loaded.
type NetCDF4ReaderAdapter struct {
	open func(path string) (api.Group, error)
}

func NewNetCDF4ReaderAdapter() NetCDF4ReaderAdapter {
	return NetCDF4ReaderAdapter{open: netcdf.Open}
}

func (a NetCDF4ReaderAdapter) ReadGranule(ctx context.Context, path string) (types.GranuleDescription, error) {
	if _, err := os.Stat(path); err != nil {
		return types.GranuleDescription{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("failed to read netcdf4 %s", path)).
			WithCause(err)
	}
	root, err := a.open(path)
	if err != nil {
		return types.GranuleDescription{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to open netcdf4 %s", path)).
			WithCause(err)
	}
	defer root.Close()

	granule, err := describeNetCDF4(root)
	if err != nil {
		return types.GranuleDescription{}, err
	}
	log.Ctx(ctx).Debug().
		Str("path", path).
		Int("variables", len(granule.Variables)).
		Msg("netcdf4 parsed")
	return granule, nil
}

func describeNetCDF4(root api.Group) (types.GranuleDescription, error) {
	granule := types.GranuleDescription{
		Format:           types.GranuleFormatNetCDF4,
		GlobalAttributes: netcdfAttributes(root.Attributes()),
	}
	err := shared.WalkGroups(root, netcdfGroups, func(group api.Group, groupPath string) error {
		for _, name := range group.ListVariables() {
			getter, err := group.GetVarGetter(name)
			if err != nil {
				return errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("failed to read variable %s/%s", groupPath, name)).
					WithCause(err)
			}
			granule.Variables = append(granule.Variables, types.RawVariable{
				Path:       groupPath + "/" + name,
				DataType:   getter.Type(),
				Attributes: netcdfAttributes(getter.Attributes()),
				Dimensions: append([]string(nil), getter.Dimensions()...),
			})
		}
		return nil
	})
	if err != nil {
		return types.GranuleDescription{}, err
	}
	return granule, nil
}

func netcdfGroups(group api.Group) ([]shared.NamedGroup[api.Group], error) {
	var groups []shared.NamedGroup[api.Group]
	for _, name := range group.ListSubgroups() {
		child, err := group.GetGroup(name)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("failed to open group %s", name)).
				WithCause(err)
		}
		groups = append(groups, shared.NamedGroup[api.Group]{Name: name, Node: child})
	}
	return groups, nil
}

func netcdfAttributes(attributes api.AttributeMap) map[string]any {
	out := map[string]any{}
	if attributes == nil {
		return out
	}
	for _, key := range attributes.Keys() {
		if value, ok := attributes.Get(key); ok {
			out[key] = value
		}
	}
	return out
}

var _ ports.GranuleReaderPort = NetCDF4ReaderAdapter{}
