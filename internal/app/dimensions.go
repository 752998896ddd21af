package app

import (
	"context"
)

func (s Service) Dimensions(ctx context.Context, req DimensionsRequest) (DimensionsResult, error) {
	graph, _, err := s.LoadGraph(ctx, req.GraphRequest)
	if err != nil {
		return DimensionsResult{}, err
	}
	variables := variableSet(req.Variables)
	return DimensionsResult{
		Required: graph.RequiredDimensions(variables).Sorted(),
		Spatial:  graph.SpatialDimensions(variables).Sorted(),
		Temporal: graph.TemporalDimensions(variables).Sorted(),
	}, nil
}
