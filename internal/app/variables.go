package app

import (
	"context"
)

func (s Service) Variables(ctx context.Context, req VariablesRequest) (VariablesResult, error) {
	graph, identity, err := s.LoadGraph(ctx, req.GraphRequest)
	if err != nil {
		return VariablesResult{}, err
	}
	return VariablesResult{
		ShortName:        identity.ShortName,
		Mission:          identity.Mission,
		Namespace:        graph.Namespace(),
		Science:          graph.ScienceVariables().Sorted(),
		Metadata:         graph.MetadataVariables().Sorted(),
		GlobalAttributes: graph.GlobalAttributes(),
	}, nil
}
