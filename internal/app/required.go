package app

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Required returns everything needed to subset the requested variables:
// the variables themselves, configured required fields and all their
// transitive references.
func (s Service) Required(ctx context.Context, req RequiredRequest) (RequiredResult, error) {
	graph, _, err := s.LoadGraph(ctx, req.GraphRequest)
	if err != nil {
		return RequiredResult{}, err
	}
	requested := variableSet(req.Variables)
	required := graph.RequiredVariables(requested)
	log.Ctx(ctx).Debug().
		Int("requested", len(requested)).
		Int("required", len(required)).
		Msg("required variables resolved")
	return RequiredResult{
		Requested: requested.Sorted(),
		Required:  required.Sorted(),
	}, nil
}
