package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"granule-varinfo/internal/adapters"
	"granule-varinfo/internal/core"
	"granule-varinfo/internal/policies"
	"granule-varinfo/internal/ports"
	"granule-varinfo/internal/types"
)

// LoadGraph reads a granule, identifies its collection and builds the
// variable graph under the applicable configuration rules.
func (s Service) LoadGraph(ctx context.Context, req GraphRequest) (*core.VariableGraph, types.CollectionIdentity, error) {
	started := s.now()
	granulePath := strings.TrimSpace(req.GranulePath)
	if granulePath == "" {
		return nil, types.CollectionIdentity{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("granule path is required")
	}
	format, err := granuleFormat(granulePath, req.Format)
	if err != nil {
		return nil, types.CollectionIdentity{}, err
	}
	reader, ok := s.Readers[format]
	if !ok {
		reader, err = adapters.NewGranuleReader(format)
		if err != nil {
			return nil, types.CollectionIdentity{}, err
		}
	}
	granule, err := reader.ReadGranule(ctx, granulePath)
	if err != nil {
		return nil, types.CollectionIdentity{}, err
	}

	var rules ports.RuleSourcePort = policies.NoRules{}
	var identity types.CollectionIdentity
	if configPath := strings.TrimSpace(req.ConfigPath); configPath != "" {
		config, err := s.ConfigLoader.LoadConfig(configPath)
		if err != nil {
			return nil, types.CollectionIdentity{}, err
		}
		identity = core.IdentifyCollection(ctx, granule.GlobalAttributes, config)
		policy, err := s.policy(configPath, config, identity)
		if err != nil {
			return nil, types.CollectionIdentity{}, err
		}
		rules = policy
	}

	graph, err := core.BuildGraph(ctx, granule, rules)
	if err != nil {
		return nil, types.CollectionIdentity{}, err
	}
	log.Ctx(ctx).Debug().
		Str("granule", granulePath).
		Str("format", string(format)).
		Str("collection", identity.String()).
		Int("variables", len(granule.Variables)).
		Dur("elapsed", s.now().Sub(started)).
		Msg("granule loaded")
	return graph, identity, nil
}

func (s Service) policy(source string, config types.ConfigFile, identity types.CollectionIdentity) (policies.CFRulePolicy, error) {
	if s.Policies == nil {
		return policies.NewCFRulePolicy(config, identity)
	}
	return s.Policies.Policy(source, config, identity)
}

func granuleFormat(path string, requested string) (types.GranuleFormat, error) {
	if strings.TrimSpace(requested) != "" {
		format, ok := types.ParseGranuleFormat(requested)
		if !ok {
			return types.GranuleFormatUnknown, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unsupported granule format %q", requested))
		}
		return format, nil
	}
	format := types.FormatFromPath(path)
	if format == types.GranuleFormatUnknown {
		return types.GranuleFormatUnknown, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("cannot infer granule format of %s, set a format explicitly", path))
	}
	return format, nil
}

// variableSet normalizes user supplied variable paths to absolute paths.
func variableSet(variables []string) types.PathSet {
	set := types.PathSet{}
	for _, variable := range variables {
		trimmed := strings.TrimSpace(variable)
		if trimmed == "" {
			continue
		}
		set.Add("/" + strings.TrimLeft(trimmed, "/"))
	}
	return set
}
