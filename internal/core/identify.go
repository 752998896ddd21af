package core

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"granule-varinfo/internal/shared"
	"granule-varinfo/internal/types"
)

// IdentifyCollection finds the collection short name among the global
// attributes, trying each configured attribute path in order, and maps it
// to a mission using the first matching mission rule. Either part may be
// empty when the granule or configuration does not identify it.
func IdentifyCollection(ctx context.Context, globalAttributes map[string]any, config types.ConfigFile) types.CollectionIdentity {
	identity := types.CollectionIdentity{}
	for _, attributePath := range config.CollectionShortNamePath {
		value, ok := shared.RecursiveGet(globalAttributes, shared.SplitAttributePath(attributePath))
		if !ok {
			continue
		}
		shortName, err := cast.ToStringE(value)
		if err != nil || strings.TrimSpace(shortName) == "" {
			continue
		}
		identity.ShortName = strings.TrimSpace(shortName)
		break
	}
	if identity.ShortName == "" {
		log.Ctx(ctx).Debug().Msg("collection short name not found in global attributes")
		return identity
	}

	for _, rule := range config.Mission {
		pattern, err := regexp.Compile("^(?:" + rule.ShortNamePattern + ")")
		if err != nil {
			log.Ctx(ctx).Warn().
				Err(err).
				Str("pattern", rule.ShortNamePattern).
				Msg("skipping invalid mission pattern")
			continue
		}
		if pattern.MatchString(identity.ShortName) {
			identity.Mission = rule.Name
			break
		}
	}
	log.Ctx(ctx).Debug().
		Str("short_name", identity.ShortName).
		Str("mission", identity.Mission).
		Msg("collection identified")
	return identity
}
