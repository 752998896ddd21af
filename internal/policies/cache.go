package policies

import (
	"sync"

	"github.com/rs/zerolog/log"

	"granule-varinfo/internal/types"
)

// Cache memoizes compiled policies by configuration source and collection
// identity, so a configuration is compiled once per collection no matter
// how many granules of that collection are processed.
type Cache struct {
	mu       sync.Mutex
	policies map[cacheKey]CFRulePolicy
}

type cacheKey struct {
	source   string
	identity types.CollectionIdentity
}

func NewCache() *Cache {
	return &Cache{policies: map[cacheKey]CFRulePolicy{}}
}

// Policy returns the cached policy for source and identity, compiling
// config on first use. source names the configuration, usually its path.
func (c *Cache) Policy(source string, config types.ConfigFile, identity types.CollectionIdentity) (CFRulePolicy, error) {
	key := cacheKey{source: source, identity: identity}
	c.mu.Lock()
	if policy, ok := c.policies[key]; ok {
		c.mu.Unlock()
		return policy, nil
	}
	c.mu.Unlock()

	policy, err := NewCFRulePolicy(config, identity)
	if err != nil {
		return CFRulePolicy{}, err
	}

	c.mu.Lock()
	c.policies[key] = policy
	c.mu.Unlock()
	log.Debug().
		Str("source", source).
		Str("collection", identity.String()).
		Msg("rule policy compiled")
	return policy, nil
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.policies)
}
