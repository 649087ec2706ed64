package ai

import (
	"time"

	"github.com/tcgx/optcg-engine/internal/loopguard"
	"github.com/tcgx/optcg-engine/internal/types"
)

type cacheEntry struct {
	score     float64
	expiresAt time.Time
}

// scoreCache is a small TTL-bounded, size-capped cache from (state, action)
// to an evaluated score, avoiding re-simulating identical lookahead work
// within a single decision or across turns that revisit the same position.
type scoreCache struct {
	ttl     time.Duration
	cap     int
	entries map[string]cacheEntry
	order   []string // insertion order, for FIFO eviction once cap is hit
}

func newScoreCache(ttl time.Duration, cap int) *scoreCache {
	return &scoreCache{ttl: ttl, cap: cap, entries: map[string]cacheEntry{}}
}

func actionKey(g *types.GameState, a types.Action) string {
	return loopguard.Hash(g) + "|" + a.String()
}

func (c *scoreCache) get(key string, now time.Time) (float64, bool) {
	e, ok := c.entries[key]
	if !ok || now.After(e.expiresAt) {
		return 0, false
	}
	return e.score, true
}

func (c *scoreCache) put(key string, score float64, now time.Time) {
	if _, exists := c.entries[key]; !exists {
		if c.cap > 0 && len(c.order) >= c.cap {
			evict := (c.cap + 3) / 4 // oldest 25%, rounded up
			if evict > len(c.order) {
				evict = len(c.order)
			}
			for _, oldest := range c.order[:evict] {
				delete(c.entries, oldest)
			}
			c.order = c.order[evict:]
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{score: score, expiresAt: now.Add(c.ttl)}
}
