package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tcgx/optcg-engine/internal/types"
)

func TestScoreCacheGetMissBeforePut(t *testing.T) {
	c := newScoreCache(time.Minute, 10)
	_, ok := c.get("k", time.Now())
	require.False(t, ok)
}

func TestScoreCachePutThenGetHits(t *testing.T) {
	c := newScoreCache(time.Minute, 10)
	now := time.Now()
	c.put("k", 1.5, now)
	v, ok := c.get("k", now)
	require.True(t, ok)
	require.Equal(t, 1.5, v)
}

func TestScoreCacheExpiresAfterTTL(t *testing.T) {
	c := newScoreCache(time.Second, 10)
	now := time.Now()
	c.put("k", 1.5, now)
	_, ok := c.get("k", now.Add(2*time.Second))
	require.False(t, ok)
}

// At capacity, put evicts the oldest 25% of entries in one batch rather
// than a single entry, so a cache that churns through its cap doesn't pay
// an eviction on every single insert thereafter.
func TestScoreCacheEvictsOldestQuarterOnCapacity(t *testing.T) {
	c := newScoreCache(time.Minute, 8)
	now := time.Now()
	keys := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for i, k := range keys {
		c.put(k, float64(i), now)
	}

	c.put("i", 9, now)

	for _, k := range []string{"a", "b"} {
		_, ok := c.get(k, now)
		require.Falsef(t, ok, "%s should have been evicted as part of the oldest quarter", k)
	}
	for _, k := range []string{"c", "d", "e", "f", "g", "h", "i"} {
		_, ok := c.get(k, now)
		require.Truef(t, ok, "%s should still be cached", k)
	}
}

func TestActionKeyDiffersByAction(t *testing.T) {
	g := &types.GameState{}
	k1 := actionKey(g, types.Action{ActionKind: types.ActionPassPriority})
	k2 := actionKey(g, types.Action{ActionKind: types.ActionEndPhase})
	require.NotEqual(t, k1, k2)
}
