package ai

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/tcgx/optcg-engine/internal/player"
	"github.com/tcgx/optcg-engine/internal/types"
)

// Simulator produces the resulting state of applying a single action,
// without mutating g. The engine façade supplies this (it is the only
// thing in this package that knows how to apply an Action), keeping this
// package free of a dependency on phase/battle/effect.
type Simulator func(g *types.GameState, a types.Action) (*types.GameState, error)

// Context configures one ai.Controller instance.
type Context struct {
	Player     types.PlayerID
	Weights    Weights
	Difficulty Difficulty
	Simulate   Simulator
	TimeBudget time.Duration // 0 disables the budget check (score every candidate)
	CacheTTL   time.Duration
	CacheCap   int
	Rand       *rand.Rand // seeded deterministically by the caller; never time-seeded here
}

// Controller is the ai package's player.Controller implementation.
type Controller struct {
	cfg   Context
	cache *scoreCache
}

// New builds a Controller from cfg, filling in sane defaults for any
// zero-valued tuning fields.
func New(cfg Context) *Controller {
	if cfg.TimeBudget == 0 {
		cfg.TimeBudget = 200 * time.Millisecond
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Second
	}
	if cfg.CacheCap == 0 {
		cfg.CacheCap = 2048
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(1))
	}
	return &Controller{cfg: cfg, cache: newScoreCache(cfg.CacheTTL, cfg.CacheCap)}
}

var _ player.Controller = (*Controller)(nil)

// ChooseAction scores every legal action (simulating its outcome when a
// Simulator is available and the time budget allows it, falling back to a
// zero-lookahead heuristic otherwise), prunes to the top candidates, and
// picks among them with difficulty-scaled randomness.
func (c *Controller) ChooseAction(ctx context.Context, g *types.GameState, legal []types.Action) (types.Action, error) {
	if len(legal) == 0 {
		return types.Action{}, nil
	}
	if len(legal) == 1 {
		return legal[0], nil
	}
	deadline := time.Now().Add(c.cfg.TimeBudget)
	results := make([]scoredAction, 0, len(legal))
	for _, a := range legal {
		results = append(results, scoredAction{action: a, score: c.scoreAction(g, a, deadline)})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })

	keep := 3
	if keep > len(results) {
		keep = len(results)
	}
	pool := results[:keep]
	return pickStochastic(pool, c.cfg.Difficulty, c.cfg.Rand).action, nil
}

func (c *Controller) scoreAction(g *types.GameState, a types.Action, deadline time.Time) float64 {
	key := actionKey(g, a)
	now := time.Now()
	if v, ok := c.cache.get(key, now); ok {
		return v
	}
	var score float64
	if c.cfg.Simulate != nil && now.Before(deadline) {
		if ng, err := c.cfg.Simulate(g, a); err == nil {
			score = Evaluate(ng, c.cfg.Player, c.cfg.Difficulty.Adapt(c.cfg.Weights, ng, c.cfg.Player))
		} else {
			score = staticBias(a)
		}
	} else {
		score = staticBias(a) + Evaluate(g, c.cfg.Player, c.cfg.Difficulty.Adapt(c.cfg.Weights, g, c.cfg.Player))
	}
	c.cache.put(key, score, now)
	return score
}

// staticBias nudges the ranking when no simulation is available: prefer
// developing the board or attacking over passing.
func staticBias(a types.Action) float64 {
	switch a.ActionKind {
	case types.ActionDeclareAttack:
		return 0.5
	case types.ActionPlayCard:
		return 0.4
	case types.ActionGiveDon:
		return 0.2
	case types.ActionActivateEffect:
		return 0.3
	case types.ActionEndPhase, types.ActionPassPriority:
		return -0.1
	default:
		return 0
	}
}

type scoredAction = struct {
	action types.Action
	score  float64
}

// pickStochastic samples from pool with probability proportional to
// exp(score/temperature); temperature shrinks as difficulty rises, so Hard
// nearly always takes the top score while Easy spreads weight across the
// kept candidates.
func pickStochastic(pool []scoredAction, d Difficulty, r *rand.Rand) scoredAction {
	temperature := 1.5 - float64(d) // Hard(1.0) -> 0.5, Easy(0.25) -> 1.25
	if temperature < 0.05 {
		temperature = 0.05
	}
	weights := make([]float64, len(pool))
	var total float64
	for i, p := range pool {
		weights[i] = math.Exp(p.score / temperature)
		total += weights[i]
	}
	if total == 0 || math.IsNaN(total) {
		return pool[0]
	}
	roll := r.Float64() * total
	var running float64
	for i, w := range weights {
		running += w
		if roll <= running {
			return pool[i]
		}
	}
	return pool[len(pool)-1]
}
