// Package config loads the engine's tunable knobs from the environment,
// layering env-var overrides on top of internal/rules' baked-in defaults
// (§4.16).
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/tcgx/optcg-engine/internal/rules"
)

// RulesConfig is the subset of engine behavior a deployment may tune
// without recompiling: loop-guard strictness, board-size caps, and the
// AI search budget/cache sizing.
type RulesConfig struct {
	MaxRepeats        int  `env:"TCGX_MAX_REPEATS" envDefault:"4"`
	CharacterAreaCap  int  `env:"TCGX_CHARACTER_AREA_CAP" envDefault:"5"`
	AIThinkBudgetMS   int  `env:"TCGX_AI_THINK_BUDGET_MS" envDefault:"200"`
	AICacheTTLSeconds int  `env:"TCGX_AI_CACHE_TTL_SECONDS" envDefault:"5"`
	AICacheMaxEntries int  `env:"TCGX_AI_CACHE_MAX_ENTRIES" envDefault:"2048"`
	ErrorHistorySize  int  `env:"TCGX_ERROR_HISTORY_SIZE" envDefault:"100"`
	DebugMode         bool `env:"TCGX_DEBUG" envDefault:"false"`
}

// Load parses RulesConfig from the process environment.
func Load() (*RulesConfig, error) {
	cfg := &RulesConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}

// ApplyRules layers cfg onto a rules.Context built from rules.Default(),
// returning a new Context (rules.Context is treated as immutable once
// constructed, matching the Rules Context's read-only contract, §4.3).
func (cfg *RulesConfig) ApplyRules(base *rules.Context) *rules.Context {
	if base == nil {
		base = rules.Default()
	}
	r := *base
	r.Loop = rules.LoopPolicy{MaxRepeats: cfg.MaxRepeats}
	r.CharacterAreaCap = cfg.CharacterAreaCap
	return &r
}
