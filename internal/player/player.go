// Package player defines the Player Protocol (C13): the six cooperative
// choice points the kernel blocks on, plus the closed set of legal-option
// shapes each call exchanges with its controller.
package player

import (
	"context"

	"github.com/tcgx/optcg-engine/internal/types"
)

// BlockerOption is a legal blocker offered during chooseBlocker, or the
// "decline to block" option represented by an empty CardID.
type BlockerOption struct {
	CardID types.CardID // empty means "do not block"
}

// CounterOption is a legal response offered during chooseCounterAction.
type CounterOption struct {
	Kind    CounterOptionKind
	CardID  types.CardID
}

// CounterOptionKind distinguishes the three counter-step choices (§4.8).
type CounterOptionKind int

const (
	CounterUseCard CounterOptionKind = iota
	CounterPlayEvent
	CounterPass
)

// ValueOption is one legal numeric choice offered during chooseValue.
type ValueOption struct {
	Value int
	Label string
}

// Controller is the capability set every player implementation — human
// adapter or AI — must satisfy. The engine suspends at the call site and
// resumes when the answer arrives; concurrency between the two players'
// controllers is never attempted by the kernel (§4.13, §5).
type Controller interface {
	// ChooseAction picks one of the legal actions.
	ChooseAction(ctx context.Context, state *types.GameState, legal []types.Action) (types.Action, error)

	// ChooseMulligan decides whether to redraw the opening hand.
	ChooseMulligan(ctx context.Context, state *types.GameState, hand []types.CardID) (bool, error)

	// ChooseBlocker picks a legal blocker, or the empty-CardID "none" option.
	ChooseBlocker(ctx context.Context, state *types.GameState, legal []BlockerOption, attacker types.CardID) (BlockerOption, error)

	// ChooseCounterAction picks a counter-step response, or Pass.
	ChooseCounterAction(ctx context.Context, state *types.GameState, legal []CounterOption) (CounterOption, error)

	// ChooseTarget picks one target from the legal candidate set.
	ChooseTarget(ctx context.Context, state *types.GameState, candidates []types.CardID, effect *types.EffectDefinition) (types.CardID, error)

	// ChooseValue picks one value from the legal option set.
	ChooseValue(ctx context.Context, state *types.GameState, legal []ValueOption, effect *types.EffectDefinition) (int, error)

	// Notify delivers an observable event; no response is expected.
	Notify(ctx context.Context, event types.Event) error
}
