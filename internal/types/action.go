package types

import "fmt"

// ActionKind is the closed union tag for player actions (§4.1).
type ActionKind int

const (
	ActionPlayCard ActionKind = iota
	ActionActivateEffect
	ActionGiveDon
	ActionDeclareAttack
	ActionDeclareBlock
	ActionUseCounterCard
	ActionPlayCounterEvent
	ActionPassPriority
	ActionEndPhase
)

func (a ActionKind) String() string {
	switch a {
	case ActionPlayCard:
		return "PlayCard"
	case ActionActivateEffect:
		return "ActivateEffect"
	case ActionGiveDon:
		return "GiveDon"
	case ActionDeclareAttack:
		return "DeclareAttack"
	case ActionDeclareBlock:
		return "DeclareBlock"
	case ActionUseCounterCard:
		return "UseCounterCard"
	case ActionPlayCounterEvent:
		return "PlayCounterEvent"
	case ActionPassPriority:
		return "PassPriority"
	case ActionEndPhase:
		return "EndPhase"
	default:
		return "Unknown"
	}
}

// Action is a single closed tagged-union player decision. Only the fields
// relevant to Kind are populated; payloads carry ids and enums only, never
// live references (Design Notes, §9).
type Action struct {
	Player      PlayerID
	ActionKind  ActionKind
	CardID      CardID
	SourceCard  CardID // for ActivateEffect: the card hosting the effect
	EffectID    EffectID
	Targets     []CardID
	DonID       DonID
	AttackerID  CardID
	TargetID    CardID // attack target character; empty means the leader
	Values      []int
}

func (a Action) String() string {
	switch a.ActionKind {
	case ActionPlayCard:
		return fmt.Sprintf("PlayCard(%s)", a.CardID)
	case ActionActivateEffect:
		return fmt.Sprintf("ActivateEffect(%s/%s)", a.SourceCard, a.EffectID)
	case ActionGiveDon:
		return fmt.Sprintf("GiveDon(%s -> %s)", a.DonID, a.CardID)
	case ActionDeclareAttack:
		if a.TargetID == "" {
			return fmt.Sprintf("DeclareAttack(%s -> leader)", a.AttackerID)
		}
		return fmt.Sprintf("DeclareAttack(%s -> %s)", a.AttackerID, a.TargetID)
	case ActionDeclareBlock:
		return fmt.Sprintf("DeclareBlock(%s)", a.CardID)
	case ActionUseCounterCard:
		return fmt.Sprintf("UseCounterCard(%s)", a.CardID)
	case ActionPlayCounterEvent:
		return fmt.Sprintf("PlayCounterEvent(%s)", a.CardID)
	case ActionPassPriority:
		return "PassPriority"
	case ActionEndPhase:
		return "EndPhase"
	default:
		return "Unknown"
	}
}
