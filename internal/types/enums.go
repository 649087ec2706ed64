package types

// Category is the card super-type.
type Category int

const (
	CategoryLeader Category = iota
	CategoryCharacter
	CategoryEvent
	CategoryStage
	CategoryDon
)

func (c Category) String() string {
	switch c {
	case CategoryLeader:
		return "Leader"
	case CategoryCharacter:
		return "Character"
	case CategoryEvent:
		return "Event"
	case CategoryStage:
		return "Stage"
	case CategoryDon:
		return "DON"
	default:
		return "Unknown"
	}
}

// Zone enumerates every place a card or DON can live.
type Zone int

const (
	ZoneDeck Zone = iota
	ZoneHand
	ZoneTrash
	ZoneLife
	ZoneDonDeck
	ZoneCostArea
	ZoneLeaderArea
	ZoneCharacterArea
	ZoneStageArea
	ZoneBanished
)

func (z Zone) String() string {
	switch z {
	case ZoneDeck:
		return "Deck"
	case ZoneHand:
		return "Hand"
	case ZoneTrash:
		return "Trash"
	case ZoneLife:
		return "Life"
	case ZoneDonDeck:
		return "DonDeck"
	case ZoneCostArea:
		return "CostArea"
	case ZoneLeaderArea:
		return "LeaderArea"
	case ZoneCharacterArea:
		return "CharacterArea"
	case ZoneStageArea:
		return "StageArea"
	case ZoneBanished:
		return "Banished"
	default:
		return "Unknown"
	}
}

// CardState is the orientation of a card or DON.
type CardState int

const (
	StateNone CardState = iota
	StateActive
	StateRested
)

func (s CardState) String() string {
	switch s {
	case StateActive:
		return "Active"
	case StateRested:
		return "Rested"
	default:
		return "None"
	}
}

// Phase enumerates the turn's phase sequence.
type Phase int

const (
	PhaseRefresh Phase = iota
	PhaseDraw
	PhaseDon
	PhaseMain
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseRefresh:
		return "Refresh"
	case PhaseDraw:
		return "Draw"
	case PhaseDon:
		return "DonPhase"
	case PhaseMain:
		return "Main"
	case PhaseEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// BattleStep is a step within the attack pipeline (C8).
type BattleStep int

const (
	BattleStepNone BattleStep = iota
	BattleStepAttack
	BattleStepBlock
	BattleStepCounter
	BattleStepDamage
	BattleStepEnd
)

func (s BattleStep) String() string {
	switch s {
	case BattleStepAttack:
		return "Attack"
	case BattleStepBlock:
		return "Block"
	case BattleStepCounter:
		return "Counter"
	case BattleStepDamage:
		return "Damage"
	case BattleStepEnd:
		return "End"
	default:
		return "None"
	}
}

// EffectTiming is how an effect may be invoked.
type EffectTiming int

const (
	TimingAuto EffectTiming = iota
	TimingActivate
	TimingPermanent
	TimingReplacement
)

func (t EffectTiming) String() string {
	switch t {
	case TimingAuto:
		return "Auto"
	case TimingActivate:
		return "Activate"
	case TimingPermanent:
		return "Permanent"
	case TimingReplacement:
		return "Replacement"
	default:
		return "Unknown"
	}
}

// TriggerTiming is when an auto-effect fires, matched against emitted events.
type TriggerTiming int

const (
	TriggerNone TriggerTiming = iota
	TriggerStartOfGame
	TriggerStartOfTurn
	TriggerOnPlay
	TriggerWhenAttacking
	TriggerOnOpponentAttack
	TriggerOnBlock
	TriggerWhenAttacked
	TriggerOnKO
	TriggerEndOfBattle
	TriggerEndOfYourTurn
	TriggerEndOfOpponentTurn
)

func (t TriggerTiming) String() string {
	switch t {
	case TriggerStartOfGame:
		return "StartOfGame"
	case TriggerStartOfTurn:
		return "StartOfTurn"
	case TriggerOnPlay:
		return "OnPlay"
	case TriggerWhenAttacking:
		return "WhenAttacking"
	case TriggerOnOpponentAttack:
		return "OnOpponentAttack"
	case TriggerOnBlock:
		return "OnBlock"
	case TriggerWhenAttacked:
		return "WhenAttacked"
	case TriggerOnKO:
		return "OnKO"
	case TriggerEndOfBattle:
		return "EndOfBattle"
	case TriggerEndOfYourTurn:
		return "EndOfYourTurn"
	case TriggerEndOfOpponentTurn:
		return "EndOfOpponentTurn"
	default:
		return "None"
	}
}

// ResolverKind selects the registered pure resolver function (§4.6, Design Notes).
type ResolverKind int

const (
	ResolverNone ResolverKind = iota
	ResolverPowerMod
	ResolverDrawCards
	ResolverKOCharacter
	ResolverGrantKeyword
	ResolverSearchDeck
	ResolverRestCard
	ResolverActiveCard
	ResolverTrashCards
	ResolverGiveDon
	ResolverReturnToHand
	ResolverBanish
	ResolverAddLife
	ResolverPlayFromHand
)

func (r ResolverKind) String() string {
	switch r {
	case ResolverPowerMod:
		return "PowerMod"
	case ResolverDrawCards:
		return "DrawCards"
	case ResolverKOCharacter:
		return "KOCharacter"
	case ResolverGrantKeyword:
		return "GrantKeyword"
	case ResolverSearchDeck:
		return "SearchDeck"
	case ResolverRestCard:
		return "RestCard"
	case ResolverActiveCard:
		return "ActiveCard"
	case ResolverTrashCards:
		return "TrashCards"
	case ResolverGiveDon:
		return "GiveDon"
	case ResolverReturnToHand:
		return "ReturnToHand"
	case ResolverBanish:
		return "Banish"
	case ResolverAddLife:
		return "AddLife"
	case ResolverPlayFromHand:
		return "PlayFromHand"
	default:
		return "None"
	}
}

// ModifierKind is what a Modifier changes.
type ModifierKind int

const (
	ModPower ModifierKind = iota
	ModCost
	ModKeyword
	ModAttribute
)

// Duration is how long a Modifier lasts.
type Duration int

const (
	DurationPermanent Duration = iota
	DurationUntilEndOfTurn
	DurationUntilEndOfBattle
	DurationUntilStartOfNextTurn
	DurationDuringThisTurn
)

// Keyword is a static or granted ability tag.
type Keyword string

const (
	KeywordRush         Keyword = "Rush"
	KeywordBlocker      Keyword = "Blocker"
	KeywordDoubleAttack Keyword = "DoubleAttack"
	KeywordBanish       Keyword = "Banish"
	KeywordTrigger      Keyword = "Trigger"
)

// ErrorCode is the closed taxonomy of engine-level failures (§6).
type ErrorCode int

const (
	ErrNone ErrorCode = iota
	ErrIllegalAction
	ErrInvalidState
	ErrRulesViolation
	ErrCardDataError
	ErrEffectResolutionError
	ErrZoneOperationError
	ErrNotSetup
	ErrSetupError
)

func (e ErrorCode) String() string {
	switch e {
	case ErrIllegalAction:
		return "ILLEGAL_ACTION"
	case ErrInvalidState:
		return "INVALID_STATE"
	case ErrRulesViolation:
		return "RULES_VIOLATION"
	case ErrCardDataError:
		return "CARD_DATA_ERROR"
	case ErrEffectResolutionError:
		return "EFFECT_RESOLUTION_ERROR"
	case ErrZoneOperationError:
		return "ZONE_OPERATION_ERROR"
	case ErrNotSetup:
		return "NOT_SETUP"
	case ErrSetupError:
		return "SETUP_ERROR"
	default:
		return "NONE"
	}
}
