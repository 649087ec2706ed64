package types

// Modifier is a power/cost/keyword/attribute change applied to a CardInstance.
type Modifier struct {
	ID        string
	Kind      ModifierKind
	Amount    int     // for ModPower / ModCost
	Tag       Keyword // for ModKeyword
	Attribute string  // for ModAttribute
	Duration  Duration
	Source    CardID // the card whose effect created this modifier
	Timestamp uint64 // monotone counter, not wall-clock
}
