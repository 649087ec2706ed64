package types

// CardDefinition is the immutable, shared-by-reference card blueprint.
// Every CardInstance points at exactly one CardDefinition via DefID.
type CardDefinition struct {
	ID          DefID
	Name        string
	Category    Category
	Colors      map[string]bool
	TypeTags    []string
	Attributes  []string
	Power       *int // nil for cards with no power (Event, Stage)
	Cost        *int // nil for Leader
	Life        int  // Leader only
	CounterVal  int  // Character only; 0 = none
	Rarity      string
	Keywords    []Keyword
	Effects     []*EffectDefinition
	Metadata    map[string]string
}

// HasKeyword reports whether the definition statically carries kw.
func (c *CardDefinition) HasKeyword(kw Keyword) bool {
	for _, k := range c.Keywords {
		if k == kw {
			return true
		}
	}
	return false
}

// TargetFilter describes the exact predicate legalTargets must match (§4.6, Property 24).
type TargetFilter struct {
	Controller    TargetController
	Zones         []Zone
	Categories    []Category
	Colors        []string
	CostMin       *int
	CostMax       *int
	PowerMin      *int
	PowerMax      *int
	States        []CardState
	HasKeywords   []Keyword
	LacksKeywords []Keyword
	TypeTags      []string
	Attributes    []string
	ExcludeSelf   bool // exclude the source card of the effect
}

// TargetController restricts candidates by controller relative to the effect's controller.
type TargetController int

const (
	ControllerAny TargetController = iota
	ControllerSelf
	ControllerOpponent
)

// CostExpr is a declarative cost an effect's controller must pay before resolution.
type CostExpr struct {
	RestDonCount  int
	TrashCount    int
	RestSelf      bool
	Composite     []CostExpr
}

// ConditionExpr is a declarative precondition gating whether an effect may be activated.
type ConditionExpr struct {
	MinDonActive     *int
	MinCharactersYou *int
	MinLifeYou       *int
	MaxLifeYou       *int
	OncePerTurn      bool
	Custom           string // named predicate registered with the effect engine, for conditions not expressible declaratively
}

// EffectDefinition is one effect slot on a CardDefinition (§3, §4.6).
type EffectDefinition struct {
	ID            EffectID
	Label         string
	Timing        EffectTiming
	TriggerTiming TriggerTiming
	Condition     *ConditionExpr
	Cost          *CostExpr
	Resolver      ResolverKind
	Params        map[string]any
	TargetFilter  *TargetFilter
	MinTargets    int
	MaxTargets    int
	OncePerTurn   bool
	Priority      int // trigger-queue ordering hint (§4.7)
}

// ParamInt reads an integer parameter, defaulting to def if absent or mistyped.
func (e *EffectDefinition) ParamInt(key string, def int) int {
	if e.Params == nil {
		return def
	}
	if v, ok := e.Params[key]; ok {
		if iv, ok := v.(int); ok {
			return iv
		}
	}
	return def
}

// ParamString reads a string parameter, defaulting to def if absent or mistyped.
func (e *EffectDefinition) ParamString(key, def string) string {
	if e.Params == nil {
		return def
	}
	if v, ok := e.Params[key]; ok {
		if sv, ok := v.(string); ok {
			return sv
		}
	}
	return def
}

// ParamKeyword reads a Keyword parameter, defaulting to def if absent or mistyped.
func (e *EffectDefinition) ParamKeyword(key string, def Keyword) Keyword {
	if e.Params == nil {
		return def
	}
	if v, ok := e.Params[key]; ok {
		if kv, ok := v.(Keyword); ok {
			return kv
		}
		if sv, ok := v.(string); ok {
			return Keyword(sv)
		}
	}
	return def
}

// Valid reports whether the effect definition satisfies the parser's invariant
// (Property 17): non-empty id, a timing that is a known constant, and parameters
// that are non-nil whenever the resolver kind needs them.
func (e *EffectDefinition) Valid() bool {
	if e.ID == "" {
		return false
	}
	if e.Timing < TimingAuto || e.Timing > TimingReplacement {
		return false
	}
	switch e.Resolver {
	case ResolverPowerMod:
		_, hasAmt := e.Params["amount"]
		return hasAmt
	case ResolverDrawCards, ResolverTrashCards, ResolverAddLife:
		_, hasN := e.Params["count"]
		return hasN
	case ResolverGrantKeyword:
		_, hasKw := e.Params["keyword"]
		return hasKw
	}
	return true
}
