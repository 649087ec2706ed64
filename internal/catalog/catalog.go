// Package catalog loads the immutable CardDefinition catalog and deck
// lists from YAML, replacing the teacher's Go-closure card constructors
// (internal/game/cards.go) with the declarative EffectDefinition IR the
// Effect Engine's resolver registry consumes.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tcgx/optcg-engine/internal/types"
)

// Catalog is a loaded, immutable set of card definitions keyed by id.
type Catalog struct {
	defs map[types.DefID]*types.CardDefinition
}

// Lookup adapts the Catalog to the types.CatalogLookup function type the
// rest of the engine consumes.
func (c *Catalog) Lookup(id types.DefID) (*types.CardDefinition, bool) {
	def, ok := c.defs[id]
	return def, ok
}

// All returns every loaded definition, in no particular order.
func (c *Catalog) All() []*types.CardDefinition {
	out := make([]*types.CardDefinition, 0, len(c.defs))
	for _, d := range c.defs {
		out = append(out, d)
	}
	return out
}

type cardFile struct {
	Cards []rawCard `yaml:"cards"`
}

type rawCard struct {
	ID         string     `yaml:"id"`
	Name       string     `yaml:"name"`
	Category   string     `yaml:"category"`
	Colors     []string   `yaml:"colors"`
	TypeTags   []string   `yaml:"typeTags"`
	Attributes []string   `yaml:"attributes"`
	Power      *int       `yaml:"power"`
	Cost       *int       `yaml:"cost"`
	Life       int        `yaml:"life"`
	CounterVal int        `yaml:"counterValue"`
	Rarity     string     `yaml:"rarity"`
	Keywords   []string   `yaml:"keywords"`
	Effects    []rawEffect `yaml:"effects"`
	Metadata   map[string]string `yaml:"metadata"`
}

type rawEffect struct {
	ID            string             `yaml:"id"`
	Label         string             `yaml:"label"`
	Timing        string             `yaml:"timing"`
	TriggerTiming string             `yaml:"triggerTiming"`
	Condition     *rawCondition      `yaml:"condition"`
	Cost          *rawCost           `yaml:"cost"`
	Resolver      string             `yaml:"resolver"`
	Params        map[string]any     `yaml:"params"`
	TargetFilter  *rawTargetFilter   `yaml:"targetFilter"`
	MinTargets    int                `yaml:"minTargets"`
	MaxTargets    int                `yaml:"maxTargets"`
	OncePerTurn   bool               `yaml:"oncePerTurn"`
	Priority      int                `yaml:"priority"`
}

type rawCondition struct {
	MinDonActive     *int   `yaml:"minDonActive"`
	MinCharactersYou *int   `yaml:"minCharactersYou"`
	MinLifeYou       *int   `yaml:"minLifeYou"`
	MaxLifeYou       *int   `yaml:"maxLifeYou"`
	OncePerTurn      bool   `yaml:"oncePerTurn"`
	Custom           string `yaml:"custom"`
}

type rawCost struct {
	RestDonCount int        `yaml:"restDonCount"`
	TrashCount   int        `yaml:"trashCount"`
	RestSelf     bool       `yaml:"restSelf"`
	Composite    []rawCost  `yaml:"composite"`
}

type rawTargetFilter struct {
	Controller    string   `yaml:"controller"`
	Zones         []string `yaml:"zones"`
	Categories    []string `yaml:"categories"`
	Colors        []string `yaml:"colors"`
	CostMin       *int     `yaml:"costMin"`
	CostMax       *int     `yaml:"costMax"`
	PowerMin      *int     `yaml:"powerMin"`
	PowerMax      *int     `yaml:"powerMax"`
	States        []string `yaml:"states"`
	HasKeywords   []string `yaml:"hasKeywords"`
	LacksKeywords []string `yaml:"lacksKeywords"`
	TypeTags      []string `yaml:"typeTags"`
	Attributes    []string `yaml:"attributes"`
	ExcludeSelf   bool     `yaml:"excludeSelf"`
}

// Load reads and parses a card catalog YAML file from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(data)
}

// LoadBytes parses a card catalog YAML document already in memory.
func LoadBytes(data []byte) (*Catalog, error) {
	var cf cardFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("catalog: parse card YAML: %w", err)
	}
	defs := make(map[types.DefID]*types.CardDefinition, len(cf.Cards))
	for _, rc := range cf.Cards {
		def, err := toDefinition(rc)
		if err != nil {
			return nil, fmt.Errorf("catalog: card %q: %w", rc.ID, err)
		}
		defs[def.ID] = def
	}
	return &Catalog{defs: defs}, nil
}

func toDefinition(rc rawCard) (*types.CardDefinition, error) {
	if rc.ID == "" {
		return nil, fmt.Errorf("missing id")
	}
	category, err := parseCategory(rc.Category)
	if err != nil {
		return nil, err
	}
	colors := make(map[string]bool, len(rc.Colors))
	for _, c := range rc.Colors {
		colors[c] = true
	}
	keywords := make([]types.Keyword, 0, len(rc.Keywords))
	for _, k := range rc.Keywords {
		keywords = append(keywords, types.Keyword(k))
	}
	effects := make([]*types.EffectDefinition, 0, len(rc.Effects))
	for _, re := range rc.Effects {
		eff, err := toEffect(re)
		if err != nil {
			return nil, fmt.Errorf("effect %q: %w", re.ID, err)
		}
		effects = append(effects, eff)
	}
	return &types.CardDefinition{
		ID:         types.DefID(rc.ID),
		Name:       rc.Name,
		Category:   category,
		Colors:     colors,
		TypeTags:   rc.TypeTags,
		Attributes: rc.Attributes,
		Power:      rc.Power,
		Cost:       rc.Cost,
		Life:       rc.Life,
		CounterVal: rc.CounterVal,
		Rarity:     rc.Rarity,
		Keywords:   keywords,
		Effects:    effects,
		Metadata:   rc.Metadata,
	}, nil
}

func toEffect(re rawEffect) (*types.EffectDefinition, error) {
	timing, err := parseEffectTiming(re.Timing)
	if err != nil {
		return nil, err
	}
	triggerTiming, err := parseTriggerTiming(re.TriggerTiming)
	if err != nil {
		return nil, err
	}
	resolver, err := parseResolverKind(re.Resolver)
	if err != nil {
		return nil, err
	}
	eff := &types.EffectDefinition{
		ID:            types.EffectID(re.ID),
		Label:         re.Label,
		Timing:        timing,
		TriggerTiming: triggerTiming,
		Resolver:      resolver,
		Params:        re.Params,
		MinTargets:    re.MinTargets,
		MaxTargets:    re.MaxTargets,
		OncePerTurn:   re.OncePerTurn,
		Priority:      re.Priority,
	}
	if re.Condition != nil {
		eff.Condition = &types.ConditionExpr{
			MinDonActive:     re.Condition.MinDonActive,
			MinCharactersYou: re.Condition.MinCharactersYou,
			MinLifeYou:       re.Condition.MinLifeYou,
			MaxLifeYou:       re.Condition.MaxLifeYou,
			OncePerTurn:      re.Condition.OncePerTurn,
			Custom:           re.Condition.Custom,
		}
	}
	if re.Cost != nil {
		eff.Cost = toCost(*re.Cost)
	}
	if re.TargetFilter != nil {
		tf, err := toTargetFilter(*re.TargetFilter)
		if err != nil {
			return nil, err
		}
		eff.TargetFilter = tf
	}
	if !eff.Valid() {
		return nil, fmt.Errorf("invalid effect definition")
	}
	return eff, nil
}

func toCost(rc rawCost) *types.CostExpr {
	ce := &types.CostExpr{RestDonCount: rc.RestDonCount, TrashCount: rc.TrashCount, RestSelf: rc.RestSelf}
	for _, sub := range rc.Composite {
		ce.Composite = append(ce.Composite, *toCost(sub))
	}
	return ce
}

func toTargetFilter(rf rawTargetFilter) (*types.TargetFilter, error) {
	controller, err := parseTargetController(rf.Controller)
	if err != nil {
		return nil, err
	}
	zones := make([]types.Zone, 0, len(rf.Zones))
	for _, z := range rf.Zones {
		zv, err := parseZone(z)
		if err != nil {
			return nil, err
		}
		zones = append(zones, zv)
	}
	categories := make([]types.Category, 0, len(rf.Categories))
	for _, c := range rf.Categories {
		cv, err := parseCategory(c)
		if err != nil {
			return nil, err
		}
		categories = append(categories, cv)
	}
	states := make([]types.CardState, 0, len(rf.States))
	for _, s := range rf.States {
		sv, err := parseCardState(s)
		if err != nil {
			return nil, err
		}
		states = append(states, sv)
	}
	has := make([]types.Keyword, 0, len(rf.HasKeywords))
	for _, k := range rf.HasKeywords {
		has = append(has, types.Keyword(k))
	}
	lacks := make([]types.Keyword, 0, len(rf.LacksKeywords))
	for _, k := range rf.LacksKeywords {
		lacks = append(lacks, types.Keyword(k))
	}
	return &types.TargetFilter{
		Controller:    controller,
		Zones:         zones,
		Categories:    categories,
		Colors:        rf.Colors,
		CostMin:       rf.CostMin,
		CostMax:       rf.CostMax,
		PowerMin:      rf.PowerMin,
		PowerMax:      rf.PowerMax,
		States:        states,
		HasKeywords:   has,
		LacksKeywords: lacks,
		TypeTags:      rf.TypeTags,
		Attributes:    rf.Attributes,
		ExcludeSelf:   rf.ExcludeSelf,
	}, nil
}

func parseCategory(s string) (types.Category, error) {
	switch s {
	case "Leader":
		return types.CategoryLeader, nil
	case "Character":
		return types.CategoryCharacter, nil
	case "Event":
		return types.CategoryEvent, nil
	case "Stage":
		return types.CategoryStage, nil
	case "DON", "Don", "":
		return types.CategoryDon, nil
	default:
		return 0, fmt.Errorf("unknown category %q", s)
	}
}

func parseZone(s string) (types.Zone, error) {
	switch s {
	case "Deck":
		return types.ZoneDeck, nil
	case "Hand":
		return types.ZoneHand, nil
	case "Trash":
		return types.ZoneTrash, nil
	case "Life":
		return types.ZoneLife, nil
	case "DonDeck":
		return types.ZoneDonDeck, nil
	case "CostArea":
		return types.ZoneCostArea, nil
	case "LeaderArea":
		return types.ZoneLeaderArea, nil
	case "CharacterArea":
		return types.ZoneCharacterArea, nil
	case "StageArea":
		return types.ZoneStageArea, nil
	case "Banished":
		return types.ZoneBanished, nil
	default:
		return 0, fmt.Errorf("unknown zone %q", s)
	}
}

func parseCardState(s string) (types.CardState, error) {
	switch s {
	case "Active":
		return types.StateActive, nil
	case "Rested":
		return types.StateRested, nil
	case "", "None":
		return types.StateNone, nil
	default:
		return 0, fmt.Errorf("unknown card state %q", s)
	}
}

func parseTargetController(s string) (types.TargetController, error) {
	switch s {
	case "", "Any":
		return types.ControllerAny, nil
	case "Self":
		return types.ControllerSelf, nil
	case "Opponent":
		return types.ControllerOpponent, nil
	default:
		return 0, fmt.Errorf("unknown target controller %q", s)
	}
}

func parseEffectTiming(s string) (types.EffectTiming, error) {
	switch s {
	case "", "Auto":
		return types.TimingAuto, nil
	case "Activate":
		return types.TimingActivate, nil
	case "Permanent":
		return types.TimingPermanent, nil
	case "Replacement":
		return types.TimingReplacement, nil
	default:
		return 0, fmt.Errorf("unknown effect timing %q", s)
	}
}

func parseTriggerTiming(s string) (types.TriggerTiming, error) {
	switch s {
	case "", "None":
		return types.TriggerNone, nil
	case "StartOfGame":
		return types.TriggerStartOfGame, nil
	case "StartOfTurn":
		return types.TriggerStartOfTurn, nil
	case "OnPlay":
		return types.TriggerOnPlay, nil
	case "WhenAttacking":
		return types.TriggerWhenAttacking, nil
	case "OnOpponentAttack":
		return types.TriggerOnOpponentAttack, nil
	case "OnBlock":
		return types.TriggerOnBlock, nil
	case "WhenAttacked":
		return types.TriggerWhenAttacked, nil
	case "OnKO":
		return types.TriggerOnKO, nil
	case "EndOfBattle":
		return types.TriggerEndOfBattle, nil
	case "EndOfYourTurn":
		return types.TriggerEndOfYourTurn, nil
	case "EndOfOpponentTurn":
		return types.TriggerEndOfOpponentTurn, nil
	default:
		return 0, fmt.Errorf("unknown trigger timing %q", s)
	}
}

func parseResolverKind(s string) (types.ResolverKind, error) {
	switch s {
	case "", "None":
		return types.ResolverNone, nil
	case "PowerMod":
		return types.ResolverPowerMod, nil
	case "DrawCards":
		return types.ResolverDrawCards, nil
	case "KOCharacter":
		return types.ResolverKOCharacter, nil
	case "GrantKeyword":
		return types.ResolverGrantKeyword, nil
	case "SearchDeck":
		return types.ResolverSearchDeck, nil
	case "RestCard":
		return types.ResolverRestCard, nil
	case "ActiveCard":
		return types.ResolverActiveCard, nil
	case "TrashCards":
		return types.ResolverTrashCards, nil
	case "GiveDon":
		return types.ResolverGiveDon, nil
	case "ReturnToHand":
		return types.ResolverReturnToHand, nil
	case "Banish":
		return types.ResolverBanish, nil
	case "AddLife":
		return types.ResolverAddLife, nil
	case "PlayFromHand":
		return types.ResolverPlayFromHand, nil
	default:
		return 0, fmt.Errorf("unknown resolver kind %q", s)
	}
}
