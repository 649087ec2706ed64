package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tcgx/optcg-engine/internal/types"
)

// DeckList is one named, fully expanded deck plus its leader. Parsing does
// not check the deck's size.
type DeckList struct {
	Name   string
	Leader types.DefID
	Cards  []types.DefID // expanded, one entry per physical copy
}

type deckFile struct {
	Decks []deckEntry `yaml:"decks"`
}

type deckEntry struct {
	Name   string          `yaml:"name"`
	Leader string          `yaml:"leader"`
	Cards  []deckCardEntry `yaml:"cards"`
}

type deckCardEntry struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

// ParseDeckFile parses a YAML deck list file, validating every referenced
// card id exists in cat, and returns a map of deck name -> DeckList.
func ParseDeckFile(path string, cat *Catalog) (map[string]DeckList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDeckBytes(data, cat)
}

// ParseDeckBytes is ParseDeckFile over an in-memory YAML document.
func ParseDeckBytes(data []byte, cat *Catalog) (map[string]DeckList, error) {
	var df deckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("catalog: parse deck YAML: %w", err)
	}
	out := make(map[string]DeckList, len(df.Decks))
	for _, de := range df.Decks {
		leaderID := types.DefID(de.Leader)
		if _, ok := cat.Lookup(leaderID); !ok {
			return nil, fmt.Errorf("catalog: deck %q: unknown leader %q", de.Name, de.Leader)
		}
		var cards []types.DefID
		for _, ce := range de.Cards {
			defID := types.DefID(ce.ID)
			if _, ok := cat.Lookup(defID); !ok {
				return nil, fmt.Errorf("catalog: deck %q: unknown card %q", de.Name, ce.ID)
			}
			for i := 0; i < ce.Count; i++ {
				cards = append(cards, defID)
			}
		}
		out[de.Name] = DeckList{Name: de.Name, Leader: leaderID, Cards: cards}
	}
	return out, nil
}

// DeckByName looks up a single deck from an already-parsed file.
func DeckByName(decks map[string]DeckList, name string) (DeckList, error) {
	d, ok := decks[name]
	if !ok {
		return DeckList{}, fmt.Errorf("catalog: deck %q not found", name)
	}
	return d, nil
}
