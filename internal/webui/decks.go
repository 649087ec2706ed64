package webui

import (
	"os"

	"github.com/tcgx/optcg-engine/internal/catalog"
)

func loadCatalogFile(path string) (*catalog.Catalog, error) {
	return catalog.Load(path)
}

func loadDeckFile(path string, cat *catalog.Catalog) (map[string]catalog.DeckList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return catalog.ParseDeckBytes(data, cat)
}
