// Package catalog loads the shop's seed catalog from TOML. Operators
// point CATALOG_PATH at their own file; without one the embedded
// default catalog is used.
package catalog

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/pixelplaza/tradehall/internal/domain"
)

//go:embed default_catalog.toml
var defaultCatalog string

type entry struct {
	ItemID      string `toml:"item_id"`
	Name        string `toml:"name"`
	Type        string `toml:"type"`
	BuyPrice    int64  `toml:"buy_price"`
	SellPrice   int64  `toml:"sell_price"`
	Stock       int64  `toml:"stock"`
	Unlimited   bool   `toml:"unlimited"`
	Description string `toml:"description"`
}

type file struct {
	Items []entry `toml:"item"`
}

// Load reads and validates a catalog file at path.
func Load(path string) ([]domain.ShopItem, error) {
	var f file
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", path, err)
	}
	return convert(f)
}

// Default returns the embedded default catalog.
func Default() ([]domain.ShopItem, error) {
	var f file
	if _, err := toml.Decode(defaultCatalog, &f); err != nil {
		return nil, fmt.Errorf("catalog: decode embedded default: %w", err)
	}
	return convert(f)
}

var validTypes = map[domain.ItemType]bool{
	domain.ItemTypeConsumable: true,
	domain.ItemTypeEquipment:  true,
	domain.ItemTypeCurrency:   true,
	domain.ItemTypeMaterial:   true,
}

func convert(f file) ([]domain.ShopItem, error) {
	if len(f.Items) == 0 {
		return nil, fmt.Errorf("catalog: no [[item]] entries")
	}

	seen := make(map[string]bool, len(f.Items))
	items := make([]domain.ShopItem, 0, len(f.Items))

	for i, e := range f.Items {
		if e.ItemID == "" {
			return nil, fmt.Errorf("catalog: item %d: item_id is required", i)
		}
		if seen[e.ItemID] {
			return nil, fmt.Errorf("catalog: duplicate item_id %q", e.ItemID)
		}
		seen[e.ItemID] = true

		if e.Name == "" {
			return nil, fmt.Errorf("catalog: item %q: name is required", e.ItemID)
		}
		if !validTypes[domain.ItemType(e.Type)] {
			return nil, fmt.Errorf("catalog: item %q: unknown type %q", e.ItemID, e.Type)
		}
		if e.BuyPrice < 0 || e.SellPrice < 0 {
			return nil, fmt.Errorf("catalog: item %q: prices must be non-negative", e.ItemID)
		}
		if e.Stock < 0 {
			return nil, fmt.Errorf("catalog: item %q: stock must be non-negative", e.ItemID)
		}

		items = append(items, domain.ShopItem{
			ItemID:      e.ItemID,
			Name:        e.Name,
			Type:        domain.ItemType(e.Type),
			BuyPrice:    e.BuyPrice,
			SellPrice:   e.SellPrice,
			Stock:       e.Stock,
			Unlimited:   e.Unlimited,
			Description: e.Description,
		})
	}

	return items, nil
}
