package service

import (
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/pixelplaza/tradehall/internal/domain"
	"github.com/pixelplaza/tradehall/internal/ident"
	"github.com/pixelplaza/tradehall/internal/store"
)

// Property: for a limited item, stock tracks the net of successful buys
// and sells exactly, never goes negative, and failed operations leave
// it untouched.
func TestPropStockConservation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		clock := newTestClock()
		s := NewShopService(store.NewShopStore(100), ident.New(clock.Now), clock.Now, nil)

		initial := rapid.Int64Range(0, 50).Draw(t, "initial")
		s.Seed([]domain.ShopItem{{
			ItemID:    "ore",
			Name:      "광석",
			Type:      domain.ItemTypeMaterial,
			BuyPrice:  10,
			SellPrice: 5,
			Stock:     initial,
		}})

		stock := initial
		n := rapid.IntRange(1, 50).Draw(t, "ops")
		for i := 0; i < n; i++ {
			qty := rapid.Int64Range(1, 20).Draw(t, "qty")
			if rapid.Bool().Draw(t, "buy") {
				_, err := s.Buy("alice", "ore", qty, coins(10*qty))
				switch {
				case qty <= stock:
					if err != nil {
						t.Fatalf("buy %d of %d: %v", qty, stock, err)
					}
					stock -= qty
				default:
					if !errors.Is(err, domain.ErrInsufficientStock) {
						t.Fatalf("overbuy err = %v, want ErrInsufficientStock", err)
					}
				}
			} else {
				inv := domain.Inventory{{ID: "ore", Quantity: qty}}
				if _, err := s.Sell("alice", "ore", qty, inv); err != nil {
					t.Fatalf("sell %d: %v", qty, err)
				}
				stock += qty
			}

			item, err := s.Item("ore")
			if err != nil {
				t.Fatalf("Item: %v", err)
			}
			if item.Stock != stock {
				t.Fatalf("stock = %d, want %d", item.Stock, stock)
			}
			if item.Stock < 0 {
				t.Fatalf("stock went negative: %d", item.Stock)
			}
		}
	})
}
