package service

import (
	"testing"
	"time"

	"github.com/pixelplaza/tradehall/internal/catalog"
	"github.com/pixelplaza/tradehall/internal/domain"
)

func newEngine(t *testing.T, clock *testClock, sink EventSink) *Engine {
	t.Helper()

	items, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	return NewEngine(EngineOptions{
		Clock:               clock.Now,
		Sink:                sink,
		RequestTTL:          5 * time.Minute,
		TradeTTL:            10 * time.Minute,
		AuctionDuration:     24 * time.Hour,
		AuctionFeeRate:      0.05,
		TradeHistoryLimit:   100,
		ShopHistoryLimit:    100,
		AuctionHistoryLimit: 50,
		Catalog:             items,
	})
}

// Full session: buy supplies at the shop, trade them to a friend, then
// flip the proceeds on the auction house.
func TestEngineFullSession(t *testing.T) {
	clock := newTestClock()
	e := newEngine(t, clock, nil)

	// Shop: alice stocks up.
	purchase, err := e.Shop.Buy("alice", "healthPotion", 5, coins(100))
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}
	if purchase.Transaction.TotalPrice != 100 {
		t.Fatalf("TotalPrice = %d, want 100", purchase.Transaction.TotalPrice)
	}

	// Trade: alice gives bob 3 potions for 50 coins.
	req, err := e.Trades.SendRequest("alice", "Alice", "bob", "Bob")
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	trade, err := e.Trades.AcceptRequest(req.RequestID)
	if err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}
	e.Trades.SetTradeItems(trade.TradeID, "alice", []domain.ItemStack{{ID: "healthPotion", Quantity: 3}}, 0)
	e.Trades.SetTradeItems(trade.TradeID, "bob", nil, 50)
	e.Trades.Confirm(trade.TradeID, "alice")
	res, err := e.Trades.Confirm(trade.TradeID, "bob")
	if err != nil || !res.Completed {
		t.Fatalf("confirm: res=%+v err=%v", res, err)
	}

	// Auction: bob lists a potion, alice wins it.
	auction, err := e.Auctions.Register("bob", "Bob", "healthPotion", "체력 포션", 1, 10, time.Hour)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := e.Auctions.PlaceBid(auction.AuctionID, "alice", "Alice", 1000); err != nil {
		t.Fatalf("PlaceBid: %v", err)
	}
	clock.Advance(time.Hour + time.Second)
	results := e.Auctions.ProcessExpired()
	if len(results) != 1 {
		t.Fatalf("ProcessExpired settled %d, want 1", len(results))
	}
	if results[0].FeeAmount != 50 || results[0].SellerReceive != 950 {
		t.Fatalf("settlement = %+v, want fee 50 receive 950", results[0])
	}

	stats := e.Stats()
	if stats.Shop.Transactions != 1 {
		t.Fatalf("shop transactions = %d, want 1", stats.Shop.Transactions)
	}
	if stats.Trade.TotalTrades != 1 || stats.Trade.HistoryEntries != 2 {
		t.Fatalf("trade stats = %+v", stats.Trade)
	}
	if stats.Auction.CompletedAuctions != 1 || stats.Auction.TotalFees != 50 {
		t.Fatalf("auction stats = %+v", stats.Auction)
	}
}

func TestEngineSeedsCatalog(t *testing.T) {
	e := newEngine(t, newTestClock(), nil)

	items := e.Shop.List()
	if len(items) != 5 {
		t.Fatalf("seeded %d items, want 5", len(items))
	}
	coin, err := e.Shop.Item(domain.CoinItemID)
	if err != nil || !coin.Unlimited {
		t.Fatalf("coin = %+v, err = %v; want unlimited", coin, err)
	}
}

func TestEngineSweep(t *testing.T) {
	clock := newTestClock()
	e := newEngine(t, clock, nil)

	e.Trades.SendRequest("alice", "Alice", "bob", "Bob")
	e.Auctions.Register("bob", "Bob", "sword", "검", 1, 100, time.Hour)

	clock.Advance(2 * time.Hour)
	trades, requests, auctions := e.Sweep()
	if trades != 0 || requests != 1 || auctions != 1 {
		t.Fatalf("Sweep = %d/%d/%d, want 0/1/1", trades, requests, auctions)
	}

	// Idempotent.
	trades, requests, auctions = e.Sweep()
	if trades != 0 || requests != 0 || auctions != 0 {
		t.Fatalf("second Sweep = %d/%d/%d, want 0/0/0", trades, requests, auctions)
	}
}

// The shared generator keeps IDs unique across subsystems.
func TestEngineSharedIDGenerator(t *testing.T) {
	e := newEngine(t, newTestClock(), nil)

	req1, _ := e.Trades.SendRequest("a", "A", "b", "B")
	req2, _ := e.Trades.SendRequest("c", "C", "d", "D")
	if req1.RequestID == req2.RequestID {
		t.Fatalf("duplicate request IDs: %q", req1.RequestID)
	}
}
