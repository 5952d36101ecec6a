package service

import (
	"time"

	"github.com/pixelplaza/tradehall/internal/domain"
	"github.com/pixelplaza/tradehall/internal/ident"
	"github.com/pixelplaza/tradehall/internal/store"
)

// EngineOptions configures a new Engine. Zero-value durations and
// limits are rejected by config validation before they reach here.
type EngineOptions struct {
	Clock               domain.Clock
	Sink                EventSink
	RequestTTL          time.Duration
	TradeTTL            time.Duration
	AuctionDuration     time.Duration
	AuctionFeeRate      float64
	TradeHistoryLimit   int
	ShopHistoryLimit    int
	AuctionHistoryLimit int
	Catalog             []domain.ShopItem
}

// EngineStats aggregates every subsystem's counters.
type EngineStats struct {
	Trade   TradeStats
	Shop    ShopStats
	Auction AuctionStats
}

// Engine is the facade over the three transaction subsystems. It owns
// one instance of each, shares a single ID generator and clock across
// them, and seeds the shop catalog at construction.
type Engine struct {
	Trades   *TradeService
	Shop     *ShopService
	Auctions *AuctionService
}

// NewEngine builds the subsystems, wires the shared generator, clock,
// and event sink through them, and seeds the shop with opts.Catalog.
func NewEngine(opts EngineOptions) *Engine {
	if opts.Clock == nil {
		opts.Clock = domain.SystemClock
	}
	ids := ident.New(opts.Clock)

	e := &Engine{
		Trades: NewTradeService(
			store.NewTradeStore(opts.TradeHistoryLimit),
			ids, opts.Clock, opts.Sink,
			opts.RequestTTL, opts.TradeTTL,
		),
		Shop: NewShopService(
			store.NewShopStore(opts.ShopHistoryLimit),
			ids, opts.Clock, opts.Sink,
		),
		Auctions: NewAuctionService(
			store.NewAuctionStore(opts.AuctionHistoryLimit),
			ids, opts.Clock, opts.Sink,
			opts.AuctionDuration, opts.AuctionFeeRate,
		),
	}
	e.Shop.Seed(opts.Catalog)
	return e
}

// SetScheduler attaches the expiry sweeper's index to the subsystems
// that hold timed entities.
func (e *Engine) SetScheduler(sched Scheduler) {
	e.Trades.SetScheduler(sched)
	e.Auctions.SetScheduler(sched)
}

// ExpireRequest flips one overdue trade request to expired.
func (e *Engine) ExpireRequest(requestID string) bool {
	return e.Trades.ExpireRequest(requestID)
}

// ExpireTrade flips one overdue trade to expired.
func (e *Engine) ExpireTrade(tradeID string) bool {
	return e.Trades.ExpireTrade(tradeID)
}

// ExpireAuction settles one overdue auction.
func (e *Engine) ExpireAuction(auctionID string) bool {
	return e.Auctions.ExpireAuction(auctionID)
}

// Sweep flips every expired trade and request and settles every due
// auction. The sweeper calls this between pops as a safety net and the
// stats endpoint never needs it; all paths are idempotent.
func (e *Engine) Sweep() (trades, requests, auctions int) {
	trades, requests = e.Trades.CleanupExpiredTrades()
	auctions = len(e.Auctions.ProcessExpired())
	return trades, requests, auctions
}

// Stats returns every subsystem's aggregate counters.
func (e *Engine) Stats() EngineStats {
	return EngineStats{
		Trade:   e.Trades.Stats(),
		Shop:    e.Shop.Stats(),
		Auction: e.Auctions.Stats(),
	}
}
