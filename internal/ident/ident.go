// Package ident generates the engine's entity identifiers. Formats are
// part of the external contract: TRD-/TRQ- IDs carry a monotonic
// counter, SHP-/AUC-/BID- IDs carry a 9-character random suffix drawn
// from crypto/rand so concurrent generation cannot collide.
package ident

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/pixelplaza/tradehall/internal/domain"
)

const (
	base36      = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixLen   = 9
	prefixTrade = "TRD"
	prefixReq   = "TRQ"
	prefixShop  = "SHP"
	prefixAuc   = "AUC"
	prefixBid   = "BID"
)

// Generator produces unique, sortable identifiers. Safe for concurrent use.
type Generator struct {
	now     domain.Clock
	counter atomic.Uint64
}

// New creates a Generator using the given clock. A nil clock falls back
// to the system clock.
func New(now domain.Clock) *Generator {
	if now == nil {
		now = domain.SystemClock
	}
	return &Generator{now: now}
}

// TradeID returns the next trade identifier, TRD-<unixMillis>-<counter>.
func (g *Generator) TradeID() string {
	return g.counted(prefixTrade)
}

// RequestID returns the next trade-request identifier, TRQ-<unixMillis>-<counter>.
func (g *Generator) RequestID() string {
	return g.counted(prefixReq)
}

// ShopTransactionID returns the next shop transaction identifier,
// SHP-<unixMillis>-<random9>.
func (g *Generator) ShopTransactionID() string {
	return g.random(prefixShop)
}

// AuctionID returns the next auction identifier, AUC-<unixMillis>-<random9>.
func (g *Generator) AuctionID() string {
	return g.random(prefixAuc)
}

// BidID returns the next bid identifier, BID-<unixMillis>-<random9>.
func (g *Generator) BidID() string {
	return g.random(prefixBid)
}

func (g *Generator) counted(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, g.now().UnixMilli(), g.counter.Add(1))
}

func (g *Generator) random(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, g.now().UnixMilli(), randomSuffix())
}

// randomSuffix returns suffixLen base36 characters from crypto/rand.
// rand.Int only fails when the platform's entropy source is broken,
// which is not a recoverable business condition.
func randomSuffix() string {
	max := big.NewInt(int64(len(base36)))
	buf := make([]byte, suffixLen)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Sprintf("ident: entropy source unavailable: %v", err))
		}
		buf[i] = base36[n.Int64()]
	}
	return string(buf)
}
