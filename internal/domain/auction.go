package domain

import (
	"math"
	"sync"
	"time"
)

// AuctionStatus represents the lifecycle state of an auction.
type AuctionStatus string

const (
	AuctionStatusActive    AuctionStatus = "active"
	AuctionStatusCancelled AuctionStatus = "cancelled"
	AuctionStatusCompleted AuctionStatus = "completed"
)

// Bid is one accepted bid on an auction. Bids are immutable once
// created and strictly greater than the auction's prior current bid.
type Bid struct {
	BidID         string
	AuctionID     string
	CharacterID   string
	CharacterName string
	Amount        int64
	Timestamp     time.Time
}

// Auction is a timed, competitive-bid sale of a single listed item.
// CurrentBid is monotonically non-decreasing across Bids and equals
// StartingPrice while Bids is empty. FeeRate is captured at
// registration time so in-flight auctions are unaffected by later
// fee-rate changes.
type Auction struct {
	AuctionID         string
	SellerID          string
	SellerName        string
	ItemID            string
	ItemName          string
	Quantity          int64
	StartingPrice     int64
	CurrentBid        int64
	CurrentBidderID   string // empty while no bids
	CurrentBidderName string
	Bids              []*Bid
	Status            AuctionStatus
	CreatedAt         time.Time
	ExpiresAt         time.Time
	CancelledAt       *time.Time
	CompletedAt       *time.Time
	FeeRate           float64
	Result            *AuctionResult
	Mu                sync.Mutex // per-auction lock for state transitions
}

// AuctionResult is the settlement computed exactly once when an auction
// completes. Both amounts use floor so FeeAmount + SellerReceive never
// exceeds FinalBid.
type AuctionResult struct {
	AuctionID     string
	SellerID      string
	ItemID        string
	ItemName      string
	Quantity      int64
	StartingPrice int64
	FinalBid      int64
	HasBidder     bool
	BidderID      string
	BidderName    string
	FeeRate       float64
	FeeAmount     int64
	SellerReceive int64
}

// Settlement computes the auction's result from its current state.
// Callers must hold Mu.
func (a *Auction) Settlement() *AuctionResult {
	return &AuctionResult{
		AuctionID:     a.AuctionID,
		SellerID:      a.SellerID,
		ItemID:        a.ItemID,
		ItemName:      a.ItemName,
		Quantity:      a.Quantity,
		StartingPrice: a.StartingPrice,
		FinalBid:      a.CurrentBid,
		HasBidder:     a.CurrentBidderID != "",
		BidderID:      a.CurrentBidderID,
		BidderName:    a.CurrentBidderName,
		FeeRate:       a.FeeRate,
		FeeAmount:     int64(math.Floor(float64(a.CurrentBid) * a.FeeRate)),
		SellerReceive: int64(math.Floor(float64(a.CurrentBid) * (1 - a.FeeRate))),
	}
}
