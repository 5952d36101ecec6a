package service

import (
	"sync"
	"time"

	"github.com/pixelplaza/tradehall/internal/domain"
	"github.com/pixelplaza/tradehall/internal/ident"
	"github.com/pixelplaza/tradehall/internal/store"
)

// Default listing limits for auction queries.
const (
	DefaultActiveAuctionLimit    = 50
	DefaultCompletedAuctionLimit = 20
)

// AuctionStats is the auction subsystem's aggregate view.
type AuctionStats struct {
	ActiveAuctions    int
	CompletedAuctions int
	TotalValue        int64
	TotalFees         int64
	FeeRate           float64
}

// AuctionService runs timed, competitive-bid listings. Each auction
// captures the fee rate in force when it was registered, so changing
// the rate only affects listings created afterwards.
type AuctionService struct {
	store    *store.AuctionStore
	ids      *ident.Generator
	now      domain.Clock
	sink     EventSink
	sched    Scheduler
	duration time.Duration

	feeMu   sync.RWMutex
	feeRate float64
}

// NewAuctionService creates an AuctionService with the given default
// listing duration and fee rate. A nil clock falls back to the system
// clock; sink may be nil.
func NewAuctionService(
	auctionStore *store.AuctionStore,
	ids *ident.Generator,
	now domain.Clock,
	sink EventSink,
	duration time.Duration,
	feeRate float64,
) *AuctionService {
	if now == nil {
		now = domain.SystemClock
	}
	return &AuctionService{
		store:    auctionStore,
		ids:      ids,
		now:      now,
		sink:     sink,
		duration: duration,
		feeRate:  clampRate(feeRate),
	}
}

// SetScheduler attaches the expiry sweeper's index. Must be called
// before the service handles traffic.
func (s *AuctionService) SetScheduler(sched Scheduler) {
	s.sched = sched
}

func clampRate(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate > 1 {
		return 1
	}
	return rate
}

// SetFeeRate updates the fee rate applied to subsequent registrations,
// clamped into [0, 1]. Returns the rate now in force.
func (s *AuctionService) SetFeeRate(rate float64) float64 {
	rate = clampRate(rate)
	s.feeMu.Lock()
	s.feeRate = rate
	s.feeMu.Unlock()
	return rate
}

// FeeRate returns the rate applied to the next registration.
func (s *AuctionService) FeeRate() float64 {
	s.feeMu.RLock()
	defer s.feeMu.RUnlock()
	return s.feeRate
}

// Register lists an item for auction. duration <= 0 applies the
// service default.
func (s *AuctionService) Register(sellerID, sellerName, itemID, itemName string, quantity, startingPrice int64, duration time.Duration) (*domain.Auction, error) {
	if sellerID == "" {
		return nil, &domain.ValidationError{Message: "seller_id is required"}
	}
	if itemID == "" {
		return nil, &domain.ValidationError{Message: "item_id is required"}
	}
	if quantity <= 0 {
		return nil, &domain.ValidationError{Message: "quantity must be a positive integer"}
	}
	if startingPrice < 0 {
		return nil, &domain.ValidationError{Message: "starting price must be non-negative"}
	}
	if duration <= 0 {
		duration = s.duration
	}

	now := s.now()
	a := &domain.Auction{
		AuctionID:     s.ids.AuctionID(),
		SellerID:      sellerID,
		SellerName:    sellerName,
		ItemID:        itemID,
		ItemName:      itemName,
		Quantity:      quantity,
		StartingPrice: startingPrice,
		CurrentBid:    startingPrice,
		Status:        domain.AuctionStatusActive,
		CreatedAt:     now,
		ExpiresAt:     now.Add(duration),
		FeeRate:       s.FeeRate(),
	}
	s.store.Create(a)

	if s.sched != nil {
		s.sched.ScheduleAuction(a.AuctionID, a.ExpiresAt)
	}
	return a, nil
}

// PlaceBid records a bid. Sellers cannot bid on their own listings, and
// every bid must strictly exceed the current bid (the starting price
// while no bids exist).
func (s *AuctionService) PlaceBid(auctionID, characterID, characterName string, amount int64) (*domain.Bid, error) {
	if characterID == "" {
		return nil, &domain.ValidationError{Message: "character_id is required"}
	}

	a, err := s.store.Get(auctionID)
	if err != nil {
		return nil, err
	}

	a.Mu.Lock()

	if a.Status != domain.AuctionStatusActive {
		a.Mu.Unlock()
		return nil, domain.ErrAuctionNotActive
	}
	if a.SellerID == characterID {
		a.Mu.Unlock()
		return nil, domain.ErrSelfBid
	}
	if amount <= a.CurrentBid {
		a.Mu.Unlock()
		return nil, domain.ErrBidTooLow
	}

	bid := &domain.Bid{
		BidID:         s.ids.BidID(),
		AuctionID:     a.AuctionID,
		CharacterID:   characterID,
		CharacterName: characterName,
		Amount:        amount,
		Timestamp:     s.now(),
	}
	a.Bids = append(a.Bids, bid)
	a.CurrentBid = amount
	a.CurrentBidderID = characterID
	a.CurrentBidderName = characterName
	sellerID := a.SellerID
	a.Mu.Unlock()

	publish(s.sink, domain.Event{
		Type:         domain.EventAuctionBid,
		At:           bid.Timestamp,
		CharacterIDs: []string{sellerID, characterID},
		Payload:      bid,
	})

	return bid, nil
}

// Cancel withdraws a listing. Only the seller may cancel, and only
// while no bids have been placed.
func (s *AuctionService) Cancel(auctionID, characterID string) (*domain.Auction, error) {
	a, err := s.store.Get(auctionID)
	if err != nil {
		return nil, err
	}

	a.Mu.Lock()

	if a.Status != domain.AuctionStatusActive {
		a.Mu.Unlock()
		return nil, domain.ErrAuctionNotActive
	}
	if a.SellerID != characterID {
		a.Mu.Unlock()
		return nil, domain.ErrNotSeller
	}
	if len(a.Bids) > 0 {
		a.Mu.Unlock()
		return nil, domain.ErrAuctionHasBids
	}

	now := s.now()
	a.Status = domain.AuctionStatusCancelled
	a.CancelledAt = &now
	a.Mu.Unlock()

	s.store.Complete(a.AuctionID)
	return a, nil
}

// Complete settles an auction: the settlement is computed once, the
// auction moves to the completed set, and an event fans out to the
// seller and the winning bidder. A listing with no bids settles at the
// starting price with HasBidder false.
func (s *AuctionService) Complete(auctionID string) (*domain.AuctionResult, error) {
	a, err := s.store.Get(auctionID)
	if err != nil {
		return nil, err
	}

	a.Mu.Lock()

	if a.Status != domain.AuctionStatusActive {
		a.Mu.Unlock()
		return nil, domain.ErrAuctionNotActive
	}

	now := s.now()
	a.Status = domain.AuctionStatusCompleted
	a.CompletedAt = &now
	result := a.Settlement()
	a.Result = result
	a.Mu.Unlock()

	s.store.Complete(a.AuctionID)

	recipients := []string{result.SellerID}
	if result.HasBidder {
		recipients = append(recipients, result.BidderID)
	}
	publish(s.sink, domain.Event{
		Type:         domain.EventAuctionCompleted,
		At:           now,
		CharacterIDs: recipients,
		Payload:      result,
	})

	return result, nil
}

// ExpireAuction settles an auction once its closing time has passed.
// Safe to call on any auction; non-active listings are untouched.
func (s *AuctionService) ExpireAuction(auctionID string) bool {
	a, err := s.store.Get(auctionID)
	if err != nil {
		return false
	}

	a.Mu.Lock()
	due := a.Status == domain.AuctionStatusActive && s.now().After(a.ExpiresAt)
	a.Mu.Unlock()

	if !due {
		return false
	}
	_, err = s.Complete(auctionID)
	return err == nil
}

// ProcessExpired settles every active auction whose closing time has
// passed. Returns the settlements in soonest-expiry order.
func (s *AuctionService) ProcessExpired() []*domain.AuctionResult {
	var results []*domain.AuctionResult
	for _, a := range s.store.Active(0) {
		a.Mu.Lock()
		due := a.Status == domain.AuctionStatusActive && s.now().After(a.ExpiresAt)
		a.Mu.Unlock()
		if !due {
			continue
		}
		if result, err := s.Complete(a.AuctionID); err == nil {
			results = append(results, result)
		}
	}
	return results
}

// Get retrieves an auction, active or closed.
func (s *AuctionService) Get(auctionID string) (*domain.Auction, error) {
	return s.store.Get(auctionID)
}

// Active returns active auctions, soonest expiry first. limit <= 0
// applies DefaultActiveAuctionLimit.
func (s *AuctionService) Active(limit int) []*domain.Auction {
	if limit <= 0 {
		limit = DefaultActiveAuctionLimit
	}
	return s.store.Active(limit)
}

// Completed returns closed auctions, most recently closed first.
// limit <= 0 applies DefaultCompletedAuctionLimit.
func (s *AuctionService) Completed(limit int) []*domain.Auction {
	if limit <= 0 {
		limit = DefaultCompletedAuctionLimit
	}
	return s.store.Completed(limit)
}

// BySeller returns a seller's auctions, latest-expiring first.
// limit <= 0 applies DefaultCompletedAuctionLimit.
func (s *AuctionService) BySeller(sellerID string, limit int) []*domain.Auction {
	if limit <= 0 {
		limit = DefaultCompletedAuctionLimit
	}
	return s.store.BySeller(sellerID, limit)
}

// Stats returns the subsystem's aggregate counters.
func (s *AuctionService) Stats() AuctionStats {
	active, completed := s.store.Counts()
	totalValue, totalFees := s.store.CompletedTotals()
	return AuctionStats{
		ActiveAuctions:    active,
		CompletedAuctions: completed,
		TotalValue:        totalValue,
		TotalFees:         totalFees,
		FeeRate:           s.FeeRate(),
	}
}
