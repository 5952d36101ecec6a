package store

import (
	"sort"
	"sync"
	"time"

	"github.com/pixelplaza/tradehall/internal/domain"
)

// AuctionStore is a thread-safe in-memory store for auctions. Active
// and completed auctions live in separate maps; Complete moves an
// auction from one to the other exactly once and it never moves back.
type AuctionStore struct {
	mu         sync.RWMutex
	active     map[string]*domain.Auction
	completed  map[string]*domain.Auction
	bySeller   map[string][]*domain.Auction // seller_id → bounded window
	historyMax int
}

// NewAuctionStore creates an empty AuctionStore with the given
// per-seller history window.
func NewAuctionStore(historyMax int) *AuctionStore {
	return &AuctionStore{
		active:     make(map[string]*domain.Auction),
		completed:  make(map[string]*domain.Auction),
		bySeller:   make(map[string][]*domain.Auction),
		historyMax: historyMax,
	}
}

// Create adds an auction to the active map and the seller's window.
func (s *AuctionStore) Create(a *domain.Auction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active[a.AuctionID] = a
	s.bySeller[a.SellerID] = appendBounded(s.bySeller[a.SellerID], a, s.historyMax)
}

// GetActive retrieves an active auction by ID. It returns
// domain.ErrAuctionNotFound if no active auction has the ID.
func (s *AuctionStore) GetActive(id string) (*domain.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.active[id]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	return a, nil
}

// Get retrieves an auction by ID from either map.
func (s *AuctionStore) Get(id string) (*domain.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.active[id]; ok {
		return a, nil
	}
	if a, ok := s.completed[id]; ok {
		return a, nil
	}
	return nil, domain.ErrAuctionNotFound
}

// Complete moves an auction from the active map to the completed map.
// A no-op if the auction is not active (already moved).
func (s *AuctionStore) Complete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.active[id]
	if !ok {
		return
	}
	delete(s.active, id)
	s.completed[id] = a
}

// Active returns up to limit active auctions sorted by soonest expiry.
// limit <= 0 returns all of them.
func (s *AuctionStore) Active(limit int) []*domain.Auction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Auction, 0, len(s.active))
	for _, a := range s.active {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExpiresAt.Before(out[j].ExpiresAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Completed returns up to limit completed/cancelled auctions, most
// recently closed first.
func (s *AuctionStore) Completed(limit int) []*domain.Auction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Auction, 0, len(s.completed))
	for _, a := range s.completed {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return closedAt(out[i]).After(closedAt(out[j]))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// BySeller returns up to limit of a seller's auctions, latest-expiring
// first.
func (s *AuctionStore) BySeller(sellerID string, limit int) []*domain.Auction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	window := s.bySeller[sellerID]
	out := make([]*domain.Auction, len(window))
	copy(out, window)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExpiresAt.After(out[j].ExpiresAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Counts returns the number of active and completed auctions.
func (s *AuctionStore) Counts() (active, completed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active), len(s.completed)
}

// CompletedTotals sums final bids and collected fees across settled
// auctions (cancelled listings have no result and contribute nothing).
func (s *AuctionStore) CompletedTotals() (totalValue, totalFees int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.completed {
		if a.Result != nil {
			totalValue += a.Result.FinalBid
			totalFees += a.Result.FeeAmount
		}
	}
	return totalValue, totalFees
}

func closedAt(a *domain.Auction) time.Time {
	if a.CompletedAt != nil {
		return *a.CompletedAt
	}
	if a.CancelledAt != nil {
		return *a.CancelledAt
	}
	return a.CreatedAt
}
