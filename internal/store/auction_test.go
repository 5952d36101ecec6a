package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/pixelplaza/tradehall/internal/domain"
)

func newTestAuction(id, sellerID string, expiresAt time.Time) *domain.Auction {
	return &domain.Auction{
		AuctionID:     id,
		SellerID:      sellerID,
		SellerName:    "P1",
		ItemID:        "sword",
		Quantity:      1,
		StartingPrice: 1000,
		CurrentBid:    1000,
		Status:        domain.AuctionStatusActive,
		ExpiresAt:     expiresAt,
		FeeRate:       0.05,
	}
}

func TestAuctionStore_CreateAndGetActive(t *testing.T) {
	s := NewAuctionStore(50)
	s.Create(newTestAuction("AUC-1", "seller", time.Now().Add(time.Hour)))

	a, err := s.GetActive("AUC-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if a.SellerID != "seller" {
		t.Fatalf("SellerID = %s, want seller", a.SellerID)
	}
}

func TestAuctionStore_GetActive_NotFound(t *testing.T) {
	s := NewAuctionStore(50)

	_, err := s.GetActive("no-such-auction")
	if err != domain.ErrAuctionNotFound {
		t.Fatalf("expected ErrAuctionNotFound, got %v", err)
	}
}

func TestAuctionStore_CompleteMovesBetweenMaps(t *testing.T) {
	s := NewAuctionStore(50)
	s.Create(newTestAuction("AUC-1", "seller", time.Now().Add(time.Hour)))

	s.Complete("AUC-1")

	if _, err := s.GetActive("AUC-1"); err != domain.ErrAuctionNotFound {
		t.Fatalf("expected auction gone from active map, got %v", err)
	}
	if _, err := s.Get("AUC-1"); err != nil {
		t.Fatalf("expected auction reachable via Get, got %v", err)
	}

	active, completed := s.Counts()
	if active != 0 || completed != 1 {
		t.Fatalf("Counts() = (%d, %d), want (0, 1)", active, completed)
	}
}

func TestAuctionStore_Active_SortedBySoonestExpiry(t *testing.T) {
	s := NewAuctionStore(50)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 4; i >= 0; i-- {
		s.Create(newTestAuction(
			fmt.Sprintf("AUC-%d", i),
			"seller",
			base.Add(time.Duration(i)*time.Hour),
		))
	}

	active := s.Active(3)
	if len(active) != 3 {
		t.Fatalf("expected 3 auctions, got %d", len(active))
	}
	for i := 0; i < len(active)-1; i++ {
		if active[i].ExpiresAt.After(active[i+1].ExpiresAt) {
			t.Fatalf("active auctions not sorted by soonest expiry at %d", i)
		}
	}
	if active[0].AuctionID != "AUC-0" {
		t.Fatalf("soonest = %s, want AUC-0", active[0].AuctionID)
	}
}

func TestAuctionStore_Completed_NewestFirst(t *testing.T) {
	s := NewAuctionStore(50)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		a := newTestAuction(fmt.Sprintf("AUC-%d", i), "seller", base.Add(time.Hour))
		done := base.Add(time.Duration(i) * time.Minute)
		a.CompletedAt = &done
		a.Status = domain.AuctionStatusCompleted
		s.Create(a)
		s.Complete(a.AuctionID)
	}

	completed := s.Completed(0)
	if len(completed) != 3 {
		t.Fatalf("expected 3 completed, got %d", len(completed))
	}
	if completed[0].AuctionID != "AUC-2" {
		t.Fatalf("newest completed = %s, want AUC-2", completed[0].AuctionID)
	}
}

func TestAuctionStore_BySeller_BoundedWindow(t *testing.T) {
	s := NewAuctionStore(3)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 6; i++ {
		s.Create(newTestAuction(
			fmt.Sprintf("AUC-%d", i),
			"seller",
			base.Add(time.Duration(i)*time.Hour),
		))
	}

	window := s.BySeller("seller", 0)
	if len(window) != 3 {
		t.Fatalf("expected window of 3, got %d", len(window))
	}
	if window[0].AuctionID != "AUC-5" {
		t.Fatalf("latest-expiring = %s, want AUC-5", window[0].AuctionID)
	}
}

func TestAuctionStore_CompletedTotals(t *testing.T) {
	s := NewAuctionStore(50)

	a := newTestAuction("AUC-1", "seller", time.Now())
	a.Result = &domain.AuctionResult{FinalBid: 2000, FeeAmount: 100}
	s.Create(a)
	s.Complete("AUC-1")

	// Cancelled listing without a result.
	b := newTestAuction("AUC-2", "seller", time.Now())
	b.Status = domain.AuctionStatusCancelled
	s.Create(b)
	s.Complete("AUC-2")

	value, fees := s.CompletedTotals()
	if value != 2000 || fees != 100 {
		t.Fatalf("CompletedTotals() = (%d, %d), want (2000, 100)", value, fees)
	}
}
