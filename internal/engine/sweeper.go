// Package engine runs the expiry sweeper: a single background
// goroutine that flips timed entities (trade requests, open trades,
// auctions) once their deadlines pass.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/btree"
)

// Kind names the timed entity classes the sweeper tracks.
type Kind uint8

const (
	KindRequest Kind = iota
	KindTrade
	KindAuction
)

// Expirer is what the sweeper needs from the transaction engine. Each
// method flips one entity if its deadline has passed and reports
// whether it did; flips re-check state under the entity lock, so a
// stale index entry is harmless.
type Expirer interface {
	ExpireRequest(requestID string) bool
	ExpireTrade(tradeID string) bool
	ExpireAuction(auctionID string) bool
}

// entry is one indexed deadline. Entries order by (expiresAt, kind, id)
// so the due set is always a prefix of the tree.
type entry struct {
	expiresAt time.Time
	kind      Kind
	id        string
}

func lessEntry(a, b entry) bool {
	if !a.expiresAt.Equal(b.expiresAt) {
		return a.expiresAt.Before(b.expiresAt)
	}
	if a.kind != b.kind {
		return a.kind < b.kind
	}
	return a.id < b.id
}

// Sweeper indexes entity deadlines in a btree and expires due entries
// on a fixed tick. Services register deadlines at creation time through
// the Schedule methods; the tick only touches the due prefix instead of
// scanning every entity.
type Sweeper struct {
	interval time.Duration
	expirer  Expirer

	mu    sync.Mutex
	index *btree.BTreeG[entry]
}

// NewSweeper creates a Sweeper that ticks at the given interval.
func NewSweeper(interval time.Duration, expirer Expirer) *Sweeper {
	return &Sweeper{
		interval: interval,
		expirer:  expirer,
		index:    btree.NewG(8, lessEntry),
	}
}

// ScheduleRequest indexes a trade request's deadline.
func (s *Sweeper) ScheduleRequest(requestID string, expiresAt time.Time) {
	s.add(entry{expiresAt: expiresAt, kind: KindRequest, id: requestID})
}

// ScheduleTrade indexes a trade's deadline.
func (s *Sweeper) ScheduleTrade(tradeID string, expiresAt time.Time) {
	s.add(entry{expiresAt: expiresAt, kind: KindTrade, id: tradeID})
}

// ScheduleAuction indexes an auction's closing time.
func (s *Sweeper) ScheduleAuction(auctionID string, expiresAt time.Time) {
	s.add(entry{expiresAt: expiresAt, kind: KindAuction, id: auctionID})
}

func (s *Sweeper) add(e entry) {
	s.mu.Lock()
	s.index.ReplaceOrInsert(e)
	s.mu.Unlock()
}

// Start launches the background goroutine. It stops when ctx is
// cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				s.Tick(t)
			}
		}
	}()
}

// Tick pops every entry due at now and expires it. Exported so tests
// and manual sweeps can drive the sweeper without the ticker.
func (s *Sweeper) Tick(now time.Time) int {
	// Pop the due prefix under the index lock, then flip entities
	// outside it so entity locks never nest inside the index lock.
	s.mu.Lock()
	var due []entry
	for {
		min, ok := s.index.Min()
		if !ok || min.expiresAt.After(now) {
			break
		}
		s.index.DeleteMin()
		due = append(due, min)
	}
	s.mu.Unlock()

	flipped := 0
	for _, e := range due {
		var ok bool
		switch e.kind {
		case KindRequest:
			ok = s.expirer.ExpireRequest(e.id)
		case KindTrade:
			ok = s.expirer.ExpireTrade(e.id)
		case KindAuction:
			ok = s.expirer.ExpireAuction(e.id)
		}
		if ok {
			flipped++
		}
	}
	return flipped
}

// Pending returns the number of indexed deadlines. Useful for testing.
func (s *Sweeper) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Len()
}
