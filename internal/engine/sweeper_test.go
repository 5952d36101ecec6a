package engine

import (
	"sync"
	"testing"
	"time"
)

// fakeExpirer records which IDs were flipped, honouring a per-ID
// eligibility map the way real entities re-check state under lock.
type fakeExpirer struct {
	mu       sync.Mutex
	eligible map[string]bool
	flipped  []string
}

func newFakeExpirer(eligible ...string) *fakeExpirer {
	m := make(map[string]bool, len(eligible))
	for _, id := range eligible {
		m[id] = true
	}
	return &fakeExpirer{eligible: m}
}

func (f *fakeExpirer) expire(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.eligible[id] {
		return false
	}
	delete(f.eligible, id)
	f.flipped = append(f.flipped, id)
	return true
}

func (f *fakeExpirer) ExpireRequest(id string) bool { return f.expire(id) }
func (f *fakeExpirer) ExpireTrade(id string) bool   { return f.expire(id) }
func (f *fakeExpirer) ExpireAuction(id string) bool { return f.expire(id) }

func (f *fakeExpirer) Flipped() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.flipped))
	copy(out, f.flipped)
	return out
}

func TestTickExpiresDuePrefixOnly(t *testing.T) {
	exp := newFakeExpirer("TRQ-1", "TRD-1", "AUC-1")
	s := NewSweeper(time.Second, exp)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.ScheduleRequest("TRQ-1", base.Add(1*time.Minute))
	s.ScheduleTrade("TRD-1", base.Add(2*time.Minute))
	s.ScheduleAuction("AUC-1", base.Add(3*time.Minute))

	if got := s.Tick(base.Add(2 * time.Minute)); got != 2 {
		t.Fatalf("Tick flipped %d, want 2", got)
	}
	flipped := exp.Flipped()
	if len(flipped) != 2 || flipped[0] != "TRQ-1" || flipped[1] != "TRD-1" {
		t.Fatalf("flipped = %v, want [TRQ-1 TRD-1]", flipped)
	}
	if s.Pending() != 1 {
		t.Fatalf("Pending = %d, want 1", s.Pending())
	}

	if got := s.Tick(base.Add(time.Hour)); got != 1 {
		t.Fatalf("second Tick flipped %d, want 1", got)
	}
	if s.Pending() != 0 {
		t.Fatalf("Pending = %d, want 0", s.Pending())
	}
}

func TestTickSkipsIneligibleEntries(t *testing.T) {
	// TRD-1 was cancelled before its deadline: the entity declines the
	// flip and the stale index entry just drops out.
	exp := newFakeExpirer("TRQ-1")
	s := NewSweeper(time.Second, exp)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.ScheduleRequest("TRQ-1", base)
	s.ScheduleTrade("TRD-1", base)

	if got := s.Tick(base.Add(time.Second)); got != 1 {
		t.Fatalf("Tick flipped %d, want 1", got)
	}
	if s.Pending() != 0 {
		t.Fatalf("Pending = %d, want 0", s.Pending())
	}
}

func TestTickOrdersByDeadline(t *testing.T) {
	exp := newFakeExpirer("a", "b", "c")
	s := NewSweeper(time.Second, exp)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.ScheduleAuction("c", base.Add(3*time.Second))
	s.ScheduleAuction("a", base.Add(1*time.Second))
	s.ScheduleAuction("b", base.Add(2*time.Second))

	s.Tick(base.Add(time.Minute))
	flipped := exp.Flipped()
	if len(flipped) != 3 || flipped[0] != "a" || flipped[1] != "b" || flipped[2] != "c" {
		t.Fatalf("flipped = %v, want deadline order [a b c]", flipped)
	}
}

func TestScheduleConcurrent(t *testing.T) {
	exp := newFakeExpirer()
	s := NewSweeper(time.Second, exp)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.ScheduleTrade(string(rune('A'+i%26))+"-trade", base.Add(time.Duration(i)*time.Second))
		}(i)
	}
	wg.Wait()

	if s.Pending() == 0 {
		t.Fatal("no deadlines indexed")
	}
}
