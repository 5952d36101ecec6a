package service

import (
	"sync"
	"time"

	"github.com/pixelplaza/tradehall/internal/domain"
)

// testClock is a manually advanced clock for deterministic TTL tests.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// captureSink records published events for assertions.
type captureSink struct {
	mu     sync.Mutex
	events []string
}

func (s *captureSink) Publish(evt domain.Event) {
	s.mu.Lock()
	s.events = append(s.events, string(evt.Type))
	s.mu.Unlock()
}

func (s *captureSink) Types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	copy(out, s.events)
	return out
}
