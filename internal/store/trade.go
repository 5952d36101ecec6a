package store

import (
	"sync"

	"github.com/pixelplaza/tradehall/internal/domain"
)

// TradeStore is a thread-safe in-memory store for trade requests,
// trades, and per-character completed-trade history. Requests and
// trades are never deleted within a session; terminal entries stay in
// place to preserve audit history.
type TradeStore struct {
	mu         sync.RWMutex
	requests   map[string]*domain.TradeRequest
	trades     map[string]*domain.Trade
	history    map[string][]*domain.TradeRecord // character_id → records (chronological)
	historyMax int
}

// NewTradeStore creates an empty TradeStore with the given per-character
// history window.
func NewTradeStore(historyMax int) *TradeStore {
	return &TradeStore{
		requests:   make(map[string]*domain.TradeRequest),
		trades:     make(map[string]*domain.Trade),
		history:    make(map[string][]*domain.TradeRecord),
		historyMax: historyMax,
	}
}

// CreateRequest adds a trade request to the store.
func (s *TradeStore) CreateRequest(r *domain.TradeRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[r.RequestID] = r
}

// GetRequest retrieves a request by ID. It returns
// domain.ErrRequestNotFound if the request does not exist.
func (s *TradeStore) GetRequest(id string) (*domain.TradeRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	return r, nil
}

// CreateTrade adds a trade to the store.
func (s *TradeStore) CreateTrade(t *domain.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades[t.TradeID] = t
}

// GetTrade retrieves a trade by ID. It returns
// domain.ErrTradeNotFound if the trade does not exist.
func (s *TradeStore) GetTrade(id string) (*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.trades[id]
	if !ok {
		return nil, domain.ErrTradeNotFound
	}
	return t, nil
}

// Requests returns a snapshot of all requests. Callers lock each
// request before inspecting or mutating its state.
func (s *TradeStore) Requests() []*domain.TradeRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.TradeRequest, 0, len(s.requests))
	for _, r := range s.requests {
		out = append(out, r)
	}
	return out
}

// Trades returns a snapshot of all trades. Callers lock each trade
// before inspecting or mutating its state.
func (s *TradeStore) Trades() []*domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Trade, 0, len(s.trades))
	for _, t := range s.trades {
		out = append(out, t)
	}
	return out
}

// AppendHistory appends a settled-trade record to a character's
// bounded history window.
func (s *TradeStore) AppendHistory(characterID string, rec *domain.TradeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[characterID] = appendBounded(s.history[characterID], rec, s.historyMax)
}

// History returns up to limit of a character's completed-trade records,
// newest first. limit <= 0 returns the whole window.
func (s *TradeStore) History(characterID string, limit int) []*domain.TradeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.history[characterID], limit)
}

// Counts returns the total number of requests and trades ever created
// this session.
func (s *TradeStore) Counts() (requests, trades int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.requests), len(s.trades)
}

// HistoryEntries returns the total number of retained history records
// across all characters.
func (s *TradeStore) HistoryEntries() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, recs := range s.history {
		total += len(recs)
	}
	return total
}
