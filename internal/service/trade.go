package service

import (
	"time"

	"github.com/pixelplaza/tradehall/internal/domain"
	"github.com/pixelplaza/tradehall/internal/ident"
	"github.com/pixelplaza/tradehall/internal/store"
)

// DefaultHistoryQueryLimit bounds history queries when the caller does
// not supply a limit.
const DefaultHistoryQueryLimit = 20

// ConfirmResult is the outcome of one participant confirming a trade.
// Completed reports whether this confirmation settled the trade.
type ConfirmResult struct {
	Trade     *domain.Trade
	Completed bool
	Message   string
}

// TradeStats is the trade subsystem's aggregate view.
type TradeStats struct {
	ActiveTrades    int
	PendingRequests int
	TotalTrades     int
	TotalRequests   int
	HistoryEntries  int
}

// TradeService manages direct player-to-player trades: the request
// handshake, the two-sided confirm protocol, and completed-trade
// history. State transitions happen under each entity's own lock; no
// operation mutates state on a failed validation.
type TradeService struct {
	store      *store.TradeStore
	ids        *ident.Generator
	now        domain.Clock
	sink       EventSink
	sched      Scheduler
	requestTTL time.Duration
	tradeTTL   time.Duration
}

// NewTradeService creates a TradeService. A nil clock falls back to the
// system clock; sink may be nil.
func NewTradeService(
	tradeStore *store.TradeStore,
	ids *ident.Generator,
	now domain.Clock,
	sink EventSink,
	requestTTL, tradeTTL time.Duration,
) *TradeService {
	if now == nil {
		now = domain.SystemClock
	}
	return &TradeService{
		store:      tradeStore,
		ids:        ids,
		now:        now,
		sink:       sink,
		requestTTL: requestTTL,
		tradeTTL:   tradeTTL,
	}
}

// SetScheduler attaches the expiry sweeper's index. Must be called
// before the service handles traffic.
func (s *TradeService) SetScheduler(sched Scheduler) {
	s.sched = sched
}

// SendRequest creates a pending trade request from one character to
// another. It always succeeds for well-formed input.
func (s *TradeService) SendRequest(fromID, fromName, toID, toName string) (*domain.TradeRequest, error) {
	if fromID == "" || toID == "" {
		return nil, &domain.ValidationError{Message: "from and to character ids are required"}
	}

	now := s.now()
	req := &domain.TradeRequest{
		RequestID: s.ids.RequestID(),
		FromID:    fromID,
		FromName:  fromName,
		ToID:      toID,
		ToName:    toName,
		Status:    domain.RequestStatusPending,
		CreatedAt: now,
		ExpiresAt: now.Add(s.requestTTL),
	}
	s.store.CreateRequest(req)

	if s.sched != nil {
		s.sched.ScheduleRequest(req.RequestID, req.ExpiresAt)
	}
	return req, nil
}

// AcceptRequest accepts a pending request and opens a trade with two
// empty participant slots mirroring the request's identities. An
// expired request is flipped to expired and reported as such.
func (s *TradeService) AcceptRequest(requestID string) (*domain.Trade, error) {
	req, err := s.store.GetRequest(requestID)
	if err != nil {
		return nil, err
	}

	req.Mu.Lock()
	if req.Status != domain.RequestStatusPending {
		req.Mu.Unlock()
		return nil, domain.ErrRequestNotPending
	}

	now := s.now()
	if now.After(req.ExpiresAt) {
		req.Status = domain.RequestStatusExpired
		req.Mu.Unlock()
		return nil, domain.ErrRequestExpired
	}

	trade := &domain.Trade{
		TradeID:   s.ids.TradeID(),
		RequestID: req.RequestID,
		A:         domain.Participant{CharacterID: req.FromID, Name: req.FromName},
		B:         domain.Participant{CharacterID: req.ToID, Name: req.ToName},
		Status:    domain.TradeStatusActive,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tradeTTL),
	}
	req.Status = domain.RequestStatusAccepted
	req.Mu.Unlock()

	s.store.CreateTrade(trade)

	if s.sched != nil {
		s.sched.ScheduleTrade(trade.TradeID, trade.ExpiresAt)
	}
	return trade, nil
}

// RejectRequest rejects a pending request.
func (s *TradeService) RejectRequest(requestID string) (*domain.TradeRequest, error) {
	req, err := s.store.GetRequest(requestID)
	if err != nil {
		return nil, err
	}

	req.Mu.Lock()
	defer req.Mu.Unlock()

	if req.Status != domain.RequestStatusPending {
		return nil, domain.ErrRequestNotPending
	}
	req.Status = domain.RequestStatusRejected
	return req, nil
}

// CancelRequest cancels a pending request. Only the sender may cancel.
func (s *TradeService) CancelRequest(requestID, characterID string) (*domain.TradeRequest, error) {
	req, err := s.store.GetRequest(requestID)
	if err != nil {
		return nil, err
	}

	req.Mu.Lock()
	defer req.Mu.Unlock()

	if req.FromID != characterID {
		return nil, domain.ErrNotRequestSender
	}
	if req.Status != domain.RequestStatusPending {
		return nil, domain.ErrRequestNotPending
	}
	req.Status = domain.RequestStatusCancelled
	return req, nil
}

// ReceivedRequests returns a character's pending inbound requests.
func (s *TradeService) ReceivedRequests(characterID string) []*domain.TradeRequest {
	return s.pendingRequests(func(r *domain.TradeRequest) bool {
		return r.ToID == characterID
	})
}

// SentRequests returns a character's pending outbound requests.
func (s *TradeService) SentRequests(characterID string) []*domain.TradeRequest {
	return s.pendingRequests(func(r *domain.TradeRequest) bool {
		return r.FromID == characterID
	})
}

func (s *TradeService) pendingRequests(match func(*domain.TradeRequest) bool) []*domain.TradeRequest {
	out := make([]*domain.TradeRequest, 0)
	for _, req := range s.store.Requests() {
		req.Mu.Lock()
		ok := req.Status == domain.RequestStatusPending && match(req)
		req.Mu.Unlock()
		if ok {
			out = append(out, req)
		}
	}
	return out
}

// Trade retrieves a trade by ID.
func (s *TradeService) Trade(tradeID string) (*domain.Trade, error) {
	return s.store.GetTrade(tradeID)
}

// SetTradeItems overwrites a participant's offer. Changing an offer
// revokes that participant's prior confirmation so a stale confirm can
// never cover different items.
func (s *TradeService) SetTradeItems(tradeID, characterID string, items []domain.ItemStack, coins int64) (*domain.Trade, error) {
	if coins < 0 {
		return nil, &domain.ValidationError{Message: "coins must be non-negative"}
	}
	for _, it := range items {
		if it.ID == "" {
			return nil, &domain.ValidationError{Message: "item id is required"}
		}
		if it.Quantity <= 0 {
			return nil, &domain.ValidationError{Message: "item quantity must be a positive integer"}
		}
	}

	trade, err := s.store.GetTrade(tradeID)
	if err != nil {
		return nil, err
	}

	trade.Mu.Lock()
	defer trade.Mu.Unlock()

	if trade.Status != domain.TradeStatusActive {
		return nil, domain.ErrTradeNotActive
	}
	p := trade.Side(characterID)
	if p == nil {
		return nil, domain.ErrNotParticipant
	}

	offer := make([]domain.ItemStack, len(items))
	copy(offer, items)
	p.Items = offer
	p.Coins = coins
	p.Confirmed = false

	return trade, nil
}

// Confirm marks the caller's side of the trade confirmed. When the
// counterparty is already confirmed the trade settles: status becomes
// confirmed, offers freeze, and one history record lands in both
// participants' histories.
func (s *TradeService) Confirm(tradeID, characterID string) (*ConfirmResult, error) {
	trade, err := s.store.GetTrade(tradeID)
	if err != nil {
		return nil, err
	}

	trade.Mu.Lock()

	if trade.Status != domain.TradeStatusActive {
		trade.Mu.Unlock()
		return nil, domain.ErrTradeNotActive
	}
	p := trade.Side(characterID)
	if p == nil {
		trade.Mu.Unlock()
		return nil, domain.ErrNotParticipant
	}

	p.Confirmed = true

	if !trade.Other(characterID).Confirmed {
		trade.Mu.Unlock()
		return &ConfirmResult{
			Trade:     trade,
			Completed: false,
			Message:   "waiting for other participant to confirm",
		}, nil
	}

	// Both sides confirmed: this transition runs exactly once because
	// it leaves the active state under the trade lock.
	now := s.now()
	trade.Status = domain.TradeStatusConfirmed
	trade.CompletedAt = &now

	rec := &domain.TradeRecord{
		TradeID:     trade.TradeID,
		A:           trade.A,
		B:           trade.B,
		Status:      trade.Status,
		CreatedAt:   trade.CreatedAt,
		CompletedAt: now,
	}
	trade.Mu.Unlock()

	s.store.AppendHistory(rec.A.CharacterID, rec)
	s.store.AppendHistory(rec.B.CharacterID, rec)

	publish(s.sink, domain.Event{
		Type:         domain.EventTradeCompleted,
		At:           now,
		CharacterIDs: []string{rec.A.CharacterID, rec.B.CharacterID},
		Payload:      rec,
	})

	return &ConfirmResult{Trade: trade, Completed: true}, nil
}

// CancelTrade cancels an active trade. Either participant may cancel.
func (s *TradeService) CancelTrade(tradeID, characterID string) (*domain.Trade, error) {
	trade, err := s.store.GetTrade(tradeID)
	if err != nil {
		return nil, err
	}

	trade.Mu.Lock()

	if trade.Status != domain.TradeStatusActive {
		trade.Mu.Unlock()
		return nil, domain.ErrTradeNotActive
	}
	if trade.Side(characterID) == nil {
		trade.Mu.Unlock()
		return nil, domain.ErrNotParticipant
	}

	now := s.now()
	trade.Status = domain.TradeStatusCancelled
	trade.CancelledAt = &now
	trade.CancelledBy = characterID
	a, b := trade.A.CharacterID, trade.B.CharacterID
	trade.Mu.Unlock()

	publish(s.sink, domain.Event{
		Type:         domain.EventTradeCancelled,
		At:           now,
		CharacterIDs: []string{a, b},
		Payload:      trade,
	})

	return trade, nil
}

// ExpireRequest flips a pending request to expired once its TTL has
// elapsed. Safe to call on any request; terminal states are untouched.
func (s *TradeService) ExpireRequest(requestID string) bool {
	req, err := s.store.GetRequest(requestID)
	if err != nil {
		return false
	}

	req.Mu.Lock()
	defer req.Mu.Unlock()

	if req.Status != domain.RequestStatusPending || !s.now().After(req.ExpiresAt) {
		return false
	}
	req.Status = domain.RequestStatusExpired
	return true
}

// ExpireTrade flips an active trade to expired once its TTL has
// elapsed. Safe to call on any trade; terminal states are untouched.
func (s *TradeService) ExpireTrade(tradeID string) bool {
	trade, err := s.store.GetTrade(tradeID)
	if err != nil {
		return false
	}

	trade.Mu.Lock()
	defer trade.Mu.Unlock()

	if trade.Status != domain.TradeStatusActive || !s.now().After(trade.ExpiresAt) {
		return false
	}
	trade.Status = domain.TradeStatusExpired
	return true
}

// CleanupExpiredTrades scans every trade and request and flips expired
// active/pending entries to expired. Returns how many of each flipped.
func (s *TradeService) CleanupExpiredTrades() (trades, requests int) {
	for _, t := range s.store.Trades() {
		if s.ExpireTrade(t.TradeID) {
			trades++
		}
	}
	for _, r := range s.store.Requests() {
		if s.ExpireRequest(r.RequestID) {
			requests++
		}
	}
	return trades, requests
}

// History returns a character's completed-trade records, newest first.
// limit <= 0 applies DefaultHistoryQueryLimit.
func (s *TradeService) History(characterID string, limit int) []*domain.TradeRecord {
	if limit <= 0 {
		limit = DefaultHistoryQueryLimit
	}
	return s.store.History(characterID, limit)
}

// Stats returns the subsystem's aggregate counters.
func (s *TradeService) Stats() TradeStats {
	totalRequests, totalTrades := s.store.Counts()
	stats := TradeStats{
		TotalRequests:  totalRequests,
		TotalTrades:    totalTrades,
		HistoryEntries: s.store.HistoryEntries(),
	}

	for _, t := range s.store.Trades() {
		t.Mu.Lock()
		if t.Status == domain.TradeStatusActive {
			stats.ActiveTrades++
		}
		t.Mu.Unlock()
	}
	for _, r := range s.store.Requests() {
		r.Mu.Lock()
		if r.Status == domain.RequestStatusPending {
			stats.PendingRequests++
		}
		r.Mu.Unlock()
	}
	return stats
}
