package domain

import (
	"sync"
	"time"
)

// RequestStatus represents the lifecycle state of a trade request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
	RequestStatusExpired   RequestStatus = "expired"
)

// TradeStatus represents the lifecycle state of a trade.
type TradeStatus string

const (
	TradeStatusActive    TradeStatus = "active"
	TradeStatusConfirmed TradeStatus = "confirmed"
	TradeStatusCancelled TradeStatus = "cancelled"
	TradeStatusExpired   TradeStatus = "expired"
)

// TradeRequest is an invitation from one character to another to open a
// trade. Terminal states (accepted, rejected, cancelled, expired) are
// final; only pending requests transition.
type TradeRequest struct {
	RequestID string
	FromID    string
	FromName  string
	ToID      string
	ToName    string
	Status    RequestStatus
	CreatedAt time.Time
	ExpiresAt time.Time
	Mu        sync.Mutex // per-request lock for state transitions
}

// Participant is one side of a trade: the character's identity, their
// current offer, and whether they have confirmed it.
type Participant struct {
	CharacterID string
	Name        string
	Items       []ItemStack
	Coins       int64
	Confirmed   bool
}

// Trade is a direct two-party exchange of items and coins requiring
// mutual confirmation. It settles exactly once, when both participants
// are confirmed; once confirmed, offers are immutable.
type Trade struct {
	TradeID     string
	RequestID   string
	A           Participant
	B           Participant
	Status      TradeStatus
	CreatedAt   time.Time
	ExpiresAt   time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
	CancelledBy string
	Mu          sync.Mutex // per-trade lock for state transitions
}

// Side returns the participant slot for the given character, or nil if
// the character is not a party to the trade. Callers must hold Mu.
func (t *Trade) Side(characterID string) *Participant {
	switch characterID {
	case t.A.CharacterID:
		return &t.A
	case t.B.CharacterID:
		return &t.B
	}
	return nil
}

// Other returns the counterparty slot for the given character. Callers
// must hold Mu and have verified the character is a participant.
func (t *Trade) Other(characterID string) *Participant {
	if characterID == t.A.CharacterID {
		return &t.B
	}
	return &t.A
}

// TradeRecord is the immutable history entry appended to both
// participants' histories when a trade settles.
type TradeRecord struct {
	TradeID     string
	A           Participant
	B           Participant
	Status      TradeStatus
	CreatedAt   time.Time
	CompletedAt time.Time
}
