package domain

import "time"

// EventType names the engine transitions that produce notifications.
type EventType string

const (
	EventTradeCompleted   EventType = "trade.completed"
	EventTradeCancelled   EventType = "trade.cancelled"
	EventAuctionBid       EventType = "auction.bid"
	EventAuctionCompleted EventType = "auction.completed"
	EventShopTransaction  EventType = "shop.transaction"
)

// Event is an engine notification. CharacterIDs lists the characters
// the event concerns; webhook dispatch fans out per character while the
// live feed broadcasts every event.
type Event struct {
	Type         EventType
	At           time.Time
	CharacterIDs []string
	Payload      any
}
