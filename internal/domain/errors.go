package domain

import "errors"

// Sentinel errors for domain-level error handling. Business-rule
// violations are always returned, never panicked; the handler layer
// maps these to HTTP status codes and user-facing messages.
var (
	// Not found.
	ErrRequestNotFound = errors.New("trade_request_not_found")
	ErrTradeNotFound   = errors.New("trade_not_found")
	ErrItemNotFound    = errors.New("item_not_found")
	ErrAuctionNotFound = errors.New("auction_not_found")
	ErrWebhookNotFound = errors.New("webhook_not_found")

	// Invalid state.
	ErrRequestNotPending = errors.New("trade_request_not_pending")
	ErrTradeNotActive    = errors.New("trade_not_active")
	ErrAuctionNotActive  = errors.New("auction_not_active")

	// Unauthorized.
	ErrNotParticipant   = errors.New("not_a_participant")
	ErrNotRequestSender = errors.New("not_request_sender")
	ErrNotSeller        = errors.New("not_seller")
	ErrSelfBid          = errors.New("seller_cannot_bid")

	// Expired.
	ErrRequestExpired = errors.New("trade_request_expired")

	// Business conflicts.
	ErrInsufficientStock = errors.New("insufficient_stock")
	ErrInsufficientCoins = errors.New("insufficient_coins")
	ErrInsufficientItems = errors.New("insufficient_items")
	ErrBidTooLow         = errors.New("bid_too_low")
	ErrAuctionHasBids    = errors.New("auction_has_bids")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
