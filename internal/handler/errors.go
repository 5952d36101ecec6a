package handler

import (
	"errors"
	"net/http"

	"github.com/pixelplaza/tradehall/internal/domain"
)

// domainErrorStatus maps each business error to its HTTP status and a
// human-readable message. Not-found kinds are 404, authorization kinds
// 403, expiry 410, and the remaining state or resource conflicts 409.
var domainErrorStatus = map[error]struct {
	status  int
	message string
}{
	domain.ErrRequestNotFound: {http.StatusNotFound, "Trade request not found"},
	domain.ErrTradeNotFound:   {http.StatusNotFound, "Trade not found"},
	domain.ErrItemNotFound:    {http.StatusNotFound, "Item not found"},
	domain.ErrAuctionNotFound: {http.StatusNotFound, "Auction not found"},
	domain.ErrWebhookNotFound: {http.StatusNotFound, "Webhook not found"},

	domain.ErrNotParticipant:   {http.StatusForbidden, "Character is not a participant in this trade"},
	domain.ErrNotRequestSender: {http.StatusForbidden, "Only the sender can cancel a trade request"},
	domain.ErrNotSeller:        {http.StatusForbidden, "Only the seller can cancel an auction"},
	domain.ErrSelfBid:          {http.StatusForbidden, "Cannot bid on your own auction"},

	domain.ErrRequestExpired: {http.StatusGone, "Trade request has expired"},

	domain.ErrRequestNotPending: {http.StatusConflict, "Trade request is no longer pending"},
	domain.ErrTradeNotActive:    {http.StatusConflict, "Trade is no longer active"},
	domain.ErrAuctionNotActive:  {http.StatusConflict, "Auction is no longer active"},
	domain.ErrInsufficientStock: {http.StatusConflict, "Insufficient stock"},
	domain.ErrInsufficientCoins: {http.StatusConflict, "Insufficient coins"},
	domain.ErrInsufficientItems: {http.StatusConflict, "Insufficient items"},
	domain.ErrBidTooLow:         {http.StatusConflict, "Bid must be higher than current bid"},
	domain.ErrAuctionHasBids:    {http.StatusConflict, "Cannot cancel auction with bids"},
}

// mapDomainError writes the HTTP response for a business error.
func mapDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	for sentinel, m := range domainErrorStatus {
		if errors.Is(err, sentinel) {
			WriteError(w, m.status, sentinel.Error(), m.message)
			return
		}
	}

	WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
}
