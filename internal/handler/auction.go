package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pixelplaza/tradehall/internal/domain"
	"github.com/pixelplaza/tradehall/internal/service"
)

// AuctionHandler handles HTTP requests for auction endpoints.
type AuctionHandler struct {
	auctionSvc *service.AuctionService
}

// NewAuctionHandler creates a new AuctionHandler.
func NewAuctionHandler(auctionSvc *service.AuctionService) *AuctionHandler {
	return &AuctionHandler{auctionSvc: auctionSvc}
}

// registerAuctionRequest is the JSON request body for POST /auctions.
// DurationMinutes 0 applies the server default.
type registerAuctionRequest struct {
	SellerID        string `json:"seller_id"`
	SellerName      string `json:"seller_name"`
	ItemID          string `json:"item_id"`
	ItemName        string `json:"item_name"`
	Quantity        int64  `json:"quantity"`
	StartingPrice   int64  `json:"starting_price"`
	DurationMinutes int64  `json:"duration_minutes"`
}

// placeBidRequest is the JSON request body for POST /auctions/{auction_id}/bids.
type placeBidRequest struct {
	CharacterID   string `json:"character_id"`
	CharacterName string `json:"character_name"`
	Amount        int64  `json:"amount"`
}

// setFeeRateRequest is the JSON request body for PUT /auctions/fee-rate.
type setFeeRateRequest struct {
	Rate float64 `json:"rate"`
}

// bidResponse is one bid in JSON form.
type bidResponse struct {
	BidID         string `json:"bid_id"`
	AuctionID     string `json:"auction_id"`
	CharacterID   string `json:"character_id"`
	CharacterName string `json:"character_name"`
	Amount        int64  `json:"amount"`
	Timestamp     string `json:"timestamp"`
}

// auctionResultResponse is a settlement in JSON form.
type auctionResultResponse struct {
	AuctionID     string  `json:"auction_id"`
	SellerID      string  `json:"seller_id"`
	ItemID        string  `json:"item_id"`
	ItemName      string  `json:"item_name"`
	Quantity      int64   `json:"quantity"`
	StartingPrice int64   `json:"starting_price"`
	FinalBid      int64   `json:"final_bid"`
	HasBidder     bool    `json:"has_bidder"`
	BidderID      string  `json:"bidder_id,omitempty"`
	BidderName    string  `json:"bidder_name,omitempty"`
	FeeRate       float64 `json:"fee_rate"`
	FeeAmount     int64   `json:"fee_amount"`
	SellerReceive int64   `json:"seller_receive"`
}

// auctionResponse is an auction in JSON form.
type auctionResponse struct {
	AuctionID         string                 `json:"auction_id"`
	SellerID          string                 `json:"seller_id"`
	SellerName        string                 `json:"seller_name"`
	ItemID            string                 `json:"item_id"`
	ItemName          string                 `json:"item_name"`
	Quantity          int64                  `json:"quantity"`
	StartingPrice     int64                  `json:"starting_price"`
	CurrentBid        int64                  `json:"current_bid"`
	CurrentBidderID   string                 `json:"current_bidder_id,omitempty"`
	CurrentBidderName string                 `json:"current_bidder_name,omitempty"`
	BidCount          int                    `json:"bid_count"`
	Status            string                 `json:"status"`
	FeeRate           float64                `json:"fee_rate"`
	CreatedAt         string                 `json:"created_at"`
	ExpiresAt         string                 `json:"expires_at"`
	CancelledAt       *string                `json:"cancelled_at"`
	CompletedAt       *string                `json:"completed_at"`
	Result            *auctionResultResponse `json:"result,omitempty"`
}

// Register handles POST /auctions.
func (h *AuctionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body registerAuctionRequest
	if err := ParseJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if body.DurationMinutes < 0 {
		WriteError(w, http.StatusBadRequest, "validation_error", "duration_minutes must be non-negative")
		return
	}

	a, err := h.auctionSvc.Register(
		body.SellerID, body.SellerName,
		body.ItemID, body.ItemName,
		body.Quantity, body.StartingPrice,
		time.Duration(body.DurationMinutes)*time.Minute,
	)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, buildAuctionResponse(a))
}

// Active handles GET /auctions.
func (h *AuctionHandler) Active(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, buildAuctionListResponse(h.auctionSvc.Active(parseLimit(r))))
}

// Completed handles GET /auctions/completed.
func (h *AuctionHandler) Completed(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, buildAuctionListResponse(h.auctionSvc.Completed(parseLimit(r))))
}

// Get handles GET /auctions/{auction_id}.
func (h *AuctionHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.auctionSvc.Get(chi.URLParam(r, "auction_id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildAuctionResponse(a))
}

// PlaceBid handles POST /auctions/{auction_id}/bids.
func (h *AuctionHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	var body placeBidRequest
	if err := ParseJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	bid, err := h.auctionSvc.PlaceBid(chi.URLParam(r, "auction_id"), body.CharacterID, body.CharacterName, body.Amount)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, buildBidResponse(bid))
}

// Cancel handles DELETE /auctions/{auction_id}.
func (h *AuctionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var body characterActionRequest
	if err := ParseJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	a, err := h.auctionSvc.Cancel(chi.URLParam(r, "auction_id"), body.CharacterID)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildAuctionResponse(a))
}

// SetFeeRate handles PUT /auctions/fee-rate.
func (h *AuctionHandler) SetFeeRate(w http.ResponseWriter, r *http.Request) {
	var body setFeeRateRequest
	if err := ParseJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	rate := h.auctionSvc.SetFeeRate(body.Rate)
	WriteJSON(w, http.StatusOK, map[string]float64{"fee_rate": rate})
}

// BySeller handles GET /characters/{character_id}/auctions.
func (h *AuctionHandler) BySeller(w http.ResponseWriter, r *http.Request) {
	auctions := h.auctionSvc.BySeller(chi.URLParam(r, "character_id"), parseLimit(r))
	WriteJSON(w, http.StatusOK, buildAuctionListResponse(auctions))
}

func buildBidResponse(b *domain.Bid) bidResponse {
	return bidResponse{
		BidID:         b.BidID,
		AuctionID:     b.AuctionID,
		CharacterID:   b.CharacterID,
		CharacterName: b.CharacterName,
		Amount:        b.Amount,
		Timestamp:     formatTime(b.Timestamp),
	}
}

func buildAuctionResultResponse(r *domain.AuctionResult) *auctionResultResponse {
	if r == nil {
		return nil
	}
	return &auctionResultResponse{
		AuctionID:     r.AuctionID,
		SellerID:      r.SellerID,
		ItemID:        r.ItemID,
		ItemName:      r.ItemName,
		Quantity:      r.Quantity,
		StartingPrice: r.StartingPrice,
		FinalBid:      r.FinalBid,
		HasBidder:     r.HasBidder,
		BidderID:      r.BidderID,
		BidderName:    r.BidderName,
		FeeRate:       r.FeeRate,
		FeeAmount:     r.FeeAmount,
		SellerReceive: r.SellerReceive,
	}
}

func buildAuctionResponse(a *domain.Auction) auctionResponse {
	a.Mu.Lock()
	defer a.Mu.Unlock()

	return auctionResponse{
		AuctionID:         a.AuctionID,
		SellerID:          a.SellerID,
		SellerName:        a.SellerName,
		ItemID:            a.ItemID,
		ItemName:          a.ItemName,
		Quantity:          a.Quantity,
		StartingPrice:     a.StartingPrice,
		CurrentBid:        a.CurrentBid,
		CurrentBidderID:   a.CurrentBidderID,
		CurrentBidderName: a.CurrentBidderName,
		BidCount:          len(a.Bids),
		Status:            string(a.Status),
		FeeRate:           a.FeeRate,
		CreatedAt:         formatTime(a.CreatedAt),
		ExpiresAt:         formatTime(a.ExpiresAt),
		CancelledAt:       formatTimePtr(a.CancelledAt),
		CompletedAt:       formatTimePtr(a.CompletedAt),
		Result:            buildAuctionResultResponse(a.Result),
	}
}

func buildAuctionListResponse(auctions []*domain.Auction) map[string]any {
	out := make([]auctionResponse, len(auctions))
	for i, a := range auctions {
		out[i] = buildAuctionResponse(a)
	}
	return map[string]any{"auctions": out}
}
