package handler

import (
	"net/http"

	"github.com/pixelplaza/tradehall/internal/service"
)

// statsResponse is the JSON response for GET /stats.
type statsResponse struct {
	Trade   tradeStatsBody   `json:"trade"`
	Shop    shopStatsBody    `json:"shop"`
	Auction auctionStatsBody `json:"auction"`
}

type tradeStatsBody struct {
	ActiveTrades    int `json:"active_trades"`
	PendingRequests int `json:"pending_requests"`
	TotalTrades     int `json:"total_trades"`
	TotalRequests   int `json:"total_requests"`
	HistoryEntries  int `json:"history_entries"`
}

type shopStatsBody struct {
	Items        int   `json:"items"`
	Transactions int   `json:"transactions"`
	TotalBuy     int64 `json:"total_buy"`
	TotalSell    int64 `json:"total_sell"`
	Profit       int64 `json:"profit"`
}

type auctionStatsBody struct {
	ActiveAuctions    int     `json:"active_auctions"`
	CompletedAuctions int     `json:"completed_auctions"`
	TotalValue        int64   `json:"total_value"`
	TotalFees         int64   `json:"total_fees"`
	FeeRate           float64 `json:"fee_rate"`
}

// StatsHandler handles GET /stats.
type StatsHandler struct {
	engine *service.Engine
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(engine *service.Engine) *StatsHandler {
	return &StatsHandler{engine: engine}
}

// Get handles GET /stats.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats := h.engine.Stats()
	WriteJSON(w, http.StatusOK, statsResponse{
		Trade: tradeStatsBody{
			ActiveTrades:    stats.Trade.ActiveTrades,
			PendingRequests: stats.Trade.PendingRequests,
			TotalTrades:     stats.Trade.TotalTrades,
			TotalRequests:   stats.Trade.TotalRequests,
			HistoryEntries:  stats.Trade.HistoryEntries,
		},
		Shop: shopStatsBody{
			Items:        stats.Shop.Items,
			Transactions: stats.Shop.Transactions,
			TotalBuy:     stats.Shop.TotalBuy,
			TotalSell:    stats.Shop.TotalSell,
			Profit:       stats.Shop.Profit,
		},
		Auction: auctionStatsBody{
			ActiveAuctions:    stats.Auction.ActiveAuctions,
			CompletedAuctions: stats.Auction.CompletedAuctions,
			TotalValue:        stats.Auction.TotalValue,
			TotalFees:         stats.Auction.TotalFees,
			FeeRate:           stats.Auction.FeeRate,
		},
	})
}
