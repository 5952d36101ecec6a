package handler

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pixelplaza/tradehall/internal/service"
)

// NewRouter creates a chi router with all routes registered, request logging,
// and Content-Type validation middleware.
func NewRouter(
	engine *service.Engine,
	webhookSvc *service.WebhookService,
	hub *EventHub,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)

	// Create handlers.
	tradeH := NewTradeHandler(engine.Trades)
	shopH := NewShopHandler(engine.Shop)
	auctionH := NewAuctionHandler(engine.Auctions)
	webhookH := NewWebhookHandler(webhookSvc)
	statsH := NewStatsHandler(engine)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Trade request routes.
	r.Post("/trade-requests", tradeH.SendRequest)
	r.Get("/trade-requests/received", tradeH.Received)
	r.Get("/trade-requests/sent", tradeH.Sent)
	r.Post("/trade-requests/{request_id}/accept", tradeH.Accept)
	r.Post("/trade-requests/{request_id}/reject", tradeH.Reject)
	r.Post("/trade-requests/{request_id}/cancel", tradeH.CancelRequest)

	// Trade routes.
	r.Get("/trades/{trade_id}", tradeH.GetTrade)
	r.Put("/trades/{trade_id}/items", tradeH.SetItems)
	r.Post("/trades/{trade_id}/confirm", tradeH.Confirm)
	r.Delete("/trades/{trade_id}", tradeH.CancelTrade)

	// Shop routes.
	r.Get("/shop/items", shopH.List)
	r.Post("/shop/items", shopH.AddItem)
	r.Get("/shop/items/{item_id}", shopH.GetItem)
	r.Delete("/shop/items/{item_id}", shopH.RemoveItem)
	r.Put("/shop/items/{item_id}/stock", shopH.UpdateStock)
	r.Post("/shop/buy", shopH.Buy)
	r.Post("/shop/sell", shopH.Sell)

	// Auction routes.
	r.Post("/auctions", auctionH.Register)
	r.Get("/auctions", auctionH.Active)
	r.Get("/auctions/completed", auctionH.Completed)
	r.Put("/auctions/fee-rate", auctionH.SetFeeRate)
	r.Get("/auctions/{auction_id}", auctionH.Get)
	r.Post("/auctions/{auction_id}/bids", auctionH.PlaceBid)
	r.Delete("/auctions/{auction_id}", auctionH.Cancel)

	// Per-character listings.
	r.Get("/characters/{character_id}/trades", tradeH.History)
	r.Get("/characters/{character_id}/transactions", shopH.Transactions)
	r.Get("/characters/{character_id}/auctions", auctionH.BySeller)

	// Webhook routes.
	r.Post("/webhooks", webhookH.Upsert)
	r.Get("/webhooks", webhookH.List)
	r.Delete("/webhooks/{webhook_id}", webhookH.Delete)

	// Live event feed.
	r.Get("/events", hub.Serve)

	// Aggregate stats.
	r.Get("/stats", statsH.Get)

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrade take over the connection through
// the logging wrapper.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

// contentTypeJSON is middleware that validates Content-Type for POST, PUT, and
// PATCH requests. If the Content-Type header doesn't start with
// "application/json", it returns 400 Bad Request before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
