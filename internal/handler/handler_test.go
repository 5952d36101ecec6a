package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pixelplaza/tradehall/internal/catalog"
	"github.com/pixelplaza/tradehall/internal/service"
	"github.com/pixelplaza/tradehall/internal/store"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	items, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	hub := NewEventHub(logger)
	engine := service.NewEngine(service.EngineOptions{
		Sink:                hub,
		RequestTTL:          5 * time.Minute,
		TradeTTL:            10 * time.Minute,
		AuctionDuration:     24 * time.Hour,
		AuctionFeeRate:      0.05,
		TradeHistoryLimit:   100,
		ShopHistoryLimit:    100,
		AuctionHistoryLimit: 50,
		Catalog:             items,
	})
	webhookSvc := service.NewWebhookService(store.NewWebhookStore(), time.Second)
	return NewRouter(engine, webhookSvc, hub, logger)
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestTradeLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	// Send a request.
	w := doJSON(t, r, http.MethodPost, "/trade-requests", map[string]any{
		"from_id": "alice", "from_name": "Alice", "to_id": "bob", "to_name": "Bob",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("send request status = %d, body %s", w.Code, w.Body.String())
	}
	requestID := decodeBody(t, w)["request_id"].(string)

	// Bob sees it in his inbox.
	w = doJSON(t, r, http.MethodGet, "/trade-requests/received?character_id=bob", nil)
	if got := decodeBody(t, w)["requests"].([]any); len(got) != 1 {
		t.Fatalf("received = %d entries, want 1", len(got))
	}

	// Accept opens a trade.
	w = doJSON(t, r, http.MethodPost, "/trade-requests/"+requestID+"/accept", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("accept status = %d, body %s", w.Code, w.Body.String())
	}
	tradeID := decodeBody(t, w)["trade_id"].(string)

	// Offers and confirmations.
	w = doJSON(t, r, http.MethodPut, "/trades/"+tradeID+"/items", map[string]any{
		"character_id": "alice",
		"items":        []map[string]any{{"id": "healthPotion", "name": "체력 포션", "quantity": 3}},
		"coins":        0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("set items status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/trades/"+tradeID+"/confirm", map[string]any{"character_id": "alice"})
	if got := decodeBody(t, w); got["completed"] != false {
		t.Fatalf("first confirm completed = %v, want false", got["completed"])
	}
	w = doJSON(t, r, http.MethodPost, "/trades/"+tradeID+"/confirm", map[string]any{"character_id": "bob"})
	if got := decodeBody(t, w); got["completed"] != true {
		t.Fatalf("second confirm completed = %v, want true", got["completed"])
	}

	// Both histories carry the record.
	w = doJSON(t, r, http.MethodGet, "/characters/alice/trades", nil)
	if got := decodeBody(t, w)["trades"].([]any); len(got) != 1 {
		t.Fatalf("alice history = %d entries, want 1", len(got))
	}
}

func TestShopBuyOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/shop/buy", map[string]any{
		"character_id": "alice",
		"item_id":      "healthPotion",
		"quantity":     5,
		"inventory":    []map[string]any{{"id": "coin", "quantity": 100}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("buy status = %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	tx := body["transaction"].(map[string]any)
	if tx["total_price"] != float64(100) {
		t.Fatalf("total_price = %v, want 100", tx["total_price"])
	}

	// Broke buyer gets a 409 with the coin message.
	w = doJSON(t, r, http.MethodPost, "/shop/buy", map[string]any{
		"character_id": "alice",
		"item_id":      "sword",
		"quantity":     1,
		"inventory":    []map[string]any{{"id": "coin", "quantity": 10}},
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("broke buy status = %d, want 409", w.Code)
	}
	if got := decodeBody(t, w)["error"]; got != "insufficient_coins" {
		t.Fatalf("error = %v, want insufficient_coins", got)
	}
}

func TestAuctionOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/auctions", map[string]any{
		"seller_id": "bob", "seller_name": "Bob",
		"item_id": "sword", "item_name": "검",
		"quantity": 1, "starting_price": 500,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}
	auctionID := decodeBody(t, w)["auction_id"].(string)

	// Self-bid is forbidden.
	w = doJSON(t, r, http.MethodPost, "/auctions/"+auctionID+"/bids", map[string]any{
		"character_id": "bob", "character_name": "Bob", "amount": 600,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("self-bid status = %d, want 403", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/auctions/"+auctionID+"/bids", map[string]any{
		"character_id": "alice", "character_name": "Alice", "amount": 600,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("bid status = %d, body %s", w.Code, w.Body.String())
	}

	// A low bid conflicts.
	w = doJSON(t, r, http.MethodPost, "/auctions/"+auctionID+"/bids", map[string]any{
		"character_id": "carol", "character_name": "Carol", "amount": 600,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("low bid status = %d, want 409", w.Code)
	}

	// Cancelling with bids conflicts.
	w = doJSON(t, r, http.MethodDelete, "/auctions/"+auctionID, map[string]any{"character_id": "bob"})
	if w.Code != http.StatusConflict {
		t.Fatalf("cancel-with-bids status = %d, want 409", w.Code)
	}
	if got := decodeBody(t, w)["error"]; got != "auction_has_bids" {
		t.Fatalf("error = %v, want auction_has_bids", got)
	}

	// Active listing shows the current bid.
	w = doJSON(t, r, http.MethodGet, "/auctions/"+auctionID, nil)
	if got := decodeBody(t, w)["current_bid"]; got != float64(600) {
		t.Fatalf("current_bid = %v, want 600", got)
	}
}

func TestNotFoundAndValidationStatuses(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/trades/TRD-0-0", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown trade status = %d, want 404", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/auctions/AUC-0-abc", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown auction status = %d, want 404", w.Code)
	}

	// Missing Content-Type is rejected before the handler runs.
	req := httptest.NewRequest(http.MethodPost, "/trade-requests", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing content type status = %d, want 400", rec.Code)
	}

	// Unknown body fields are rejected.
	w = doJSON(t, r, http.MethodPost, "/trade-requests", map[string]any{"from_id": "a", "to_id": "b", "bogus": 1})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown field status = %d, want 400", w.Code)
	}
}

func TestStatsAndHealthz(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d", w.Code)
	}
	body := decodeBody(t, w)
	shop := body["shop"].(map[string]any)
	if shop["items"] != float64(5) {
		t.Fatalf("shop items = %v, want 5", shop["items"])
	}
}
