package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pixelplaza/tradehall/internal/domain"
	"github.com/pixelplaza/tradehall/internal/service"
)

// TradeHandler handles HTTP requests for trade-request and trade endpoints.
type TradeHandler struct {
	tradeSvc *service.TradeService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeSvc *service.TradeService) *TradeHandler {
	return &TradeHandler{tradeSvc: tradeSvc}
}

// sendRequestRequest is the JSON request body for POST /trade-requests.
type sendRequestRequest struct {
	FromID   string `json:"from_id"`
	FromName string `json:"from_name"`
	ToID     string `json:"to_id"`
	ToName   string `json:"to_name"`
}

// characterActionRequest is the JSON body for endpoints that only need
// the acting character.
type characterActionRequest struct {
	CharacterID string `json:"character_id"`
}

// itemStackBody is one offered item in a request or response body.
type itemStackBody struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// setItemsRequest is the JSON request body for PUT /trades/{trade_id}/items.
type setItemsRequest struct {
	CharacterID string          `json:"character_id"`
	Items       []itemStackBody `json:"items"`
	Coins       int64           `json:"coins"`
}

// tradeRequestResponse is a trade request in JSON form.
type tradeRequestResponse struct {
	RequestID string `json:"request_id"`
	FromID    string `json:"from_id"`
	FromName  string `json:"from_name"`
	ToID      string `json:"to_id"`
	ToName    string `json:"to_name"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
}

// participantResponse is one side of a trade in JSON form.
type participantResponse struct {
	CharacterID string          `json:"character_id"`
	Name        string          `json:"name"`
	Items       []itemStackBody `json:"items"`
	Coins       int64           `json:"coins"`
	Confirmed   bool            `json:"confirmed"`
}

// tradeResponse is a trade in JSON form.
type tradeResponse struct {
	TradeID     string              `json:"trade_id"`
	RequestID   string              `json:"request_id"`
	A           participantResponse `json:"participant_a"`
	B           participantResponse `json:"participant_b"`
	Status      string              `json:"status"`
	CreatedAt   string              `json:"created_at"`
	ExpiresAt   string              `json:"expires_at"`
	CompletedAt *string             `json:"completed_at"`
	CancelledAt *string             `json:"cancelled_at"`
	CancelledBy string              `json:"cancelled_by,omitempty"`
}

// confirmResponse is the JSON response for POST /trades/{trade_id}/confirm.
type confirmResponse struct {
	Trade     tradeResponse `json:"trade"`
	Completed bool          `json:"completed"`
	Message   string        `json:"message,omitempty"`
}

// tradeRecordResponse is one completed-trade history entry.
type tradeRecordResponse struct {
	TradeID     string              `json:"trade_id"`
	A           participantResponse `json:"participant_a"`
	B           participantResponse `json:"participant_b"`
	Status      string              `json:"status"`
	CreatedAt   string              `json:"created_at"`
	CompletedAt string              `json:"completed_at"`
}

// SendRequest handles POST /trade-requests.
func (h *TradeHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	var req sendRequestRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	created, err := h.tradeSvc.SendRequest(req.FromID, req.FromName, req.ToID, req.ToName)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildRequestResponse(created))
}

// Received handles GET /trade-requests/received.
func (h *TradeHandler) Received(w http.ResponseWriter, r *http.Request) {
	characterID := r.URL.Query().Get("character_id")
	if characterID == "" {
		WriteError(w, http.StatusBadRequest, "validation_error", "character_id query parameter is required")
		return
	}
	WriteJSON(w, http.StatusOK, buildRequestListResponse(h.tradeSvc.ReceivedRequests(characterID)))
}

// Sent handles GET /trade-requests/sent.
func (h *TradeHandler) Sent(w http.ResponseWriter, r *http.Request) {
	characterID := r.URL.Query().Get("character_id")
	if characterID == "" {
		WriteError(w, http.StatusBadRequest, "validation_error", "character_id query parameter is required")
		return
	}
	WriteJSON(w, http.StatusOK, buildRequestListResponse(h.tradeSvc.SentRequests(characterID)))
}

// Accept handles POST /trade-requests/{request_id}/accept.
func (h *TradeHandler) Accept(w http.ResponseWriter, r *http.Request) {
	trade, err := h.tradeSvc.AcceptRequest(chi.URLParam(r, "request_id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, buildTradeResponse(trade))
}

// Reject handles POST /trade-requests/{request_id}/reject.
func (h *TradeHandler) Reject(w http.ResponseWriter, r *http.Request) {
	req, err := h.tradeSvc.RejectRequest(chi.URLParam(r, "request_id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildRequestResponse(req))
}

// CancelRequest handles POST /trade-requests/{request_id}/cancel.
func (h *TradeHandler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	var body characterActionRequest
	if err := ParseJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	req, err := h.tradeSvc.CancelRequest(chi.URLParam(r, "request_id"), body.CharacterID)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildRequestResponse(req))
}

// GetTrade handles GET /trades/{trade_id}.
func (h *TradeHandler) GetTrade(w http.ResponseWriter, r *http.Request) {
	trade, err := h.tradeSvc.Trade(chi.URLParam(r, "trade_id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildTradeResponse(trade))
}

// SetItems handles PUT /trades/{trade_id}/items.
func (h *TradeHandler) SetItems(w http.ResponseWriter, r *http.Request) {
	var body setItemsRequest
	if err := ParseJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	items := make([]domain.ItemStack, len(body.Items))
	for i, it := range body.Items {
		items[i] = domain.ItemStack{ID: it.ID, Name: it.Name, Quantity: it.Quantity}
	}

	trade, err := h.tradeSvc.SetTradeItems(chi.URLParam(r, "trade_id"), body.CharacterID, items, body.Coins)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildTradeResponse(trade))
}

// Confirm handles POST /trades/{trade_id}/confirm.
func (h *TradeHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var body characterActionRequest
	if err := ParseJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res, err := h.tradeSvc.Confirm(chi.URLParam(r, "trade_id"), body.CharacterID)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, confirmResponse{
		Trade:     buildTradeResponse(res.Trade),
		Completed: res.Completed,
		Message:   res.Message,
	})
}

// CancelTrade handles DELETE /trades/{trade_id}.
func (h *TradeHandler) CancelTrade(w http.ResponseWriter, r *http.Request) {
	var body characterActionRequest
	if err := ParseJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	trade, err := h.tradeSvc.CancelTrade(chi.URLParam(r, "trade_id"), body.CharacterID)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildTradeResponse(trade))
}

// History handles GET /characters/{character_id}/trades.
func (h *TradeHandler) History(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "character_id")
	limit := parseLimit(r)

	records := h.tradeSvc.History(characterID, limit)
	out := make([]tradeRecordResponse, len(records))
	for i, rec := range records {
		out[i] = tradeRecordResponse{
			TradeID:     rec.TradeID,
			A:           buildParticipantResponse(rec.A),
			B:           buildParticipantResponse(rec.B),
			Status:      string(rec.Status),
			CreatedAt:   formatTime(rec.CreatedAt),
			CompletedAt: formatTime(rec.CompletedAt),
		}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"trades": out})
}

// parseLimit reads the optional limit query parameter. Invalid or
// missing values fall back to the service default.
func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func buildRequestResponse(req *domain.TradeRequest) tradeRequestResponse {
	return tradeRequestResponse{
		RequestID: req.RequestID,
		FromID:    req.FromID,
		FromName:  req.FromName,
		ToID:      req.ToID,
		ToName:    req.ToName,
		Status:    string(req.Status),
		CreatedAt: formatTime(req.CreatedAt),
		ExpiresAt: formatTime(req.ExpiresAt),
	}
}

func buildRequestListResponse(reqs []*domain.TradeRequest) map[string]any {
	out := make([]tradeRequestResponse, len(reqs))
	for i, req := range reqs {
		out[i] = buildRequestResponse(req)
	}
	return map[string]any{"requests": out}
}

func buildParticipantResponse(p domain.Participant) participantResponse {
	items := make([]itemStackBody, len(p.Items))
	for i, it := range p.Items {
		items[i] = itemStackBody{ID: it.ID, Name: it.Name, Quantity: it.Quantity}
	}
	return participantResponse{
		CharacterID: p.CharacterID,
		Name:        p.Name,
		Items:       items,
		Coins:       p.Coins,
		Confirmed:   p.Confirmed,
	}
}

func buildTradeResponse(t *domain.Trade) tradeResponse {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	return tradeResponse{
		TradeID:     t.TradeID,
		RequestID:   t.RequestID,
		A:           buildParticipantResponse(t.A),
		B:           buildParticipantResponse(t.B),
		Status:      string(t.Status),
		CreatedAt:   formatTime(t.CreatedAt),
		ExpiresAt:   formatTime(t.ExpiresAt),
		CompletedAt: formatTimePtr(t.CompletedAt),
		CancelledAt: formatTimePtr(t.CancelledAt),
		CancelledBy: t.CancelledBy,
	}
}
