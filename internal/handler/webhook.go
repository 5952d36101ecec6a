package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pixelplaza/tradehall/internal/domain"
	"github.com/pixelplaza/tradehall/internal/service"
)

// WebhookHandler handles HTTP requests for webhook endpoints.
type WebhookHandler struct {
	webhookSvc *service.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(webhookSvc *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookSvc: webhookSvc}
}

// upsertWebhookRequest is the JSON request body for POST /webhooks.
type upsertWebhookRequest struct {
	CharacterID string   `json:"character_id"`
	URL         string   `json:"url"`
	Events      []string `json:"events"`
}

// webhookResponse is a single webhook in the response.
type webhookResponse struct {
	WebhookID   string `json:"webhook_id"`
	CharacterID string `json:"character_id"`
	Event       string `json:"event"`
	URL         string `json:"url"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// webhookListResponse is the JSON response for POST and GET /webhooks.
type webhookListResponse struct {
	Webhooks []webhookResponse `json:"webhooks"`
}

// Upsert handles POST /webhooks.
func (h *WebhookHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertWebhookRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	webhooks, anyCreated, err := h.webhookSvc.Upsert(service.UpsertWebhookRequest{
		CharacterID: req.CharacterID,
		URL:         req.URL,
		Events:      req.Events,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}

	status := http.StatusOK
	if anyCreated {
		status = http.StatusCreated
	}

	WriteJSON(w, status, webhookListResponse{
		Webhooks: buildWebhookResponses(webhooks),
	})
}

// List handles GET /webhooks.
func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	characterID := r.URL.Query().Get("character_id")
	if characterID == "" {
		WriteError(w, http.StatusBadRequest, "validation_error", "character_id query parameter is required")
		return
	}

	WriteJSON(w, http.StatusOK, webhookListResponse{
		Webhooks: buildWebhookResponses(h.webhookSvc.List(characterID)),
	})
}

// Delete handles DELETE /webhooks/{webhook_id}.
func (h *WebhookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	webhookID := chi.URLParam(r, "webhook_id")

	if err := h.webhookSvc.Delete(webhookID); err != nil {
		mapDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// buildWebhookResponses converts domain webhooks to response webhooks.
func buildWebhookResponses(webhooks []*domain.Webhook) []webhookResponse {
	result := make([]webhookResponse, len(webhooks))
	for i, wh := range webhooks {
		result[i] = webhookResponse{
			WebhookID:   wh.WebhookID,
			CharacterID: wh.CharacterID,
			Event:       string(wh.Event),
			URL:         wh.URL,
			CreatedAt:   formatTime(wh.CreatedAt),
			UpdatedAt:   formatTime(wh.UpdatedAt),
		}
	}
	return result
}
