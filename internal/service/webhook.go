package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/pixelplaza/tradehall/internal/domain"
	"github.com/pixelplaza/tradehall/internal/store"
)

// Valid webhook event types.
var validWebhookEvents = map[domain.EventType]bool{
	domain.EventTradeCompleted:   true,
	domain.EventTradeCancelled:   true,
	domain.EventAuctionBid:       true,
	domain.EventAuctionCompleted: true,
	domain.EventShopTransaction:  true,
}

// UpsertWebhookRequest represents the input for webhook registration.
type UpsertWebhookRequest struct {
	CharacterID string
	URL         string
	Events      []string
}

// WebhookService handles webhook CRUD and event dispatch. It is an
// EventSink: every published engine event fans out to the subscriptions
// of the characters it concerns.
type WebhookService struct {
	store  *store.WebhookStore
	client *http.Client
}

// NewWebhookService creates a new WebhookService with the given
// delivery timeout.
func NewWebhookService(webhookStore *store.WebhookStore, webhookTimeout time.Duration) *WebhookService {
	return &WebhookService{
		store: webhookStore,
		client: &http.Client{
			Timeout: webhookTimeout,
		},
	}
}

// Upsert validates the request and creates or updates webhook subscriptions.
// Returns the resulting webhooks, whether any new subscriptions were created, and any error.
func (s *WebhookService) Upsert(req UpsertWebhookRequest) ([]*domain.Webhook, bool, error) {
	if req.CharacterID == "" {
		return nil, false, &domain.ValidationError{Message: "character_id is required"}
	}

	// Validate URL.
	if req.URL == "" {
		return nil, false, &domain.ValidationError{Message: "url is required"}
	}
	if len(req.URL) > 2048 {
		return nil, false, &domain.ValidationError{Message: "url must be at most 2048 characters"}
	}
	parsed, err := url.ParseRequestURI(req.URL)
	if err != nil || !parsed.IsAbs() {
		return nil, false, &domain.ValidationError{Message: "url must be a valid absolute URL"}
	}
	if parsed.Scheme != "https" {
		return nil, false, &domain.ValidationError{Message: "url must use https scheme"}
	}

	// Validate events.
	if len(req.Events) == 0 {
		return nil, false, &domain.ValidationError{Message: "events must be a non-empty array"}
	}

	// Deduplicate events while preserving order and validating.
	seen := make(map[domain.EventType]bool, len(req.Events))
	dedupedEvents := make([]domain.EventType, 0, len(req.Events))
	for _, raw := range req.Events {
		event := domain.EventType(raw)
		if !validWebhookEvents[event] {
			return nil, false, &domain.ValidationError{
				Message: "Unknown event type: " + raw + ". Must be one of: trade.completed, trade.cancelled, auction.bid, auction.completed, shop.transaction",
			}
		}
		if !seen[event] {
			seen[event] = true
			dedupedEvents = append(dedupedEvents, event)
		}
	}

	// Upsert each (character_id, event) pair.
	now := time.Now().UTC().Truncate(time.Second)
	anyCreated := false
	webhooks := make([]*domain.Webhook, 0, len(dedupedEvents))

	for _, event := range dedupedEvents {
		w := &domain.Webhook{
			WebhookID:   uuid.New().String(),
			CharacterID: req.CharacterID,
			Event:       event,
			URL:         req.URL,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		created := s.store.Upsert(w)
		if created {
			anyCreated = true
			webhooks = append(webhooks, w)
		} else {
			// Fetch the existing webhook to return it.
			existing := s.store.GetByCharacterEvent(req.CharacterID, event)
			if existing != nil {
				webhooks = append(webhooks, existing)
			}
		}
	}

	return webhooks, anyCreated, nil
}

// List returns all webhook subscriptions for a character.
func (s *WebhookService) List(characterID string) []*domain.Webhook {
	return s.store.ListByCharacter(characterID)
}

// Delete removes a webhook subscription by ID.
func (s *WebhookService) Delete(webhookID string) error {
	return s.store.Delete(webhookID)
}

// eventPayload is the JSON envelope posted to subscriber URLs.
type eventPayload struct {
	Event     string `json:"event"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
}

// Publish delivers an event to every concerned character that holds a
// subscription for its type. Fire-and-forget: delivery runs on its own
// goroutine and errors are silently ignored.
func (s *WebhookService) Publish(evt domain.Event) {
	payload := eventPayload{
		Event:     string(evt.Type),
		Timestamp: evt.At.UTC().Truncate(time.Second).Format(time.RFC3339),
		Data:      evt.Payload,
	}

	delivered := make(map[string]bool, len(evt.CharacterIDs))
	for _, characterID := range evt.CharacterIDs {
		wh := s.store.GetByCharacterEvent(characterID, evt.Type)
		if wh == nil || delivered[wh.WebhookID] {
			continue
		}
		delivered[wh.WebhookID] = true
		go s.deliver(wh, evt.Type, payload)
	}
}

// deliver sends the webhook payload via HTTP POST with the required headers.
// Errors are silently ignored (fire-and-forget).
func (s *WebhookService) deliver(wh *domain.Webhook, eventType domain.EventType, payload eventPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, wh.URL, bytes.NewReader(body))
	if err != nil {
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", uuid.New().String())
	req.Header.Set("X-Webhook-Id", wh.WebhookID)
	req.Header.Set("X-Event-Type", string(eventType))

	resp, err := s.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
