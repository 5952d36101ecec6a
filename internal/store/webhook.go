package store

import (
	"sync"

	"github.com/pixelplaza/tradehall/internal/domain"
)

// WebhookStore is a thread-safe in-memory store for webhooks.
// Primary index: webhook_id → webhook.
// Secondary index: character_id → event → webhook.
type WebhookStore struct {
	mu          sync.RWMutex
	webhooks    map[string]*domain.Webhook
	byCharacter map[string]map[domain.EventType]*domain.Webhook
}

// NewWebhookStore creates an empty WebhookStore.
func NewWebhookStore() *WebhookStore {
	return &WebhookStore{
		webhooks:    make(map[string]*domain.Webhook),
		byCharacter: make(map[string]map[domain.EventType]*domain.Webhook),
	}
}

// Upsert inserts or updates a webhook subscription keyed by
// (character_id, event). If a subscription already exists for that
// pair, the URL and UpdatedAt are updated (the webhook_id remains
// stable). Returns true if a new subscription was created.
func (s *WebhookStore) Upsert(w *domain.Webhook) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if events, ok := s.byCharacter[w.CharacterID]; ok {
		if existing, ok := events[w.Event]; ok {
			if existing.URL != w.URL {
				existing.URL = w.URL
				existing.UpdatedAt = w.UpdatedAt
			}
			return false
		}
	}

	s.webhooks[w.WebhookID] = w

	if s.byCharacter[w.CharacterID] == nil {
		s.byCharacter[w.CharacterID] = make(map[domain.EventType]*domain.Webhook)
	}
	s.byCharacter[w.CharacterID][w.Event] = w

	return true
}

// Get retrieves a webhook by ID. It returns
// domain.ErrWebhookNotFound if the webhook does not exist.
func (s *WebhookStore) Get(id string) (*domain.Webhook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.webhooks[id]
	if !ok {
		return nil, domain.ErrWebhookNotFound
	}
	return w, nil
}

// ListByCharacter returns all webhooks for a character.
// Returns an empty slice if the character has no subscriptions.
func (s *WebhookStore) ListByCharacter(characterID string) []*domain.Webhook {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.byCharacter[characterID]
	if len(events) == 0 {
		return []*domain.Webhook{}
	}

	result := make([]*domain.Webhook, 0, len(events))
	for _, w := range events {
		result = append(result, w)
	}
	return result
}

// Delete removes a webhook by ID. It returns
// domain.ErrWebhookNotFound if the webhook does not exist.
// Both the primary and secondary indexes are cleaned up.
func (s *WebhookStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.webhooks[id]
	if !ok {
		return domain.ErrWebhookNotFound
	}

	delete(s.webhooks, id)

	if events, ok := s.byCharacter[w.CharacterID]; ok {
		delete(events, w.Event)
		if len(events) == 0 {
			delete(s.byCharacter, w.CharacterID)
		}
	}

	return nil
}

// GetByCharacterEvent returns the webhook for a specific
// character+event pair, or nil if no subscription exists.
func (s *WebhookStore) GetByCharacterEvent(characterID string, event domain.EventType) *domain.Webhook {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.byCharacter[characterID]
	if events == nil {
		return nil
	}
	return events[event]
}
