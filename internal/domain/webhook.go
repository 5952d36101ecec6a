package domain

import "time"

// Webhook represents a character's subscription to an event notification.
type Webhook struct {
	WebhookID   string
	CharacterID string
	Event       EventType
	URL         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
