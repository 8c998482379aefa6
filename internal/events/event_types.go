package events

import (
	"time"

	"github.com/spec-kit/content-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCreationStored EventType = "creation_stored"
	EventUsageConsumed  EventType = "usage_consumed"
	EventAccessDenied   EventType = "access_denied"
	EventCreationLiked  EventType = "creation_liked"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// CreationStoredPayload payload.
type CreationStoredPayload struct {
	CreationID string              `json:"creation_id"`
	Type       domain.CreationType `json:"type"`
	Publish    bool                `json:"publish"`
}

// UsageConsumedPayload payload.
type UsageConsumedPayload struct {
	Feature   string `json:"feature"`
	FreeUsage int    `json:"free_usage"`
	Remaining int    `json:"remaining"`
}

// AccessDeniedPayload payload.
type AccessDeniedPayload struct {
	Feature string `json:"feature"`
	Reason  string `json:"reason"`
}

// CreationLikedPayload payload.
type CreationLikedPayload struct {
	CreationID string `json:"creation_id"`
	Liked      bool   `json:"liked"`
}
