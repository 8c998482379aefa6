package dto

import (
	"time"

	"github.com/spec-kit/content-service/internal/domain"
)

// ToggleLikeRequest payload.
type ToggleLikeRequest struct {
	ID string `json:"id" form:"id"`
}

// CreationResponse is one creation as returned to clients.
type CreationResponse struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	Prompt    string              `json:"prompt"`
	Content   string              `json:"content"`
	Type      domain.CreationType `json:"type"`
	Publish   bool                `json:"publish"`
	Likes     []string            `json:"likes"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CreationsResponse wraps a creation list.
type CreationsResponse struct {
	Success   bool               `json:"success"`
	Creations []CreationResponse `json:"creations"`
}

// NewCreationResponse maps a domain creation.
func NewCreationResponse(c domain.Creation) CreationResponse {
	likes := c.Likes
	if likes == nil {
		likes = []string{}
	}
	return CreationResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Prompt:    c.Prompt,
		Content:   c.Content,
		Type:      c.Type,
		Publish:   c.Publish,
		Likes:     likes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
