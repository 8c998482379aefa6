package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/events"
	"github.com/spec-kit/content-service/internal/repository"
	apperrors "github.com/spec-kit/content-service/pkg/errorutil"
)

// CreationService serves the creation feeds and likes.
type CreationService struct {
	creations  repository.CreationRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewCreationService constructs the service. dispatcher and logger may be nil.
func NewCreationService(creations repository.CreationRepository, dispatcher events.Dispatcher, logger *zap.Logger) *CreationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreationService{creations: creations, dispatcher: dispatcher, logger: logger}
}

// ListForUser returns the user's creations, newest first.
func (s *CreationService) ListForUser(ctx context.Context, userID string) ([]domain.Creation, error) {
	items, err := s.creations.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// ListPublished returns every published creation, newest first.
func (s *CreationService) ListPublished(ctx context.Context) ([]domain.Creation, error) {
	items, err := s.creations.ListPublished(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// ToggleLike adds userID to the creation's likes, or removes it when present.
// It reports whether the creation is liked afterwards.
func (s *CreationService) ToggleLike(ctx context.Context, userID, creationID string) (bool, error) {
	creationID = strings.TrimSpace(creationID)
	if creationID == "" {
		return false, apperrors.NewValidationError("id is required")
	}

	creation, err := s.creations.GetByID(ctx, creationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return false, apperrors.NewNotFound("Creation")
		}
		return false, apperrors.MapError(err)
	}

	liked := !creation.LikedBy(userID)
	likes := make([]string, 0, len(creation.Likes)+1)
	for _, id := range creation.Likes {
		if id != userID {
			likes = append(likes, id)
		}
	}
	if liked {
		likes = append(likes, userID)
	}

	if err := s.creations.UpdateLikes(ctx, creation.ID, likes); err != nil {
		return false, apperrors.MapError(err)
	}

	s.publish(ctx, userID, events.CreationLikedPayload{CreationID: creation.ID, Liked: liked})
	return liked, nil
}

func (s *CreationService) publish(ctx context.Context, userID string, payload events.CreationLikedPayload) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventCreationLiked,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event",
			zap.String("type", string(events.EventCreationLiked)),
			zap.String("creation_id", payload.CreationID),
			zap.Error(err))
	}
}
