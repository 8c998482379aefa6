package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/config"
	"github.com/spec-kit/content-service/internal/events"
)

const activityStreamMaxLen = 10000

// StreamAppender appends entries to a named stream.
type StreamAppender interface {
	Append(ctx context.Context, stream string, maxLen int64, values map[string]any) error
}

// ActivityService logs domain events and mirrors them onto a stream for
// downstream consumers.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	stream     StreamAppender
	cfg        config.EventsConfig
}

// NewActivityService creates the service. stream may be nil.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger, stream StreamAppender, cfg config.EventsConfig) *ActivityService {
	return &ActivityService{
		dispatcher: dispatcher,
		logger:     logger,
		stream:     stream,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventCreationStored, a.handleCreationStored)
	a.dispatcher.Subscribe(events.EventUsageConsumed, a.handleUsageConsumed)
	a.dispatcher.Subscribe(events.EventAccessDenied, a.handleAccessDenied)
	a.dispatcher.Subscribe(events.EventCreationLiked, a.handleCreationLiked)
}

func (a *ActivityService) handleCreationStored(ctx context.Context, event events.Event) error {
	a.logger.Info("CreationStored", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return a.appendToStream(ctx, event)
}

func (a *ActivityService) handleUsageConsumed(ctx context.Context, event events.Event) error {
	a.logger.Info("UsageConsumed", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return a.appendToStream(ctx, event)
}

func (a *ActivityService) handleAccessDenied(_ context.Context, event events.Event) error {
	a.logger.Info("AccessDenied", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}

func (a *ActivityService) handleCreationLiked(ctx context.Context, event events.Event) error {
	a.logger.Debug("CreationLiked", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return a.appendToStream(ctx, event)
}

func (a *ActivityService) appendToStream(ctx context.Context, event events.Event) error {
	if a.stream == nil || a.cfg.Stream == "" {
		return nil
	}
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}
	err = a.stream.Append(ctx, a.cfg.Stream, activityStreamMaxLen, map[string]any{
		"id":        event.ID,
		"type":      string(event.Type),
		"user_id":   event.UserID,
		"timestamp": event.Timestamp.UnixMilli(),
		"payload":   string(payload),
	})
	if err != nil {
		a.logger.Warn("append activity stream", zap.String("stream", a.cfg.Stream), zap.Error(err))
	}
	return err
}
