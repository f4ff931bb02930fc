package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventProductCreated, n.handleProductChanged)
	n.dispatcher.Subscribe(events.EventProductUpdated, n.handleProductChanged)
	n.dispatcher.Subscribe(events.EventProductDeleted, n.handleProductChanged)
	n.dispatcher.Subscribe(events.EventFavoriteAdded, n.handleFavoriteToggled)
	n.dispatcher.Subscribe(events.EventFavoriteRemoved, n.handleFavoriteToggled)
}

func (n *NotificationService) handleProductChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("catalog event",
		zap.String("event_type", string(event.Type)),
		zap.String("product_id", event.ProductID),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleFavoriteToggled(ctx context.Context, event events.Event) error {
	n.logger.Info("favorite event",
		zap.String("event_type", string(event.Type)),
		zap.String("product_id", event.ProductID),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("product_id", event.ProductID),
		zap.String("event_type", string(event.Type)))
}
