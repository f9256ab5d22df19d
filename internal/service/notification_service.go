package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fmht/buzon-service/internal/config"
	"github.com/fmht/buzon-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
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
	n.dispatcher.Subscribe(events.EventCommunicationCreated, n.handleCommunicationCreated)
	n.dispatcher.Subscribe(events.EventTrackingCreated, n.handleTrackingCreated)
	n.dispatcher.Subscribe(events.EventTrackingUpdated, n.handleTrackingUpdated)
	n.dispatcher.Subscribe(events.EventEvidenceAttached, n.handleEvidenceAttached)
}

func (n *NotificationService) handleCommunicationCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("CommunicationCreated", zap.Int64("communication_id", event.CommunicationID), zap.Any("payload", event.Payload))
	if p, ok := event.Payload.(events.CommunicationCreatedPayload); ok && p.SubmitterID != nil {
		n.sendEmailNotificationStub(ctx, event)
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTrackingCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("TrackingCreated", zap.Int64("communication_id", event.CommunicationID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTrackingUpdated(ctx context.Context, event events.Event) error {
	n.logger.Info("TrackingUpdated", zap.Int64("communication_id", event.CommunicationID), zap.Any("payload", event.Payload))
	if p, ok := event.Payload.(events.TrackingUpdatedPayload); ok && !sameAssignee(p.OldAssignedAdminID, p.NewAssignedAdminID) {
		n.sendEmailNotificationStub(ctx, event)
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleEvidenceAttached(ctx context.Context, event events.Event) error {
	n.logger.Info("EvidenceAttached", zap.Int64("communication_id", event.CommunicationID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("communication_id", event.CommunicationID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("communication_id", event.CommunicationID),
		zap.String("event_type", string(event.Type)))
}

func sameAssignee(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
