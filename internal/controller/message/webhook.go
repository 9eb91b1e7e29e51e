package message

import (
	"context"
	"encoding/json"
	"fmt"

	"paymenthub/internal/domain/webhook"
	"paymenthub/internal/messaging"
	"paymenthub/pkg/logger"
)

// WebhookMessageController dispatches queued webhook events consumed from
// Kafka.
type WebhookMessageController struct {
	logger  logger.Interface
	service *webhook.Service
}

// NewWebhookMessageController creates a new webhook message controller.
func NewWebhookMessageController(l logger.Interface, s *webhook.Service) *WebhookMessageController {
	return &WebhookMessageController{
		logger:  l,
		service: s,
	}
}

// HandleMessage processes a single queued webhook event. Duplicates are a
// normal outcome, not an error; a handler failure leaves the message
// uncommitted for redelivery.
func (c *WebhookMessageController) HandleMessage(ctx context.Context, key, value []byte) error {
	var env messaging.Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		c.logger.Error("Failed to unmarshal envelope: key=%s error=%v", string(key), err)
		return fmt.Errorf("unmarshal envelope: %w", err)
	}

	var event webhook.Event
	if err := json.Unmarshal(env.Payload, &event); err != nil {
		c.logger.Error("Failed to unmarshal webhook event: event_id=%s error=%v", env.EventID, err)
		return fmt.Errorf("unmarshal webhook event: %w", err)
	}

	outcome, err := c.service.Dispatch(ctx, event)
	if err != nil {
		c.logger.Error("Failed to dispatch webhook event: event_id=%s type=%s error=%v",
			event.ID, event.Type, err)
		return err
	}

	c.logger.Info("Webhook event dispatched: event_id=%s type=%s duplicate=%t handled=%t",
		event.ID, event.Type, outcome.Duplicate, outcome.Handled)

	return nil
}
