package app

import (
	"context"

	"paymenthub/config"
	"paymenthub/internal/controller/message"
	"paymenthub/internal/domain/webhook"
	"paymenthub/internal/external/kafka"
	"paymenthub/internal/messaging"
	"paymenthub/pkg/logger"
)

// StartWorkers starts the Kafka consumer for queued webhook events.
// It runs in a separate goroutine and will stop when ctx is cancelled.
func StartWorkers(
	ctx context.Context,
	l *logger.Logger,
	cfg config.Config,
	webhookService *webhook.Service,
) {
	webhookController := message.NewWebhookMessageController(l, webhookService)
	webhookConsumer := kafka.NewConsumer(
		l,
		cfg.KafkaBrokers,
		cfg.KafkaWebhooksTopic,
		cfg.KafkaWebhooksConsumerGroup,
	)
	webhookRunner := messaging.NewRunner(l, []messaging.Worker{webhookConsumer}, webhookController.HandleMessage)

	go func() {
		l.Info("Starting webhook consumer: topic=%s group=%s",
			cfg.KafkaWebhooksTopic, cfg.KafkaWebhooksConsumerGroup)
		if err := webhookRunner.Start(ctx); err != nil {
			l.Error("Webhook runner failed: error=%v", err)
		}
	}()
}
