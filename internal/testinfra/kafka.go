//go:build integration
// +build integration

// Package testinfra starts throwaway containers for integration tests.
package testinfra

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

// KafkaContainer is a single-broker Kafka with a pre-created webhooks topic.
type KafkaContainer struct {
	Container     *kafka.KafkaContainer
	Brokers       []string
	WebhooksTopic string
	WebhooksGroup string
}

// NewKafka starts the broker and creates a uniquely named webhooks topic, so
// parallel test runs on one daemon never share state.
func NewKafka(ctx context.Context) (*KafkaContainer, error) {
	container, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		kafka.WithClusterID("test-cluster"),
	)
	if err != nil {
		return nil, fmt.Errorf("start kafka container: %w", err)
	}

	brokers, err := container.Brokers(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("resolve brokers: %w", err)
	}

	suffix := uuid.New().String()[:8]
	topic := fmt.Sprintf("test-webhooks-%s", suffix)

	// Created up front so the consumer group can subscribe before the first
	// message arrives.
	if err := createTopic(ctx, container, topic, 3); err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("create webhooks topic: %w", err)
	}

	return &KafkaContainer{
		Container:     container,
		Brokers:       brokers,
		WebhooksTopic: topic,
		WebhooksGroup: fmt.Sprintf("test-group-webhooks-%s", suffix),
	}, nil
}

// createTopic retries because the broker accepts connections before it is
// ready for admin operations.
func createTopic(ctx context.Context, c *kafka.KafkaContainer, topic string, partitions int) error {
	const attempts = 20

	var lastErr error
	for i := 0; i < attempts; i++ {
		exitCode, output, err := c.Exec(ctx, []string{
			"kafka-topics",
			"--bootstrap-server", "localhost:9092",
			"--create",
			"--if-not-exists",
			"--topic", topic,
			"--partitions", fmt.Sprintf("%d", partitions),
			"--replication-factor", "1",
		})
		if err == nil && exitCode == 0 {
			return nil
		}

		var out string
		if output != nil {
			b, _ := io.ReadAll(output)
			out = strings.TrimSpace(string(b))
		}
		if err != nil {
			lastErr = fmt.Errorf("exec kafka-topics: %w; output=%q", err, out)
		} else {
			lastErr = fmt.Errorf("kafka-topics exit=%d; output=%q", exitCode, out)
		}

		time.Sleep(250 * time.Millisecond)
	}

	return lastErr
}

func (c *KafkaContainer) Cleanup(ctx context.Context) {
	if c.Container != nil {
		_ = c.Container.Terminate(ctx)
	}
}
