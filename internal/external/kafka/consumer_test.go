package kafka

import (
	"context"
	"testing"

	"paymenthub/pkg/correlation"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestMessageContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("should carry the correlation header into the context", func(t *testing.T) {
		msg := kafka.Message{
			Headers: []kafka.Header{
				{Key: "Content-Type", Value: []byte("application/json")},
				{Key: correlation.KafkaHeaderName, Value: []byte("corr-123")},
			},
		}

		assert.Equal(t, "corr-123", correlation.FromContext(messageContext(ctx, msg)))
	})

	t.Run("should leave the context untouched without the header", func(t *testing.T) {
		msg := kafka.Message{
			Headers: []kafka.Header{
				{Key: "Content-Type", Value: []byte("application/json")},
			},
		}

		assert.Empty(t, correlation.FromContext(messageContext(ctx, msg)))
	})

	t.Run("should ignore an empty header value", func(t *testing.T) {
		msg := kafka.Message{
			Headers: []kafka.Header{
				{Key: correlation.KafkaHeaderName, Value: nil},
			},
		}

		assert.Empty(t, correlation.FromContext(messageContext(ctx, msg)))
	})
}
