package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port     int    `env:"PORT" envDefault:"8000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Processor credentials are required: a deployed instance must never
	// fall back to placeholder keys.
	StripeSecretKey      string `env:"STRIPE_SECRET_KEY,required"`
	StripePublishableKey string `env:"STRIPE_PUBLISHABLE_KEY,required"`
	StripeWebhookSecret  string `env:"STRIPE_WEBHOOK_SECRET,required"`

	StripeBaseURL    string        `env:"STRIPE_BASE_URL" envDefault:"https://api.stripe.com"`
	ProcessorTimeout time.Duration `env:"PROCESSOR_TIMEOUT" envDefault:"20s"`

	DefaultCurrency string `env:"DEFAULT_CURRENCY" envDefault:"usd"`

	// Webhook dedup store: "postgres" or "memory".
	DedupStore     string        `env:"DEDUP_STORE" envDefault:"memory"`
	DedupRetention time.Duration `env:"DEDUP_RETENTION" envDefault:"72h"`

	PgURL     string `env:"PG_URL"`
	PgPoolMax int    `env:"PG_POOL_MAX" envDefault:"10"`

	// Webhook processing mode: "sync" (dispatch inline) or "kafka" (async).
	WebhookMode string `env:"WEBHOOK_MODE" envDefault:"sync"`

	KafkaBrokers               []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaWebhooksTopic         string   `env:"KAFKA_WEBHOOKS_TOPIC" envDefault:"webhooks.payments"`
	KafkaWebhooksConsumerGroup string   `env:"KAFKA_WEBHOOKS_CONSUMER_GROUP" envDefault:"paymenthub-webhooks"`
}

func New() (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	return c, nil
}
