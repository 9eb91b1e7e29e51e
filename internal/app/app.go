package app

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"paymenthub/config"
	router "paymenthub/internal/controller/http"
	"paymenthub/internal/controller/http/handlers"
	"paymenthub/internal/domain/customer"
	"paymenthub/internal/domain/payment"
	"paymenthub/internal/domain/webhook"
	"paymenthub/internal/external/kafka"
	"paymenthub/internal/external/stripe"
	"paymenthub/internal/repo/webhookevent"
	"paymenthub/pkg/health"
	"paymenthub/pkg/logger"
	"paymenthub/pkg/postgres"
)

//go:embed migrations/*.sql
var MIGRATION_FS embed.FS

const (
	dedupSweepInterval = time.Hour
	shutdownTimeout    = 10 * time.Second
)

func Run(cfg config.Config) {
	l := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := NewGinEngine(l)

	stripeClient := stripe.New(cfg.StripeBaseURL, cfg.StripeSecretKey, &http.Client{Timeout: cfg.ProcessorTimeout})
	verifier := stripe.NewWebhookVerifier(cfg.StripeWebhookSecret)

	paymentService := payment.NewService(stripeClient, cfg.DefaultCurrency, l)
	customerService := customer.NewService(stripeClient, l)

	var checkers []health.Checker

	var store webhook.EventStore
	switch cfg.DedupStore {
	case "postgres":
		pg, err := postgres.New(cfg.PgURL, postgres.MaxPoolSize(cfg.PgPoolMax))
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
		}
		defer pg.Close()

		if err = ApplyMigrations(cfg.PgURL, MIGRATION_FS); err != nil {
			l.Fatal(fmt.Errorf("app - Run - ApplyMigrations: %w", err))
		}

		store = webhookevent.NewPgEventRepo(pg.Pool, pg.Builder)
		checkers = append(checkers, health.NewPostgresChecker(pg.Pool))
	case "memory":
		store = webhookevent.NewMemoryStore()
	default:
		l.Fatal(fmt.Errorf("app - Run - unknown dedup store: %q", cfg.DedupStore))
	}

	webhookService := webhook.NewService(verifier, store, l)
	webhookService.Register(webhook.EventPaymentSucceeded, func(ctx context.Context, event webhook.Event) error {
		intent, err := event.PaymentIntent()
		if err != nil {
			return err
		}
		return paymentService.HandlePaymentSucceeded(ctx, intent)
	})
	webhookService.Register(webhook.EventPaymentFailed, func(ctx context.Context, event webhook.Event) error {
		intent, err := event.PaymentIntent()
		if err != nil {
			return err
		}
		return paymentService.HandlePaymentFailed(ctx, intent)
	})
	webhookService.StartRetentionSweep(ctx, cfg.DedupRetention, dedupSweepInterval)

	var dispatcher webhook.Dispatcher
	switch cfg.WebhookMode {
	case "kafka":
		publisher := kafka.NewPublisher(l, cfg.KafkaBrokers, cfg.KafkaWebhooksTopic)
		defer publisher.Close()

		dispatcher = webhook.NewAsyncDispatcher(publisher)
		checkers = append(checkers, health.NewKafkaChecker(cfg.KafkaBrokers))

		StartWorkers(ctx, l, cfg, webhookService)
	case "sync":
		dispatcher = webhook.NewSyncDispatcher(webhookService)
	default:
		l.Fatal(fmt.Errorf("app - Run - unknown webhook mode: %q", cfg.WebhookMode))
	}

	paymentHandler := handlers.NewPaymentHandler(paymentService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	webhookHandler := handlers.NewWebhookHandler(webhookService, dispatcher)

	r := router.NewRouter(paymentHandler, customerHandler, webhookHandler, health.NewRegistry(checkers...))
	r.SetUp(engine)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	go func() {
		l.Info("HTTP server listening: addr=%s webhook_mode=%s dedup_store=%s",
			server.Addr, cfg.WebhookMode, cfg.DedupStore)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Error("HTTP server failed: error=%v", err)
			stop()
		}
	}()

	<-ctx.Done()
	l.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Error("HTTP server shutdown failed: error=%v", err)
	}
}
