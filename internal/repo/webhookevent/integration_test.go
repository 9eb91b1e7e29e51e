//go:build integration
// +build integration

package webhookevent_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"paymenthub/internal/app"
	"paymenthub/internal/controller/apperror"
	"paymenthub/internal/domain/webhook"
	"paymenthub/internal/repo/webhookevent"
	"paymenthub/pkg/postgres"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var pool *postgres.Postgres

func TestMain(m *testing.M) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image: "postgres:13",
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "secret",
			"POSTGRES_DB":       "paymenthub_test",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres",
			func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://postgres:secret@%s:%s/paymenthub_test?sslmode=disable", host, port.Port())
			},
		).WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		},
	)
	if err != nil {
		panic(err)
	}

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres:secret@%s:%s/paymenthub_test?sslmode=disable", host, port.Port())

	pool, err = postgres.New(dsn, postgres.MaxPoolSize(10))
	if err != nil {
		panic(fmt.Sprintf("Failed to create postgres pool: %v", err))
	}

	err = app.ApplyMigrations(dsn, app.MIGRATION_FS)
	if err != nil {
		panic(fmt.Sprintf("Failed to apply migrations: %v", err))
	}

	code := m.Run()

	pool.Close()
	_ = container.Terminate(ctx)

	os.Exit(code)
}

func TestPgEventRepo_InsertAndPurge(t *testing.T) {
	ctx := context.Background()
	repo := webhookevent.NewPgEventRepo(pool.Pool, pool.Builder)

	t.Run("should enforce insert-if-absent on event_id", func(t *testing.T) {
		event := webhook.StoredEvent{
			ID:         "evt_int_1",
			Type:       webhook.EventPaymentSucceeded,
			ReceivedAt: time.Now().UTC(),
		}

		require.NoError(t, repo.Insert(ctx, event))
		assert.ErrorIs(t, repo.Insert(ctx, event), apperror.ErrEventAlreadyStored)
	})

	t.Run("should admit one of two concurrent inserts", func(t *testing.T) {
		event := webhook.StoredEvent{
			ID:         "evt_int_race",
			Type:       webhook.EventPaymentFailed,
			ReceivedAt: time.Now().UTC(),
		}

		errs := make(chan error, 2)
		for i := 0; i < 2; i++ {
			go func() {
				errs <- repo.Insert(ctx, event)
			}()
		}

		var admitted, rejected int
		for i := 0; i < 2; i++ {
			if err := <-errs; err == nil {
				admitted++
			} else {
				assert.ErrorIs(t, err, apperror.ErrEventAlreadyStored)
				rejected++
			}
		}
		assert.Equal(t, 1, admitted)
		assert.Equal(t, 1, rejected)
	})

	t.Run("should purge only markers before the cutoff", func(t *testing.T) {
		now := time.Now().UTC()
		require.NoError(t, repo.Insert(ctx, webhook.StoredEvent{
			ID:         "evt_int_old",
			Type:       webhook.EventPaymentSucceeded,
			ReceivedAt: now.Add(-96 * time.Hour),
		}))

		purged, err := repo.PurgeOlderThan(ctx, now.Add(-72*time.Hour))

		require.NoError(t, err)
		assert.Equal(t, int64(1), purged)

		// Purged identifiers may be stored again.
		assert.NoError(t, repo.Insert(ctx, webhook.StoredEvent{
			ID:         "evt_int_old",
			Type:       webhook.EventPaymentSucceeded,
			ReceivedAt: now,
		}))
	})
}
