package webhookevent

import (
	"context"
	"fmt"
	"time"

	"paymenthub/internal/controller/apperror"
	"paymenthub/internal/domain/webhook"
	"paymenthub/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// PgEventRepo records processed webhook event identifiers in Postgres. The
// unique constraint on event_id gives insert-if-absent semantics under
// concurrent deliveries.
type PgEventRepo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

var _ webhook.EventStore = (*PgEventRepo)(nil)

func NewPgEventRepo(db postgres.Executor, builder squirrel.StatementBuilderType) *PgEventRepo {
	return &PgEventRepo{
		db:      db,
		builder: builder,
	}
}

func (r *PgEventRepo) Insert(ctx context.Context, event webhook.StoredEvent) error {
	id := uuid.New().String()

	query, args, err := r.builder.Insert("webhook_events").
		Columns("id", "event_id", "event_type", "received_at").
		Values(id, event.ID, event.Type, event.ReceivedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if postgres.IsPgErrorUniqueViolation(err) {
		return fmt.Errorf("webhook event %s: %w", event.ID, apperror.ErrEventAlreadyStored)
	}
	if err != nil {
		return fmt.Errorf("insert webhook event: %w", err)
	}
	return nil
}

func (r *PgEventRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := r.builder.Delete("webhook_events").
		Where(squirrel.Lt{"received_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge webhook events: %w", err)
	}
	return tag.RowsAffected(), nil
}
