package messaging

import (
	"cargo-tracking-service/internal/platform/clock"
	"cargo-tracking-service/internal/platform/logger"
	"cargo-tracking-service/internal/platform/metrics"
	"cargo-tracking-service/internal/platform/obs"
	"cargo-tracking-service/internal/platform/tx"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OutboxRecord struct {
	ID        uuid.UUID
	Message   Message
	CreatedAt time.Time
}

// OutboxStore persists messages alongside the state change that caused them.
type OutboxStore interface {
	Enqueue(ctx context.Context, rec OutboxRecord) error
	// Pending returns up to limit unpublished records, oldest first.
	Pending(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// PostgresOutbox writes through the transaction in ctx when there is one.
type PostgresOutbox struct{ DB *sql.DB }

func NewPostgresOutbox(db *sql.DB) *PostgresOutbox {
	return &PostgresOutbox{DB: db}
}

func (o *PostgresOutbox) Enqueue(ctx context.Context, rec OutboxRecord) error {
	_, err := tx.Conn(ctx, o.DB).ExecContext(ctx, `
	INSERT INTO outbox (id, topic, message_key, payload, created_at)
	VALUES ($1, $2, $3, $4, $5);
	`, rec.ID.String(), rec.Message.Topic, rec.Message.Key, rec.Message.Value, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("enqueue outbox %s: %w", rec.Message.Topic, err)
	}
	return nil
}

func (o *PostgresOutbox) Pending(ctx context.Context, limit int) ([]OutboxRecord, error) {
	rows, err := tx.Conn(ctx, o.DB).QueryContext(ctx, `
	SELECT id::text, topic, message_key, payload, created_at
	FROM outbox
	WHERE published_at IS NULL
	ORDER BY created_at, id
	LIMIT $1;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("pending outbox: query: %w", err)
	}
	defer rows.Close()

	var out []OutboxRecord
	for rows.Next() {
		var (
			rawID string
			rec   OutboxRecord
		)
		if err := rows.Scan(&rawID, &rec.Message.Topic, &rec.Message.Key, &rec.Message.Value, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("pending outbox: scan: %w", err)
		}
		if rec.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("pending outbox: id %q: %w", rawID, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pending outbox: row iteration: %w", err)
	}
	return out, nil
}

func (o *PostgresOutbox) MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}
	_, err := tx.Conn(ctx, o.DB).ExecContext(ctx, `
	UPDATE outbox SET published_at = $1
	WHERE id::text = ANY($2::text[]);
	`, at, raw)
	if err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}

// OutboxWriter is a Publisher that only records the message. The relay
// delivers it after the surrounding transaction commits.
type OutboxWriter struct {
	store OutboxStore
	clock clock.Clock
}

func NewOutboxWriter(store OutboxStore, clk clock.Clock) *OutboxWriter {
	return &OutboxWriter{store: store, clock: clk}
}

func (w *OutboxWriter) Publish(ctx context.Context, msg Message) error {
	return w.store.Enqueue(ctx, OutboxRecord{ID: uuid.New(), Message: msg, CreatedAt: w.clock.Now()})
}

const defaultRelayBatch = 100

// OutboxRelay moves committed outbox records to the broker. Delivery is
// at-least-once: a crash between publish and mark repeats the message.
type OutboxRelay struct {
	store    OutboxStore
	pub      Publisher
	clock    clock.Clock
	interval time.Duration
	batch    int
}

func NewOutboxRelay(store OutboxStore, pub Publisher, clk clock.Clock, interval time.Duration) *OutboxRelay {
	return &OutboxRelay{store: store, pub: pub, clock: clk, interval: interval, batch: defaultRelayBatch}
}

func (r *OutboxRelay) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.RelayOnce(ctx); err != nil && ctx.Err() == nil {
			log.Warn("outbox relay pass failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RelayOnce publishes one batch in order and stops at the first failure so
// later messages never overtake an earlier one.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (_ int, err error) {
	defer obs.Time(ctx, "outbox.RelayOnce")(&err)

	pending, err := r.store.Pending(ctx, r.batch)
	if err != nil {
		return 0, err
	}
	metrics.OutboxPending.Set(float64(len(pending)))
	if len(pending) == 0 {
		return 0, nil
	}

	sent := make([]uuid.UUID, 0, len(pending))
	var pubErr error
	for _, rec := range pending {
		if pubErr = r.pub.Publish(ctx, rec.Message); pubErr != nil {
			break
		}
		sent = append(sent, rec.ID)
	}

	if err := r.store.MarkPublished(ctx, sent, r.clock.Now()); err != nil {
		return 0, err
	}
	metrics.OutboxPending.Set(float64(len(pending) - len(sent)))
	if pubErr != nil {
		return len(sent), fmt.Errorf("outbox relay: %w", pubErr)
	}
	return len(sent), nil
}
