package repositories

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/platform/tx"
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Postgres-backed implementation of the HandlingEventRepository port.
type PostgresHandlingEventRepository struct{ DB *sql.DB }

func NewPostgresHandlingEventRepository(db *sql.DB) *PostgresHandlingEventRepository {
	return &PostgresHandlingEventRepository{DB: db}
}

func (r *PostgresHandlingEventRepository) Store(ctx context.Context, event *domain.HandlingEvent) error {
	err := tx.Conn(ctx, r.DB).QueryRowContext(ctx, `
	INSERT INTO handling_events (
		tracking_id,
		event_type,
		location,
		voyage_number,
		completion_time,
		registration_time
	)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id;
	`,
		event.TrackingID.String(),
		event.Type.String(),
		event.Location.UnLocode.String(),
		nullString(event.Voyage.String()),
		event.CompletionTime,
		event.RegistrationTime,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("store handling event for %s: %w", event.TrackingID, classify(err))
	}
	return nil
}

func (r *PostgresHandlingEventRepository) LookupHandlingHistoryOfCargo(ctx context.Context, id domain.TrackingID) (domain.HandlingHistory, error) {
	rows, err := tx.Conn(ctx, r.DB).QueryContext(ctx, `
	SELECT
		e.id,
		e.event_type,
		e.location,
		l.name,
		e.voyage_number,
		e.completion_time,
		e.registration_time
	FROM handling_events e
	JOIN locations l ON l.unlocode = e.location
	WHERE e.tracking_id = $1
	ORDER BY e.completion_time, e.registration_time, e.id;
	`, id.String())
	if err != nil {
		return domain.EmptyHandlingHistory, fmt.Errorf("lookup handling history of %s: query handling_events table: %w", id, err)
	}
	defer rows.Close()

	events := make([]domain.HandlingEvent, 0, 8)
	for rows.Next() {
		var (
			eventID                  int64
			eventType, code, name    string
			voyage                   sql.NullString
			completion, registration time.Time
		)
		if err := rows.Scan(&eventID, &eventType, &code, &name, &voyage, &completion, &registration); err != nil {
			return domain.EmptyHandlingHistory, fmt.Errorf("lookup handling history of %s: scan row: %w", id, err)
		}
		t, err := domain.ParseHandlingEventType(eventType)
		if err != nil {
			return domain.EmptyHandlingHistory, fmt.Errorf("lookup handling history of %s: event %d: %w", id, eventID, err)
		}
		events = append(events, domain.HandlingEvent{
			ID:               eventID,
			TrackingID:       id,
			Type:             t,
			Location:         domain.Location{UnLocode: domain.UnLocode(code), Name: name},
			Voyage:           domain.VoyageNumber(voyage.String),
			CompletionTime:   completion.UTC(),
			RegistrationTime: registration.UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return domain.EmptyHandlingHistory, fmt.Errorf("lookup handling history of %s: row iteration: %w", id, err)
	}

	return domain.NewHandlingHistory(events...), nil
}
