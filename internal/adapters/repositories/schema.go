package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema. Statements are idempotent.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createLocationsQuery := `
	CREATE TABLE IF NOT EXISTS locations (
		unlocode TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);
	`

	createVoyagesQuery := `
	CREATE TABLE IF NOT EXISTS voyages (
		voyage_number TEXT PRIMARY KEY
	);
	`

	createCarrierMovementsQuery := `
	CREATE TABLE IF NOT EXISTS carrier_movements (
		voyage_number TEXT NOT NULL REFERENCES voyages(voyage_number) ON DELETE CASCADE,
		movement_index INTEGER NOT NULL,
		departure_location TEXT NOT NULL REFERENCES locations(unlocode),
		arrival_location TEXT NOT NULL REFERENCES locations(unlocode),
		departure_time TIMESTAMPTZ NOT NULL,
		arrival_time TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (voyage_number, movement_index)
	);
	`

	createCargosQuery := `
	CREATE TABLE IF NOT EXISTS cargos (
		tracking_id TEXT PRIMARY KEY,
		origin TEXT NOT NULL REFERENCES locations(unlocode),
		spec_origin TEXT NOT NULL REFERENCES locations(unlocode),
		spec_destination TEXT NOT NULL REFERENCES locations(unlocode),
		spec_arrival_deadline TIMESTAMPTZ NOT NULL,
		transport_status TEXT NOT NULL,
		last_known_location TEXT NULL REFERENCES locations(unlocode),
		current_voyage TEXT NULL,
		misdirected BOOLEAN NOT NULL,
		eta TIMESTAMPTZ NULL,
		next_activity_type TEXT NULL,
		next_activity_location TEXT NULL REFERENCES locations(unlocode),
		next_activity_voyage TEXT NULL,
		unloaded_at_destination BOOLEAN NOT NULL,
		routing_status TEXT NOT NULL,
		calculated_at TIMESTAMPTZ NOT NULL,
		last_event_id BIGINT NULL
	);
	`

	createLegsQuery := `
	CREATE TABLE IF NOT EXISTS legs (
		tracking_id TEXT NOT NULL REFERENCES cargos(tracking_id) ON DELETE CASCADE,
		leg_index INTEGER NOT NULL,
		voyage_number TEXT NOT NULL REFERENCES voyages(voyage_number),
		load_location TEXT NOT NULL REFERENCES locations(unlocode),
		unload_location TEXT NOT NULL REFERENCES locations(unlocode),
		load_time TIMESTAMPTZ NOT NULL,
		unload_time TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (tracking_id, leg_index)
	);
	`

	createHandlingEventsQuery := `
	CREATE TABLE IF NOT EXISTS handling_events (
		id BIGSERIAL PRIMARY KEY,
		tracking_id TEXT NOT NULL REFERENCES cargos(tracking_id),
		event_type TEXT NOT NULL,
		location TEXT NOT NULL REFERENCES locations(unlocode),
		voyage_number TEXT NULL REFERENCES voyages(voyage_number),
		completion_time TIMESTAMPTZ NOT NULL,
		registration_time TIMESTAMPTZ NOT NULL
	);
	`

	createHandlingEventsIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_handling_events_tracking_completion
	ON handling_events(tracking_id, completion_time);
	`

	createOutboxQuery := `
	CREATE TABLE IF NOT EXISTS outbox (
		id UUID PRIMARY KEY,
		topic TEXT NOT NULL,
		message_key TEXT NOT NULL,
		payload BYTEA NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		published_at TIMESTAMPTZ NULL
	);
	`

	createOutboxIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_outbox_unpublished
	ON outbox(created_at) WHERE published_at IS NULL;
	`

	statements := []string{
		createLocationsQuery,
		createVoyagesQuery,
		createCarrierMovementsQuery,
		createCargosQuery,
		createLegsQuery,
		createHandlingEventsQuery,
		createHandlingEventsIndexQuery,
		createOutboxQuery,
		createOutboxIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
