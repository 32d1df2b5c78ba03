package repositories

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/platform/obs"
	"cargo-tracking-service/internal/platform/sentinel"
	"cargo-tracking-service/internal/platform/tx"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Postgres-backed implementation of the CargoRepository port. Writes join the
// transaction carried in ctx, if any.
type PostgresCargoRepository struct {
	DB     *sql.DB
	runner *tx.SQLRunner
}

func NewPostgresCargoRepository(db *sql.DB) *PostgresCargoRepository {
	return &PostgresCargoRepository{DB: db, runner: tx.NewSQLRunner(db)}
}

func (r *PostgresCargoRepository) NextTrackingID() domain.TrackingID {
	return domain.NewTrackingID()
}

const lockCargoQuery = `SELECT tracking_id FROM cargos WHERE tracking_id = $1 FOR UPDATE;`

const cargoQuery = `
	SELECT
		c.tracking_id,
		c.origin, o.name,
		c.spec_origin, so.name,
		c.spec_destination, sd.name,
		c.spec_arrival_deadline,
		c.transport_status,
		c.last_known_location, lk.name,
		c.current_voyage,
		c.misdirected,
		c.eta,
		c.next_activity_type,
		c.next_activity_location, na.name,
		c.next_activity_voyage,
		c.unloaded_at_destination,
		c.routing_status,
		c.calculated_at,
		e.id,
		e.event_type,
		e.location, el.name,
		e.voyage_number,
		e.completion_time,
		e.registration_time
	FROM cargos c
	JOIN locations o ON o.unlocode = c.origin
	JOIN locations so ON so.unlocode = c.spec_origin
	JOIN locations sd ON sd.unlocode = c.spec_destination
	LEFT JOIN locations lk ON lk.unlocode = c.last_known_location
	LEFT JOIN locations na ON na.unlocode = c.next_activity_location
	LEFT JOIN handling_events e ON e.id = c.last_event_id
	LEFT JOIN locations el ON el.unlocode = e.location
	WHERE c.tracking_id = $1;
`

const legsQuery = `
	SELECT
		l.voyage_number,
		l.load_location, ll.name,
		l.unload_location, ul.name,
		l.load_time,
		l.unload_time
	FROM legs l
	JOIN locations ll ON ll.unlocode = l.load_location
	JOIN locations ul ON ul.unlocode = l.unload_location
	WHERE l.tracking_id = $1
	ORDER BY l.leg_index;
`

func (r *PostgresCargoRepository) Find(ctx context.Context, id domain.TrackingID) (_ *domain.Cargo, err error) {
	defer obs.Time(ctx, "cargo.repository.Find")(&err)

	q := tx.Conn(ctx, r.DB)

	// Inside a transaction the row stays locked until commit, so concurrent
	// writers of one cargo are serialized here even if the caller's lock lapsed.
	if _, inTx := tx.From(ctx); inTx {
		var locked string
		err := q.QueryRowContext(ctx, lockCargoQuery, id.String()).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("find cargo %s: %w", id, sentinel.ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("find cargo %s: lock row: %w", id, err)
		}
	}

	var (
		trackingID, originCode, originName                   string
		specOriginCode, specOriginName, specDestCode, specDest string
		deadline, calculatedAt                               time.Time
		transportStatus, routingStatus                       string
		lastKnownCode, lastKnownName, currentVoyage          sql.NullString
		misdirected, unloadedAtDestination                   bool
		eta                                                  sql.NullTime
		nextType, nextCode, nextName, nextVoyage             sql.NullString
		eventID                                              sql.NullInt64
		eventType, eventCode, eventName, eventVoyage         sql.NullString
		eventCompletion, eventRegistration                   sql.NullTime
	)
	err = q.QueryRowContext(ctx, cargoQuery, id.String()).Scan(
		&trackingID,
		&originCode, &originName,
		&specOriginCode, &specOriginName,
		&specDestCode, &specDest,
		&deadline,
		&transportStatus,
		&lastKnownCode, &lastKnownName,
		&currentVoyage,
		&misdirected,
		&eta,
		&nextType,
		&nextCode, &nextName,
		&nextVoyage,
		&unloadedAtDestination,
		&routingStatus,
		&calculatedAt,
		&eventID,
		&eventType,
		&eventCode, &eventName,
		&eventVoyage,
		&eventCompletion,
		&eventRegistration,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find cargo %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find cargo %s: %w", id, err)
	}

	itinerary, err := r.loadItinerary(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("find cargo %s: %w", id, err)
	}

	spec := domain.RouteSpecification{
		Origin:          domain.Location{UnLocode: domain.UnLocode(specOriginCode), Name: specOriginName},
		Destination:     domain.Location{UnLocode: domain.UnLocode(specDestCode), Name: specDest},
		ArrivalDeadline: deadline.UTC(),
	}

	ts, err := domain.ParseTransportStatus(transportStatus)
	if err != nil {
		return nil, fmt.Errorf("find cargo %s: %w", id, err)
	}
	rs, err := domain.ParseRoutingStatus(routingStatus)
	if err != nil {
		return nil, fmt.Errorf("find cargo %s: %w", id, err)
	}

	delivery := domain.Delivery{
		TransportStatus:       ts,
		LastKnownLocation:     nullLocation(lastKnownCode, lastKnownName),
		CurrentVoyage:         domain.VoyageNumber(currentVoyage.String),
		Misdirected:           misdirected,
		UnloadedAtDestination: unloadedAtDestination,
		RoutingStatus:         rs,
		CalculatedAt:          calculatedAt.UTC(),
	}
	if eta.Valid {
		delivery.ETA = eta.Time.UTC()
	}
	if nextType.Valid {
		t, err := domain.ParseHandlingEventType(nextType.String)
		if err != nil {
			return nil, fmt.Errorf("find cargo %s: next activity: %w", id, err)
		}
		delivery.NextExpectedActivity = domain.HandlingActivity{
			Type:     t,
			Location: nullLocation(nextCode, nextName),
			Voyage:   domain.VoyageNumber(nextVoyage.String),
		}
	}
	if eventID.Valid {
		t, err := domain.ParseHandlingEventType(eventType.String)
		if err != nil {
			return nil, fmt.Errorf("find cargo %s: last event: %w", id, err)
		}
		delivery.LastEvent = &domain.HandlingEvent{
			ID:               eventID.Int64,
			TrackingID:       id,
			Type:             t,
			Location:         nullLocation(eventCode, eventName),
			Voyage:           domain.VoyageNumber(eventVoyage.String),
			CompletionTime:   eventCompletion.Time.UTC(),
			RegistrationTime: eventRegistration.Time.UTC(),
		}
	}

	origin := domain.Location{UnLocode: domain.UnLocode(originCode), Name: originName}
	return domain.RestoreCargo(domain.TrackingID(trackingID), origin, spec, itinerary, delivery), nil
}

func (r *PostgresCargoRepository) loadItinerary(ctx context.Context, q tx.Querier, id domain.TrackingID) (domain.Itinerary, error) {
	rows, err := q.QueryContext(ctx, legsQuery, id.String())
	if err != nil {
		return domain.EmptyItinerary, fmt.Errorf("query legs table: %w", err)
	}
	defer rows.Close()

	var legs []domain.Leg
	for rows.Next() {
		var (
			voyage, loadCode, loadName, unloadCode, unloadName string
			loadTime, unloadTime                               time.Time
		)
		if err := rows.Scan(&voyage, &loadCode, &loadName, &unloadCode, &unloadName, &loadTime, &unloadTime); err != nil {
			return domain.EmptyItinerary, fmt.Errorf("scan leg: %w", err)
		}
		legs = append(legs, domain.Leg{
			Voyage:         domain.VoyageNumber(voyage),
			LoadLocation:   domain.Location{UnLocode: domain.UnLocode(loadCode), Name: loadName},
			UnloadLocation: domain.Location{UnLocode: domain.UnLocode(unloadCode), Name: unloadName},
			LoadTime:       loadTime.UTC(),
			UnloadTime:     unloadTime.UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return domain.EmptyItinerary, fmt.Errorf("leg iteration: %w", err)
	}
	if len(legs) == 0 {
		return domain.EmptyItinerary, nil
	}
	return domain.NewItinerary(legs...)
}

// Return every cargo ordered by tracking id.
func (r *PostgresCargoRepository) FindAll(ctx context.Context) ([]*domain.Cargo, error) {
	rows, err := tx.Conn(ctx, r.DB).QueryContext(ctx, `SELECT tracking_id FROM cargos ORDER BY tracking_id;`)
	if err != nil {
		return nil, fmt.Errorf("list cargos: query cargos table: %w", err)
	}
	ids := make([]domain.TrackingID, 0, 16)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("list cargos: scan row: %w", err)
		}
		ids = append(ids, domain.TrackingID(id))
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list cargos: row iteration: %w", err)
	}
	rows.Close()

	out := make([]*domain.Cargo, 0, len(ids))
	for _, id := range ids {
		c, err := r.Find(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("list cargos: %w", err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Store upserts the cargo row and replaces its legs.
func (r *PostgresCargoRepository) Store(ctx context.Context, cargo *domain.Cargo) (err error) {
	defer obs.Time(ctx, "cargo.repository.Store")(&err)

	return r.runner.RunInTx(ctx, func(ctx context.Context) error {
		q := tx.Conn(ctx, r.DB)
		spec := cargo.RouteSpecification()
		d := cargo.Delivery()

		var eta sql.NullTime
		if t, ok := d.EstimatedTimeOfArrival(); ok {
			eta = sql.NullTime{Time: t, Valid: true}
		}
		var nextType, nextLocation, nextVoyage sql.NullString
		if !d.NextExpectedActivity.IsEmpty() {
			nextType = nullString(d.NextExpectedActivity.Type.String())
			nextLocation = nullString(d.NextExpectedActivity.Location.UnLocode.String())
			nextVoyage = nullString(d.NextExpectedActivity.Voyage.String())
		}
		var lastEventID sql.NullInt64
		if d.LastEvent != nil && d.LastEvent.ID != 0 {
			lastEventID = sql.NullInt64{Int64: d.LastEvent.ID, Valid: true}
		}

		_, err := q.ExecContext(ctx, `
		INSERT INTO cargos (
			tracking_id,
			origin,
			spec_origin,
			spec_destination,
			spec_arrival_deadline,
			transport_status,
			last_known_location,
			current_voyage,
			misdirected,
			eta,
			next_activity_type,
			next_activity_location,
			next_activity_voyage,
			unloaded_at_destination,
			routing_status,
			calculated_at,
			last_event_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (tracking_id) DO UPDATE SET
			spec_origin = EXCLUDED.spec_origin,
			spec_destination = EXCLUDED.spec_destination,
			spec_arrival_deadline = EXCLUDED.spec_arrival_deadline,
			transport_status = EXCLUDED.transport_status,
			last_known_location = EXCLUDED.last_known_location,
			current_voyage = EXCLUDED.current_voyage,
			misdirected = EXCLUDED.misdirected,
			eta = EXCLUDED.eta,
			next_activity_type = EXCLUDED.next_activity_type,
			next_activity_location = EXCLUDED.next_activity_location,
			next_activity_voyage = EXCLUDED.next_activity_voyage,
			unloaded_at_destination = EXCLUDED.unloaded_at_destination,
			routing_status = EXCLUDED.routing_status,
			calculated_at = EXCLUDED.calculated_at,
			last_event_id = EXCLUDED.last_event_id;
		`,
			cargo.TrackingID().String(),
			cargo.Origin().UnLocode.String(),
			spec.Origin.UnLocode.String(),
			spec.Destination.UnLocode.String(),
			spec.ArrivalDeadline,
			string(d.TransportStatus),
			nullString(d.LastKnownLocation.UnLocode.String()),
			nullString(d.CurrentVoyage.String()),
			d.Misdirected,
			eta,
			nextType,
			nextLocation,
			nextVoyage,
			d.UnloadedAtDestination,
			string(d.RoutingStatus),
			d.CalculatedAt,
			lastEventID,
		)
		if err != nil {
			return fmt.Errorf("store cargo %s: upsert cargo: %w", cargo.TrackingID(), classify(err))
		}

		if _, err := q.ExecContext(ctx, `DELETE FROM legs WHERE tracking_id = $1;`, cargo.TrackingID().String()); err != nil {
			return fmt.Errorf("store cargo %s: clear legs: %w", cargo.TrackingID(), err)
		}
		for i, leg := range cargo.Itinerary().Legs() {
			_, err := q.ExecContext(ctx, `
			INSERT INTO legs (
				tracking_id,
				leg_index,
				voyage_number,
				load_location,
				unload_location,
				load_time,
				unload_time
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7);
			`, cargo.TrackingID().String(), i, leg.Voyage.String(),
				leg.LoadLocation.UnLocode.String(), leg.UnloadLocation.UnLocode.String(),
				leg.LoadTime, leg.UnloadTime)
			if err != nil {
				return fmt.Errorf("store cargo %s: insert leg %d: %w", cargo.TrackingID(), i+1, classify(err))
			}
		}
		return nil
	})
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullLocation(code, name sql.NullString) domain.Location {
	if !code.Valid {
		return domain.UnknownLocation
	}
	return domain.Location{UnLocode: domain.UnLocode(code.String), Name: name.String}
}
