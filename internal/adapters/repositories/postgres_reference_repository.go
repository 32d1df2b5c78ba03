package repositories

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/platform/sentinel"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the LocationRepository port.
type PostgresLocationRepository struct{ DB *sql.DB }

func NewPostgresLocationRepository(db *sql.DB) *PostgresLocationRepository {
	return &PostgresLocationRepository{DB: db}
}

func (r *PostgresLocationRepository) Find(ctx context.Context, code domain.UnLocode) (domain.Location, error) {
	var name string
	err := r.DB.QueryRowContext(ctx, `SELECT name FROM locations WHERE unlocode = $1;`, code.String()).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UnknownLocation, fmt.Errorf("find location %s: %w", code, sentinel.ErrNotFound)
	}
	if err != nil {
		return domain.UnknownLocation, fmt.Errorf("find location %s: %w", code, err)
	}
	return domain.Location{UnLocode: code, Name: name}, nil
}

// Return all locations ordered by code.
func (r *PostgresLocationRepository) FindAll(ctx context.Context) ([]domain.Location, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT unlocode, name FROM locations ORDER BY unlocode;`)
	if err != nil {
		return nil, fmt.Errorf("list locations: query locations table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Location, 0, 16)
	for rows.Next() {
		var code, name string
		if err := rows.Scan(&code, &name); err != nil {
			return nil, fmt.Errorf("list locations: scan row: %w", err)
		}
		out = append(out, domain.Location{UnLocode: domain.UnLocode(code), Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations: row iteration: %w", err)
	}
	return out, nil
}

// Postgres-backed implementation of the VoyageRepository port.
type PostgresVoyageRepository struct{ DB *sql.DB }

func NewPostgresVoyageRepository(db *sql.DB) *PostgresVoyageRepository {
	return &PostgresVoyageRepository{DB: db}
}

const movementsQuery = `
	SELECT
		m.voyage_number,
		m.departure_location,
		dl.name,
		m.arrival_location,
		al.name,
		m.departure_time,
		m.arrival_time
	FROM carrier_movements m
	JOIN locations dl ON dl.unlocode = m.departure_location
	JOIN locations al ON al.unlocode = m.arrival_location
`

func (r *PostgresVoyageRepository) Find(ctx context.Context, number domain.VoyageNumber) (domain.Voyage, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM voyages WHERE voyage_number = $1);`, number.String()).Scan(&exists)
	if err != nil {
		return domain.Voyage{}, fmt.Errorf("find voyage %s: %w", number, err)
	}
	if !exists {
		return domain.Voyage{}, fmt.Errorf("find voyage %s: %w", number, sentinel.ErrNotFound)
	}

	voyages, err := r.loadMovements(ctx, movementsQuery+`WHERE m.voyage_number = $1 ORDER BY m.movement_index;`, number.String())
	if err != nil {
		return domain.Voyage{}, fmt.Errorf("find voyage %s: %w", number, err)
	}
	return domain.Voyage{Number: number, Schedule: domain.Schedule{CarrierMovements: voyages[number]}}, nil
}

// Return all voyages ordered by number.
func (r *PostgresVoyageRepository) FindAll(ctx context.Context) ([]domain.Voyage, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT voyage_number FROM voyages ORDER BY voyage_number;`)
	if err != nil {
		return nil, fmt.Errorf("list voyages: query voyages table: %w", err)
	}
	numbers := make([]domain.VoyageNumber, 0, 8)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("list voyages: scan row: %w", err)
		}
		numbers = append(numbers, domain.VoyageNumber(n))
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list voyages: row iteration: %w", err)
	}
	rows.Close()

	schedules, err := r.loadMovements(ctx, movementsQuery+`ORDER BY m.voyage_number, m.movement_index;`)
	if err != nil {
		return nil, fmt.Errorf("list voyages: %w", err)
	}

	out := make([]domain.Voyage, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, domain.Voyage{Number: n, Schedule: domain.Schedule{CarrierMovements: schedules[n]}})
	}
	return out, nil
}

func (r *PostgresVoyageRepository) loadMovements(ctx context.Context, query string, args ...any) (map[domain.VoyageNumber][]domain.CarrierMovement, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query carrier_movements table: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.VoyageNumber][]domain.CarrierMovement)
	for rows.Next() {
		var (
			number, depCode, depName, arrCode, arrName string
			m                                          domain.CarrierMovement
		)
		if err := rows.Scan(&number, &depCode, &depName, &arrCode, &arrName, &m.DepartureTime, &m.ArrivalTime); err != nil {
			return nil, fmt.Errorf("scan carrier movement: %w", err)
		}
		m.DepartureLocation = domain.Location{UnLocode: domain.UnLocode(depCode), Name: depName}
		m.ArrivalLocation = domain.Location{UnLocode: domain.UnLocode(arrCode), Name: arrName}
		m.DepartureTime = m.DepartureTime.UTC()
		m.ArrivalTime = m.ArrivalTime.UTC()
		out[domain.VoyageNumber(number)] = append(out[domain.VoyageNumber(number)], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("carrier movement iteration: %w", err)
	}
	return out, nil
}
