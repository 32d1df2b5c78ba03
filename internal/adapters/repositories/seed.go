package repositories

import (
	"cargo-tracking-service/internal/domain"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

type LocationSeed struct {
	UnLocode string `json:"unlocode"`
	Name     string `json:"name"`
}

type MovementSeed struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Departure time.Time `json:"departure"`
	Arrival   time.Time `json:"arrival"`
}

type VoyageSeed struct {
	Number    string         `json:"number"`
	Movements []MovementSeed `json:"movements"`
}

type referenceSeed struct {
	Locations []LocationSeed `json:"locations"`
	Voyages   []VoyageSeed   `json:"voyages"`
}

// Validated locations and voyages loaded from a seed file.
type ReferenceData struct {
	Locations []domain.Location
	Voyages   []domain.Voyage
}

// Read and validate location and voyage reference data from a JSON file.
func LoadReferenceData(jsonPath string) (ReferenceData, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return ReferenceData{}, fmt.Errorf("load reference data: read %q: %w", jsonPath, err)
	}
	return ParseReferenceData(bytes)
}

func ParseReferenceData(raw []byte) (ReferenceData, error) {
	var seed referenceSeed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return ReferenceData{}, fmt.Errorf("load reference data: parse json: %w", err)
	}

	byCode := make(map[domain.UnLocode]domain.Location, len(seed.Locations))
	out := ReferenceData{Locations: make([]domain.Location, 0, len(seed.Locations))}
	for i, item := range seed.Locations {
		code, err := domain.ParseUnLocode(item.UnLocode)
		if err != nil {
			return ReferenceData{}, fmt.Errorf("load reference data: location at index %d: %w", i+1, err)
		}
		if _, dup := byCode[code]; dup {
			return ReferenceData{}, fmt.Errorf("load reference data: location at index %d: duplicate code %s", i+1, code)
		}
		loc, err := domain.NewLocation(code, item.Name)
		if err != nil {
			return ReferenceData{}, fmt.Errorf("load reference data: location at index %d: %w", i+1, err)
		}
		byCode[code] = loc
		out.Locations = append(out.Locations, loc)
	}

	lookup := func(raw string) (domain.Location, error) {
		code, err := domain.ParseUnLocode(raw)
		if err != nil {
			return domain.UnknownLocation, err
		}
		loc, ok := byCode[code]
		if !ok {
			return domain.UnknownLocation, &domain.UnknownLocationError{UnLocode: code}
		}
		return loc, nil
	}

	out.Voyages = make([]domain.Voyage, 0, len(seed.Voyages))
	for i, item := range seed.Voyages {
		number, err := domain.ParseVoyageNumber(item.Number)
		if err != nil {
			return ReferenceData{}, fmt.Errorf("load reference data: voyage at index %d: %w", i+1, err)
		}

		movements := make([]domain.CarrierMovement, 0, len(item.Movements))
		for j, m := range item.Movements {
			from, err := lookup(m.From)
			if err != nil {
				return ReferenceData{}, fmt.Errorf("load reference data: voyage %s movement %d: %w", number, j+1, err)
			}
			to, err := lookup(m.To)
			if err != nil {
				return ReferenceData{}, fmt.Errorf("load reference data: voyage %s movement %d: %w", number, j+1, err)
			}
			movements = append(movements, domain.CarrierMovement{
				DepartureLocation: from,
				ArrivalLocation:   to,
				DepartureTime:     m.Departure.UTC(),
				ArrivalTime:       m.Arrival.UTC(),
			})
		}

		voyage, err := domain.NewVoyage(number, domain.Schedule{CarrierMovements: movements})
		if err != nil {
			return ReferenceData{}, fmt.Errorf("load reference data: voyage at index %d: %w", i+1, err)
		}
		out.Voyages = append(out.Voyages, voyage)
	}

	return out, nil
}

// Upsert reference data into Postgres. Existing schedules are replaced.
func SeedReferenceData(ctx context.Context, db *sql.DB, data ReferenceData) error {
	if db == nil {
		return errors.New("seed reference data: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed reference data: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, loc := range data.Locations {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO locations (unlocode, name)
		VALUES ($1, $2)
		ON CONFLICT (unlocode) DO UPDATE SET name = EXCLUDED.name;
		`, loc.UnLocode.String(), loc.Name)
		if err != nil {
			return fmt.Errorf("seed reference data: insert location %s: %w", loc.UnLocode, err)
		}
	}

	for _, v := range data.Voyages {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO voyages (voyage_number)
		VALUES ($1)
		ON CONFLICT (voyage_number) DO NOTHING;
		`, v.Number.String()); err != nil {
			return fmt.Errorf("seed reference data: insert voyage %s: %w", v.Number, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM carrier_movements WHERE voyage_number = $1;`, v.Number.String()); err != nil {
			return fmt.Errorf("seed reference data: clear schedule of %s: %w", v.Number, err)
		}

		for i, m := range v.Schedule.CarrierMovements {
			_, err := tx.ExecContext(ctx, `
			INSERT INTO carrier_movements (
				voyage_number,
				movement_index,
				departure_location,
				arrival_location,
				departure_time,
				arrival_time
			)
			VALUES ($1, $2, $3, $4, $5, $6);
			`, v.Number.String(), i,
				m.DepartureLocation.UnLocode.String(), m.ArrivalLocation.UnLocode.String(),
				m.DepartureTime, m.ArrivalTime)
			if err != nil {
				return fmt.Errorf("seed reference data: insert movement %d of %s: %w", i+1, v.Number, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed reference data: commit tx: %w", err)
	}

	return nil
}
