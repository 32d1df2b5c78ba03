package repositories

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/platform/sentinel"
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
)

// In-memory CargoRepository used when no database is configured.
type MemoryCargoRepository struct {
	mu     sync.RWMutex
	cargos map[domain.TrackingID]*domain.Cargo
}

func NewMemoryCargoRepository() *MemoryCargoRepository {
	return &MemoryCargoRepository{cargos: make(map[domain.TrackingID]*domain.Cargo)}
}

func (r *MemoryCargoRepository) NextTrackingID() domain.TrackingID {
	return domain.NewTrackingID()
}

func (r *MemoryCargoRepository) Find(_ context.Context, id domain.TrackingID) (*domain.Cargo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cargos[id]
	if !ok {
		return nil, fmt.Errorf("find cargo %s: %w", id, sentinel.ErrNotFound)
	}
	return cloneCargo(c), nil
}

func (r *MemoryCargoRepository) FindAll(_ context.Context) ([]*domain.Cargo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Cargo, 0, len(r.cargos))
	for _, c := range r.cargos {
		out = append(out, cloneCargo(c))
	}
	slices.SortFunc(out, func(a, b *domain.Cargo) int {
		return cmp.Compare(a.TrackingID(), b.TrackingID())
	})
	return out, nil
}

func (r *MemoryCargoRepository) Store(_ context.Context, cargo *domain.Cargo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cargos[cargo.TrackingID()] = cloneCargo(cargo)
	return nil
}

// Stored cargos never share state with the caller's copy.
func cloneCargo(c *domain.Cargo) *domain.Cargo {
	d := c.Delivery()
	if d.LastEvent != nil {
		e := *d.LastEvent
		d.LastEvent = &e
	}
	return domain.RestoreCargo(c.TrackingID(), c.Origin(), c.RouteSpecification(), c.Itinerary(), d)
}

// In-memory HandlingEventRepository used when no database is configured.
type MemoryHandlingEventRepository struct {
	mu     sync.RWMutex
	nextID int64
	events map[domain.TrackingID][]domain.HandlingEvent
}

func NewMemoryHandlingEventRepository() *MemoryHandlingEventRepository {
	return &MemoryHandlingEventRepository{events: make(map[domain.TrackingID][]domain.HandlingEvent)}
}

func (r *MemoryHandlingEventRepository) Store(_ context.Context, event *domain.HandlingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	event.ID = r.nextID
	r.events[event.TrackingID] = append(r.events[event.TrackingID], *event)
	return nil
}

func (r *MemoryHandlingEventRepository) LookupHandlingHistoryOfCargo(_ context.Context, id domain.TrackingID) (domain.HandlingHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return domain.NewHandlingHistory(r.events[id]...), nil
}

// In-memory LocationRepository and VoyageRepository over seeded reference data.
type MemoryReferenceRepository struct {
	locations map[domain.UnLocode]domain.Location
	voyages   map[domain.VoyageNumber]domain.Voyage
	data      ReferenceData
}

func NewMemoryReferenceRepository(data ReferenceData) *MemoryReferenceRepository {
	r := &MemoryReferenceRepository{
		locations: make(map[domain.UnLocode]domain.Location, len(data.Locations)),
		voyages:   make(map[domain.VoyageNumber]domain.Voyage, len(data.Voyages)),
		data:      data,
	}
	for _, l := range data.Locations {
		r.locations[l.UnLocode] = l
	}
	for _, v := range data.Voyages {
		r.voyages[v.Number] = v
	}
	return r
}

// Locations exposes the location half as a LocationRepository.
func (r *MemoryReferenceRepository) Locations() *MemoryLocationRepository {
	return &MemoryLocationRepository{ref: r}
}

// Voyages exposes the voyage half as a VoyageRepository.
func (r *MemoryReferenceRepository) Voyages() *MemoryVoyageRepository {
	return &MemoryVoyageRepository{ref: r}
}

type MemoryLocationRepository struct{ ref *MemoryReferenceRepository }

func (r *MemoryLocationRepository) Find(_ context.Context, code domain.UnLocode) (domain.Location, error) {
	l, ok := r.ref.locations[code]
	if !ok {
		return domain.UnknownLocation, fmt.Errorf("find location %s: %w", code, sentinel.ErrNotFound)
	}
	return l, nil
}

func (r *MemoryLocationRepository) FindAll(_ context.Context) ([]domain.Location, error) {
	out := slices.Clone(r.ref.data.Locations)
	slices.SortFunc(out, func(a, b domain.Location) int { return cmp.Compare(a.UnLocode, b.UnLocode) })
	return out, nil
}

type MemoryVoyageRepository struct{ ref *MemoryReferenceRepository }

func (r *MemoryVoyageRepository) Find(_ context.Context, number domain.VoyageNumber) (domain.Voyage, error) {
	v, ok := r.ref.voyages[number]
	if !ok {
		return domain.Voyage{}, fmt.Errorf("find voyage %s: %w", number, sentinel.ErrNotFound)
	}
	return v, nil
}

func (r *MemoryVoyageRepository) FindAll(_ context.Context) ([]domain.Voyage, error) {
	out := slices.Clone(r.ref.data.Voyages)
	slices.SortFunc(out, func(a, b domain.Voyage) int { return cmp.Compare(a.Number, b.Number) })
	return out, nil
}
