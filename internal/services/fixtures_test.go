package services

import (
	"cargo-tracking-service/internal/adapters/lock"
	"cargo-tracking-service/internal/adapters/repositories"
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/platform/clock"
	"cargo-tracking-service/internal/platform/tx"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	hongKong = domain.Location{UnLocode: "CNHKG", Name: "Hong Kong"}
	tokyo    = domain.Location{UnLocode: "JNTKO", Name: "Tokyo"}
	newYork  = domain.Location{UnLocode: "USNYC", Name: "New York"}
	chicago  = domain.Location{UnLocode: "USCHI", Name: "Chicago"}

	now = time.Date(2009, 2, 20, 9, 0, 0, 0, time.UTC)
)

func at(day, hour int) time.Time {
	return time.Date(2009, 3, day, hour, 0, 0, 0, time.UTC)
}

func referenceData(t *testing.T) repositories.ReferenceData {
	t.Helper()
	v100, err := domain.NewVoyage("V100", domain.NewScheduleBuilder(hongKong).
		AddMovement(tokyo, at(1, 0), at(5, 0)).
		Build())
	require.NoError(t, err)
	v200, err := domain.NewVoyage("V200", domain.NewScheduleBuilder(tokyo).
		AddMovement(newYork, at(6, 0), at(12, 0)).
		AddMovement(chicago, at(13, 0), at(15, 0)).
		Build())
	require.NoError(t, err)

	return repositories.ReferenceData{
		Locations: []domain.Location{hongKong, tokyo, newYork, chicago},
		Voyages:   []domain.Voyage{v100, v200},
	}
}

// harness wires services over in-memory adapters.
type harness struct {
	cargos    *repositories.MemoryCargoRepository
	events    *repositories.MemoryHandlingEventRepository
	locations *repositories.MemoryLocationRepository
	voyages   *repositories.MemoryVoyageRepository
	locker    *lock.KeyedMutex
	runner    tx.Runner
	clock     clock.Clock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ref := repositories.NewMemoryReferenceRepository(referenceData(t))
	return &harness{
		cargos:    repositories.NewMemoryCargoRepository(),
		events:    repositories.NewMemoryHandlingEventRepository(),
		locations: ref.Locations(),
		voyages:   ref.Voyages(),
		locker:    lock.NewKeyedMutex(),
		runner:    tx.NoopRunner{},
		clock:     clock.Fixed(now),
	}
}

func (h *harness) factory() *HandlingEventFactory {
	return NewHandlingEventFactory(h.cargos, h.voyages, h.locations)
}

func hongKongTokyoNewYork(t *testing.T) domain.Itinerary {
	t.Helper()
	first, err := domain.NewLeg("V100", hongKong, tokyo, at(1, 0), at(5, 0))
	require.NoError(t, err)
	second, err := domain.NewLeg("V200", tokyo, newYork, at(6, 0), at(12, 0))
	require.NoError(t, err)
	itinerary, err := domain.NewItinerary(first, second)
	require.NoError(t, err)
	return itinerary
}

// bookRouted stores a cargo from Hong Kong to New York on the two-leg route.
func (h *harness) bookRouted(t *testing.T, id domain.TrackingID) *domain.Cargo {
	t.Helper()
	spec, err := domain.NewRouteSpecification(hongKong, newYork, at(20, 0))
	require.NoError(t, err)
	cargo, err := domain.NewCargo(id, spec, now)
	require.NoError(t, err)
	require.NoError(t, cargo.AssignToRoute(hongKongTokyoNewYork(t), now))
	require.NoError(t, h.cargos.Store(context.Background(), cargo))
	return cargo
}

func (h *harness) handle(t *testing.T, id domain.TrackingID, typ domain.HandlingEventType, loc domain.Location, voyage domain.VoyageNumber, completed time.Time) domain.HandlingEvent {
	t.Helper()
	e, err := domain.NewHandlingEvent(id, completed, now, typ, loc, voyage)
	require.NoError(t, err)
	require.NoError(t, h.events.Store(context.Background(), &e))
	return e
}
