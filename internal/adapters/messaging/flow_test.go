package messaging

import (
	"cargo-tracking-service/internal/adapters/lock"
	"cargo-tracking-service/internal/adapters/repositories"
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/platform/clock"
	"cargo-tracking-service/internal/platform/tx"
	"cargo-tracking-service/internal/services"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	hongKong = domain.Location{UnLocode: "CNHKG", Name: "Hong Kong"}
	tokyo    = domain.Location{UnLocode: "JNTKO", Name: "Tokyo"}
	chicago  = domain.Location{UnLocode: "USCHI", Name: "Chicago"}
	now      = time.Date(2009, 2, 20, 9, 0, 0, 0, time.UTC)
)

func at(day, hour int) time.Time {
	return time.Date(2009, 3, day, hour, 0, 0, 0, time.UTC)
}

type flow struct {
	bus     *MemoryBus
	cargos  *repositories.MemoryCargoRepository
	reports *services.HandlingReportService
}

// newFlow wires the handling pipeline over the memory bus, the way the
// server does without Kafka and Postgres.
func newFlow(t *testing.T) *flow {
	t.Helper()
	v100, err := domain.NewVoyage("V100", domain.NewScheduleBuilder(hongKong).AddMovement(tokyo, at(1, 0), at(5, 0)).Build())
	require.NoError(t, err)
	ref := repositories.NewMemoryReferenceRepository(repositories.ReferenceData{
		Locations: []domain.Location{hongKong, tokyo, chicago},
		Voyages:   []domain.Voyage{v100},
	})

	cargos := repositories.NewMemoryCargoRepository()
	events := repositories.NewMemoryHandlingEventRepository()
	clk := clock.Fixed(now)
	bus := NewMemoryBus()
	topics := NewTopics("test")
	app := NewEventPublisher(bus, topics)

	factory := services.NewHandlingEventFactory(cargos, ref.Voyages(), ref.Locations())
	handling := services.NewHandlingEventService(factory, events, app, tx.NoopRunner{})
	inspection := services.NewCargoInspectionService(cargos, events, app, lock.NewKeyedMutex(), tx.NoopRunner{}, clk)

	d := NewDispatcher(bus.DeadLetters(), WithMaxReceives(2), WithRetryBackoff(time.Millisecond))
	Subscribe(d, topics, inspection, handling)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = bus.Run(ctx, d, 2)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	spec, err := domain.NewRouteSpecification(hongKong, tokyo, at(10, 0))
	require.NoError(t, err)
	cargo, err := domain.NewCargo("ABC123", spec, now)
	require.NoError(t, err)
	leg, err := domain.NewLeg("V100", hongKong, tokyo, at(1, 0), at(5, 0))
	require.NoError(t, err)
	itinerary, err := domain.NewItinerary(leg)
	require.NoError(t, err)
	require.NoError(t, cargo.AssignToRoute(itinerary, now))
	require.NoError(t, cargos.Store(context.Background(), cargo))

	return &flow{bus: bus, cargos: cargos, reports: services.NewHandlingReportService(app, clk)}
}

func (f *flow) delivery() domain.Delivery {
	c, err := f.cargos.Find(context.Background(), "ABC123")
	if err != nil {
		return domain.Delivery{}
	}
	return c.Delivery()
}

func TestHandlingReportUpdatesDelivery(t *testing.T) {
	f := newFlow(t)
	ctx := context.Background()

	_, err := f.reports.SubmitReport(ctx, services.HandlingReport{
		CompletionTime: "2009-03-01 00:00", TrackingID: "ABC123", UnLocode: "CNHKG", EventType: "RECEIVE",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return f.delivery().TransportStatus == domain.InPort
	}, 2*time.Second, 5*time.Millisecond)

	_, err = f.reports.SubmitReport(ctx, services.HandlingReport{
		CompletionTime: "2009-03-05 00:00", TrackingID: "ABC123", VoyageNumber: "V100", UnLocode: "JNTKO", EventType: "UNLOAD",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return f.delivery().UnloadedAtDestination
	}, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, f.bus.DeadLettered())
}

func TestUnresolvableReportIsDeadLettered(t *testing.T) {
	f := newFlow(t)

	_, err := f.reports.SubmitReport(context.Background(), services.HandlingReport{
		CompletionTime: "2009-03-01 00:00", TrackingID: "NOSUCH", UnLocode: "CNHKG", EventType: "RECEIVE",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(f.bus.DeadLettered()) == 1
	}, 2*time.Second, 5*time.Millisecond)

	dead := f.bus.DeadLettered()[0]
	assert.Equal(t, "test.handling.attempt.dlq", dead.Topic)
	assert.Equal(t, "1", dead.Headers["receives"])

	var payload map[string]any
	require.NoError(t, json.Unmarshal(dead.Value, &payload))
	assert.Equal(t, "NOSUCH", payload["trackingId"])
}

func TestMisdirectedCargoIsAnnounced(t *testing.T) {
	f := newFlow(t)
	ctx := context.Background()

	_, err := f.reports.SubmitReport(ctx, services.HandlingReport{
		CompletionTime: "2009-03-05 00:00", TrackingID: "ABC123", VoyageNumber: "V100", UnLocode: "USCHI", EventType: "UNLOAD",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return f.delivery().Misdirected
	}, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		return f.bus.Len() == 0
	}, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, f.bus.DeadLettered())
}
