package services

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/ports"
	"cargo-tracking-service/internal/ports/mocks"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newBooking(t *testing.T, h *harness) (*BookingService, *mocks.MockRoutingProvider) {
	t.Helper()
	provider := mocks.NewMockRoutingProvider(gomock.NewController(t))
	routing := NewRoutingService(provider, h.voyages, h.locations)
	return NewBookingService(h.cargos, h.locations, h.voyages, routing, h.locker, h.runner, h.clock), provider
}

func plannedRoute() []RouteLeg {
	return []RouteLeg{
		{VoyageNumber: "V100", From: "CNHKG", To: "JNTKO", LoadTime: at(1, 0), UnloadTime: at(5, 0)},
		{VoyageNumber: "V200", From: "JNTKO", To: "USNYC", LoadTime: at(6, 0), UnloadTime: at(12, 0)},
	}
}

func TestBookNewCargo(t *testing.T) {
	h := newHarness(t)
	svc, _ := newBooking(t, h)
	ctx := context.Background()

	id, err := svc.BookNewCargo(ctx, "CNHKG", "USNYC", at(20, 0))
	require.NoError(t, err)

	cargo, err := svc.LoadCargo(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, hongKong, cargo.Origin())
	assert.Equal(t, newYork, cargo.RouteSpecification().Destination)

	d := cargo.Delivery()
	assert.Equal(t, domain.NotRouted, d.RoutingStatus)
	assert.Equal(t, domain.NotReceived, d.TransportStatus)
	assert.True(t, d.LastKnownLocation.IsUnknown())
	assert.Nil(t, d.LastEvent)
	assert.Equal(t, now, d.CalculatedAt)

	cargos, err := svc.ListCargos(ctx)
	require.NoError(t, err)
	assert.Len(t, cargos, 1)
}

func TestBookNewCargoUnknownLocation(t *testing.T) {
	h := newHarness(t)
	svc, _ := newBooking(t, h)

	_, err := svc.BookNewCargo(context.Background(), "CNHKG", "SESTO", at(20, 0))
	require.ErrorIs(t, err, domain.ErrUnknownLocation)

	cargos, err := svc.ListCargos(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cargos)
}

func TestAssignCargoToRoute(t *testing.T) {
	h := newHarness(t)
	svc, _ := newBooking(t, h)
	ctx := context.Background()

	id, err := svc.BookNewCargo(ctx, "CNHKG", "USNYC", at(20, 0))
	require.NoError(t, err)
	require.NoError(t, svc.AssignCargoToRoute(ctx, id, plannedRoute()))

	cargo, err := svc.LoadCargo(ctx, id)
	require.NoError(t, err)
	assert.True(t, cargo.Itinerary().Equal(hongKongTokyoNewYork(t)))

	d := cargo.Delivery()
	assert.Equal(t, domain.Routed, d.RoutingStatus)
	assert.Equal(t, at(12, 0), d.ETA)
	assert.Equal(t, domain.HandlingActivity{Type: domain.Receive, Location: hongKong}, d.NextExpectedActivity)
}

func TestAssignCargoToRouteRejectsUnresolvedLegs(t *testing.T) {
	h := newHarness(t)
	svc, _ := newBooking(t, h)
	ctx := context.Background()

	id, err := svc.BookNewCargo(ctx, "CNHKG", "USNYC", at(20, 0))
	require.NoError(t, err)

	route := plannedRoute()
	route[1].VoyageNumber = "V999"
	require.ErrorIs(t, svc.AssignCargoToRoute(ctx, id, route), domain.ErrUnknownVoyage)

	route = plannedRoute()
	route[1].From = "USCHI"
	require.ErrorIs(t, svc.AssignCargoToRoute(ctx, id, route), domain.ErrInvalidArgument)

	require.ErrorIs(t, svc.AssignCargoToRoute(ctx, id, nil), domain.ErrInvalidArgument)
	require.ErrorIs(t, svc.AssignCargoToRoute(ctx, "NOPE", plannedRoute()), domain.ErrUnknownCargo)

	cargo, err := svc.LoadCargo(ctx, id)
	require.NoError(t, err)
	assert.True(t, cargo.Itinerary().IsEmpty())
}

func TestChangeDestinationMisroutes(t *testing.T) {
	h := newHarness(t)
	svc, _ := newBooking(t, h)
	ctx := context.Background()

	id, err := svc.BookNewCargo(ctx, "CNHKG", "USNYC", at(20, 0))
	require.NoError(t, err)
	require.NoError(t, svc.AssignCargoToRoute(ctx, id, plannedRoute()))

	require.NoError(t, svc.ChangeDestination(ctx, id, "USCHI"))

	cargo, err := svc.LoadCargo(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, chicago, cargo.RouteSpecification().Destination)
	assert.Equal(t, hongKong, cargo.Origin())
	assert.Equal(t, domain.Misrouted, cargo.Delivery().RoutingStatus)
	assert.True(t, cargo.Delivery().ETA.IsZero())
	assert.True(t, cargo.Delivery().NextExpectedActivity.IsEmpty())

	require.ErrorIs(t, svc.ChangeDestination(ctx, id, "SESTO"), domain.ErrUnknownLocation)
}

func TestChangeDeadline(t *testing.T) {
	h := newHarness(t)
	svc, _ := newBooking(t, h)
	ctx := context.Background()

	id, err := svc.BookNewCargo(ctx, "CNHKG", "USNYC", at(20, 0))
	require.NoError(t, err)
	require.NoError(t, svc.AssignCargoToRoute(ctx, id, plannedRoute()))

	require.NoError(t, svc.ChangeDeadline(ctx, id, at(10, 0)))
	cargo, err := svc.LoadCargo(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.Misrouted, cargo.Delivery().RoutingStatus)

	require.NoError(t, svc.ChangeDeadline(ctx, id, at(12, 0)))
	cargo, err = svc.LoadCargo(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.Routed, cargo.Delivery().RoutingStatus)
}

func TestRerouteKeepsHandlingProgress(t *testing.T) {
	h := newHarness(t)
	svc, _ := newBooking(t, h)
	ctx := context.Background()

	h.bookRouted(t, "ABC123")
	h.handle(t, "ABC123", domain.Receive, hongKong, domain.NoVoyage, at(1, 0))
	inspection, _ := newInspection(t, h)
	require.NoError(t, inspection.InspectCargo(ctx, "ABC123"))

	require.NoError(t, svc.ChangeDestination(ctx, "ABC123", "USCHI"))

	cargo, err := svc.LoadCargo(ctx, "ABC123")
	require.NoError(t, err)
	d := cargo.Delivery()
	assert.Equal(t, domain.InPort, d.TransportStatus)
	assert.Equal(t, hongKong, d.LastKnownLocation)
	require.NotNil(t, d.LastEvent)
	assert.Equal(t, domain.Receive, d.LastEvent.Type)
}

func TestRequestPossibleRoutesForCargo(t *testing.T) {
	h := newHarness(t)
	svc, provider := newBooking(t, h)
	ctx := context.Background()

	id, err := svc.BookNewCargo(ctx, "CNHKG", "USNYC", at(20, 0))
	require.NoError(t, err)

	provider.EXPECT().FindShortestPath(gomock.Any(), "CNHKG", "USNYC", gomock.Any()).Return([]ports.TransitPath{
		{Edges: []ports.TransitEdge{edge("V100", "CNHKG", "JNTKO", 1, 5), edge("V200", "JNTKO", "USNYC", 6, 12)}},
	}, nil)

	routes, err := svc.RequestPossibleRoutesForCargo(ctx, id)
	require.NoError(t, err)
	require.Len(t, routes, 1)

	// Asking for routes never assigns one.
	cargo, err := svc.LoadCargo(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.NotRouted, cargo.Delivery().RoutingStatus)

	_, err = svc.RequestPossibleRoutesForCargo(ctx, "NOPE")
	require.ErrorIs(t, err, domain.ErrUnknownCargo)
}

func TestListUnLocodes(t *testing.T) {
	h := newHarness(t)
	svc, _ := newBooking(t, h)

	codes, err := svc.ListUnLocodes(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.UnLocode{"CNHKG", "JNTKO", "USNYC", "USCHI"}, codes)
}
