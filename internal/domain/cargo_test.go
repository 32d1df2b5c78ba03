package domain

import (
	"errors"
	"testing"
)

func TestNewCargo(t *testing.T) {
	spec := hongKongToNewYorkSpec(t)

	c, err := NewCargo("ABC123", spec, day(t, "2009-02-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Origin() != hongKong {
		t.Errorf("Origin = %v, want %v", c.Origin(), hongKong)
	}
	if !c.Itinerary().IsEmpty() {
		t.Error("new cargo should have an empty itinerary")
	}
	d := c.Delivery()
	if d.TransportStatus != NotReceived || d.RoutingStatus != NotRouted {
		t.Errorf("delivery = %s/%s, want NOT_RECEIVED/NOT_ROUTED", d.TransportStatus, d.RoutingStatus)
	}
	if d.Misdirected {
		t.Error("new cargo should not be misdirected")
	}
}

func TestNewCargoRequiresTrackingID(t *testing.T) {
	if _, err := NewCargo("", hongKongToNewYorkSpec(t), day(t, "2009-02-01")); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestCargoAssignToRoute(t *testing.T) {
	c, err := NewCargo("ABC123", hongKongToNewYorkSpec(t), day(t, "2009-02-01"))
	if err != nil {
		t.Fatal(err)
	}

	if err := c.AssignToRoute(EmptyItinerary, day(t, "2009-02-02")); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("assigning empty itinerary: err = %v, want ErrInvalidArgument", err)
	}

	itinerary := hongKongTokyoNewYork(t)
	if err := c.AssignToRoute(itinerary, day(t, "2009-02-02")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Itinerary().Equal(itinerary) {
		t.Fatal("itinerary was not stored")
	}
	if c.Delivery().RoutingStatus != Routed {
		t.Fatalf("RoutingStatus = %s, want ROUTED", c.Delivery().RoutingStatus)
	}
	if !c.Delivery().CalculatedAt.Equal(day(t, "2009-02-02")) {
		t.Fatalf("CalculatedAt = %v, want 2009-02-02", c.Delivery().CalculatedAt)
	}
}

func TestCargoSpecifyNewRouteKeepsOrigin(t *testing.T) {
	c, err := NewCargo("ABC123", hongKongToNewYorkSpec(t), day(t, "2009-02-01"))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.AssignToRoute(hongKongTokyoNewYork(t), day(t, "2009-02-02")); err != nil {
		t.Fatal(err)
	}

	rerouted, err := NewRouteSpecification(tokyo, chicago, day(t, "2009-05-01"))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SpecifyNewRoute(rerouted, day(t, "2009-03-06")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Origin() != hongKong {
		t.Errorf("Origin = %v, want original origin %v", c.Origin(), hongKong)
	}
	if !c.RouteSpecification().Equal(rerouted) {
		t.Errorf("RouteSpecification = %+v, want %+v", c.RouteSpecification(), rerouted)
	}
	if c.Delivery().RoutingStatus != Misrouted {
		t.Errorf("RoutingStatus = %s, want MISROUTED", c.Delivery().RoutingStatus)
	}

	if err := c.SpecifyNewRoute(RouteSpecification{}, day(t, "2009-03-07")); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("invalid spec: err = %v, want ErrInvalidArgument", err)
	}
	if !c.RouteSpecification().Equal(rerouted) {
		t.Fatal("a rejected route specification must not change the cargo")
	}
}

func TestCargoDeriveDeliveryProgress(t *testing.T) {
	c, err := NewCargo("ABC123", hongKongToNewYorkSpec(t), day(t, "2009-02-01"))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.AssignToRoute(hongKongTokyoNewYork(t), day(t, "2009-02-02")); err != nil {
		t.Fatal(err)
	}

	history := NewHandlingHistory(
		mustEvent(t, "ABC123", Receive, hongKong, "", "2009-02-28"),
		mustEvent(t, "ABC123", Load, hongKong, "V100", "2009-03-01"),
		mustEvent(t, "ABC123", Unload, tokyo, "V100", "2009-03-05"),
	)
	if err := c.DeriveDeliveryProgress(history, day(t, "2009-03-05")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := c.Delivery()
	if d.TransportStatus != InPort || !d.LastKnownLocation.SameIdentityAs(tokyo) {
		t.Fatalf("delivery = %s at %v, want IN_PORT at Tokyo", d.TransportStatus, d.LastKnownLocation)
	}
	want := HandlingActivity{Type: Load, Location: tokyo, Voyage: "V200"}
	if !d.NextExpectedActivity.Equal(want) {
		t.Fatalf("NextExpectedActivity = %+v, want %+v", d.NextExpectedActivity, want)
	}

	foreign := NewHandlingHistory(mustEvent(t, "OTHER1", Receive, hongKong, "", "2009-02-28"))
	if err := c.DeriveDeliveryProgress(foreign, day(t, "2009-03-06")); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("foreign history: err = %v, want ErrInvalidArgument", err)
	}
	if !c.Delivery().SameStatusAs(d) {
		t.Fatal("a rejected history must not change delivery")
	}
}

func TestTrackingID(t *testing.T) {
	id := NewTrackingID()
	if _, err := ParseTrackingID(id.String()); err != nil {
		t.Fatalf("generated id %q does not parse: %v", id, err)
	}
	if NewTrackingID() == id {
		t.Fatal("generated ids should differ")
	}

	got, err := ParseTrackingID(" abc123 ")
	if err != nil || got != "ABC123" {
		t.Fatalf("ParseTrackingID = %q, %v; want ABC123", got, err)
	}
	if _, err := ParseTrackingID("a-b"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}
