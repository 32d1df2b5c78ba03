package domain

import (
	"testing"
	"time"
)

func hongKongToNewYorkSpec(t *testing.T) RouteSpecification {
	t.Helper()
	spec, err := NewRouteSpecification(hongKong, newYork, day(t, "2009-04-01"))
	if err != nil {
		t.Fatalf("new route specification: %v", err)
	}
	return spec
}

func TestDeliveryNotRouted(t *testing.T) {
	spec := hongKongToNewYorkSpec(t)
	now := day(t, "2009-02-01")

	d := DeliveryDerivedFrom(spec, EmptyItinerary, EmptyHandlingHistory, now)

	if d.TransportStatus != NotReceived {
		t.Errorf("TransportStatus = %s, want NOT_RECEIVED", d.TransportStatus)
	}
	if d.RoutingStatus != NotRouted {
		t.Errorf("RoutingStatus = %s, want NOT_ROUTED", d.RoutingStatus)
	}
	if !d.LastKnownLocation.IsUnknown() {
		t.Errorf("LastKnownLocation = %v, want unknown", d.LastKnownLocation)
	}
	if !d.CurrentVoyage.IsNone() {
		t.Errorf("CurrentVoyage = %q, want none", d.CurrentVoyage)
	}
	if d.Misdirected {
		t.Error("Misdirected = true, want false")
	}
	if _, ok := d.EstimatedTimeOfArrival(); ok {
		t.Error("ETA should be unknown for an unrouted cargo")
	}
	if !d.NextExpectedActivity.IsEmpty() {
		t.Errorf("NextExpectedActivity = %+v, want none", d.NextExpectedActivity)
	}
	if d.LastEvent != nil {
		t.Errorf("LastEvent = %+v, want nil", d.LastEvent)
	}
	if !d.CalculatedAt.Equal(now) {
		t.Errorf("CalculatedAt = %v, want %v", d.CalculatedAt, now)
	}
}

func TestDeliveryRoutedNotReceived(t *testing.T) {
	spec := hongKongToNewYorkSpec(t)
	itinerary := hongKongTokyoNewYork(t)

	d := DeliveryDerivedFrom(spec, itinerary, EmptyHandlingHistory, day(t, "2009-02-01"))

	if d.RoutingStatus != Routed {
		t.Fatalf("RoutingStatus = %s, want ROUTED", d.RoutingStatus)
	}
	want := HandlingActivity{Type: Receive, Location: hongKong}
	if !d.NextExpectedActivity.Equal(want) {
		t.Fatalf("NextExpectedActivity = %+v, want %+v", d.NextExpectedActivity, want)
	}
	eta, ok := d.EstimatedTimeOfArrival()
	if !ok || !eta.Equal(day(t, "2009-03-12")) {
		t.Fatalf("ETA = %v (%v), want 2009-03-12", eta, ok)
	}
}

func TestDeliveryProgressAlongItinerary(t *testing.T) {
	spec := hongKongToNewYorkSpec(t)
	itinerary := hongKongTokyoNewYork(t)
	const id TrackingID = "ABC123"

	tests := []struct {
		name         string
		event        HandlingEvent
		transport    TransportStatus
		location     Location
		voyage       VoyageNumber
		next         HandlingActivity
		atDestiation bool
	}{
		{
			name:      "received at origin",
			event:     mustEvent(t, id, Receive, hongKong, "", "2009-02-28"),
			transport: InPort,
			location:  hongKong,
			next:      HandlingActivity{Type: Load, Location: hongKong, Voyage: "V100"},
		},
		{
			name:      "loaded on first voyage",
			event:     mustEvent(t, id, Load, hongKong, "V100", "2009-03-01"),
			transport: OnboardCarrier,
			location:  hongKong,
			voyage:    "V100",
			next:      HandlingActivity{Type: Unload, Location: tokyo, Voyage: "V100"},
		},
		{
			name:      "unloaded mid route",
			event:     mustEvent(t, id, Unload, tokyo, "V100", "2009-03-05"),
			transport: InPort,
			location:  tokyo,
			next:      HandlingActivity{Type: Load, Location: tokyo, Voyage: "V200"},
		},
		{
			name:         "unloaded at destination",
			event:        mustEvent(t, id, Unload, newYork, "V200", "2009-03-12"),
			transport:    InPort,
			location:     newYork,
			next:         HandlingActivity{Type: Claim, Location: newYork},
			atDestiation: true,
		},
		{
			name:      "customs",
			event:     mustEvent(t, id, Customs, newYork, "", "2009-03-13"),
			transport: InPort,
			location:  newYork,
			next:      NoActivity,
		},
		{
			name:      "claimed",
			event:     mustEvent(t, id, Claim, newYork, "", "2009-03-14"),
			transport: Claimed,
			location:  newYork,
			next:      NoActivity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := DeliveryDerivedFrom(spec, itinerary, NewHandlingHistory(tc.event), tc.event.RegistrationTime)

			if d.Misdirected {
				t.Fatal("Misdirected = true, want false")
			}
			if d.RoutingStatus != Routed {
				t.Fatalf("RoutingStatus = %s, want ROUTED", d.RoutingStatus)
			}
			if d.TransportStatus != tc.transport {
				t.Fatalf("TransportStatus = %s, want %s", d.TransportStatus, tc.transport)
			}
			if !d.LastKnownLocation.SameIdentityAs(tc.location) {
				t.Fatalf("LastKnownLocation = %v, want %v", d.LastKnownLocation, tc.location)
			}
			if d.CurrentVoyage != tc.voyage {
				t.Fatalf("CurrentVoyage = %q, want %q", d.CurrentVoyage, tc.voyage)
			}
			if !d.NextExpectedActivity.Equal(tc.next) {
				t.Fatalf("NextExpectedActivity = %+v, want %+v", d.NextExpectedActivity, tc.next)
			}
			if d.UnloadedAtDestination != tc.atDestiation {
				t.Fatalf("UnloadedAtDestination = %v, want %v", d.UnloadedAtDestination, tc.atDestiation)
			}
			if !d.ETA.Equal(day(t, "2009-03-12")) {
				t.Fatalf("ETA = %v, want 2009-03-12", d.ETA)
			}
		})
	}
}

func TestDeliveryMisdirected(t *testing.T) {
	spec := hongKongToNewYorkSpec(t)
	itinerary := hongKongTokyoNewYork(t)
	// Loaded in Tokyo onto the wrong voyage.
	wrong := mustEvent(t, "ABC123", Load, tokyo, "V999", "2009-03-06")

	d := DeliveryDerivedFrom(spec, itinerary, NewHandlingHistory(wrong), day(t, "2009-03-06"))

	if !d.Misdirected {
		t.Fatal("Misdirected = false, want true")
	}
	if d.TransportStatus != OnboardCarrier {
		t.Fatalf("TransportStatus = %s, want ONBOARD_CARRIER", d.TransportStatus)
	}
	if d.CurrentVoyage != "V999" {
		t.Fatalf("CurrentVoyage = %q, want V999", d.CurrentVoyage)
	}
	if _, ok := d.EstimatedTimeOfArrival(); ok {
		t.Fatal("ETA should be unknown for a misdirected cargo")
	}
	if !d.NextExpectedActivity.IsEmpty() {
		t.Fatalf("NextExpectedActivity = %+v, want none", d.NextExpectedActivity)
	}
}

func TestDeliveryMisrouted(t *testing.T) {
	// Destination changed to Chicago; the itinerary still ends in New York.
	spec, err := NewRouteSpecification(hongKong, chicago, day(t, "2009-04-01"))
	if err != nil {
		t.Fatal(err)
	}
	received := mustEvent(t, "ABC123", Receive, hongKong, "", "2009-02-28")

	d := DeliveryDerivedFrom(spec, hongKongTokyoNewYork(t), NewHandlingHistory(received), day(t, "2009-03-01"))

	if d.RoutingStatus != Misrouted {
		t.Fatalf("RoutingStatus = %s, want MISROUTED", d.RoutingStatus)
	}
	if d.Misdirected {
		t.Fatal("a misrouted cargo is not misdirected by an expected event")
	}
	if _, ok := d.EstimatedTimeOfArrival(); ok {
		t.Fatal("ETA should be unknown for a misrouted cargo")
	}
	if !d.NextExpectedActivity.IsEmpty() {
		t.Fatalf("NextExpectedActivity = %+v, want none", d.NextExpectedActivity)
	}
}

func TestDeliveryDerivationIsIdempotent(t *testing.T) {
	spec := hongKongToNewYorkSpec(t)
	itinerary := hongKongTokyoNewYork(t)
	history := NewHandlingHistory(
		mustEvent(t, "ABC123", Receive, hongKong, "", "2009-02-28"),
		mustEvent(t, "ABC123", Load, hongKong, "V100", "2009-03-01"),
	)

	first := DeliveryDerivedFrom(spec, itinerary, history, day(t, "2009-03-02"))
	second := DeliveryDerivedFrom(spec, itinerary, history, day(t, "2009-03-03"))

	if !first.SameStatusAs(second) {
		t.Fatalf("derivations differ:\n%+v\n%+v", first, second)
	}
	if first.CalculatedAt.Equal(second.CalculatedAt) {
		t.Fatal("CalculatedAt should follow the supplied clock")
	}
}

func TestDeliveryLastEventIsCopied(t *testing.T) {
	spec := hongKongToNewYorkSpec(t)
	e := mustEvent(t, "ABC123", Receive, hongKong, "", "2009-02-28")

	d := DeriveDelivery(&e, EmptyItinerary, spec, time.Now())
	e.Location = stockholm

	if !d.LastEvent.Location.SameIdentityAs(hongKong) {
		t.Fatal("delivery should hold its own copy of the last event")
	}
}

func TestUpdateOnRoutingKeepsLastEvent(t *testing.T) {
	spec := hongKongToNewYorkSpec(t)
	received := mustEvent(t, "ABC123", Receive, hongKong, "", "2009-02-28")

	before := DeliveryDerivedFrom(spec, EmptyItinerary, NewHandlingHistory(received), day(t, "2009-02-28"))
	if before.RoutingStatus != NotRouted {
		t.Fatalf("RoutingStatus = %s, want NOT_ROUTED", before.RoutingStatus)
	}

	after := before.UpdateOnRouting(spec, hongKongTokyoNewYork(t), day(t, "2009-02-28"))
	if after.RoutingStatus != Routed {
		t.Fatalf("RoutingStatus = %s, want ROUTED", after.RoutingStatus)
	}
	if after.LastEvent == nil || after.LastEvent.Type != Receive {
		t.Fatalf("LastEvent = %+v, want the RECEIVE event", after.LastEvent)
	}
	want := HandlingActivity{Type: Load, Location: hongKong, Voyage: "V100"}
	if !after.NextExpectedActivity.Equal(want) {
		t.Fatalf("NextExpectedActivity = %+v, want %+v", after.NextExpectedActivity, want)
	}
}
