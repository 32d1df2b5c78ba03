package domain

import (
	"testing"
	"time"
)

var (
	hongKong  = Location{UnLocode: "CNHKG", Name: "Hong Kong"}
	tokyo     = Location{UnLocode: "JNTKO", Name: "Tokyo"}
	newYork   = Location{UnLocode: "USNYC", Name: "New York"}
	chicago   = Location{UnLocode: "USCHI", Name: "Chicago"}
	dallas    = Location{UnLocode: "USDAL", Name: "Dallas"}
	hangzhou  = Location{UnLocode: "CNHGH", Name: "Hangzhou"}
	stockholm = Location{UnLocode: "SESTO", Name: "Stockholm"}
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func mustLeg(t *testing.T, voyage VoyageNumber, from, to Location, load, unload string) Leg {
	t.Helper()
	leg, err := NewLeg(voyage, from, to, day(t, load), day(t, unload))
	if err != nil {
		t.Fatalf("new leg: %v", err)
	}
	return leg
}

func mustItinerary(t *testing.T, legs ...Leg) Itinerary {
	t.Helper()
	it, err := NewItinerary(legs...)
	if err != nil {
		t.Fatalf("new itinerary: %v", err)
	}
	return it
}

func mustEvent(t *testing.T, id TrackingID, typ HandlingEventType, loc Location, voyage VoyageNumber, completed string) HandlingEvent {
	t.Helper()
	c := day(t, completed)
	e, err := NewHandlingEvent(id, c, c.Add(time.Hour), typ, loc, voyage)
	if err != nil {
		t.Fatalf("new handling event: %v", err)
	}
	return e
}

// Hong Kong -> Tokyo on V100, Tokyo -> New York on V200.
func hongKongTokyoNewYork(t *testing.T) Itinerary {
	t.Helper()
	return mustItinerary(t,
		mustLeg(t, "V100", hongKong, tokyo, "2009-03-01", "2009-03-05"),
		mustLeg(t, "V200", tokyo, newYork, "2009-03-06", "2009-03-12"),
	)
}
