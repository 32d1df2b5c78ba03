package domain

import (
	"slices"
	"time"
)

// EndOfDays is the arrival date of an itinerary with no legs.
var EndOfDays = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// One voyage segment of an itinerary.
type Leg struct {
	Voyage         VoyageNumber
	LoadLocation   Location
	UnloadLocation Location
	LoadTime       time.Time
	UnloadTime     time.Time
}

func NewLeg(voyage VoyageNumber, loadLocation, unloadLocation Location, loadTime, unloadTime time.Time) (Leg, error) {
	leg := Leg{
		Voyage:         voyage,
		LoadLocation:   loadLocation,
		UnloadLocation: unloadLocation,
		LoadTime:       loadTime,
		UnloadTime:     unloadTime,
	}
	if err := leg.validate(); err != nil {
		return Leg{}, err
	}
	return leg, nil
}

func (l Leg) validate() error {
	switch {
	case l.Voyage.IsNone():
		return invalidArgument("leg: voyage is required")
	case l.LoadLocation.IsUnknown():
		return invalidArgument("leg: load location is required")
	case l.UnloadLocation.IsUnknown():
		return invalidArgument("leg: unload location is required")
	case l.LoadTime.IsZero():
		return invalidArgument("leg: load time is required")
	case l.UnloadTime.IsZero():
		return invalidArgument("leg: unload time is required")
	case l.UnloadTime.Before(l.LoadTime):
		return invalidArgument("leg %s: unloads at %s before it loads at %s",
			l.Voyage, l.UnloadTime.Format(time.RFC3339), l.LoadTime.Format(time.RFC3339))
	}
	return nil
}

func (l Leg) Equal(other Leg) bool {
	return l.Voyage == other.Voyage &&
		l.LoadLocation.SameIdentityAs(other.LoadLocation) &&
		l.UnloadLocation.SameIdentityAs(other.UnloadLocation) &&
		l.LoadTime.Equal(other.LoadTime) &&
		l.UnloadTime.Equal(other.UnloadTime)
}

// Itinerary is the planned sequence of legs. The zero value is the empty
// itinerary, meaning the cargo has not been routed yet.
type Itinerary struct {
	legs []Leg
}

var EmptyItinerary = Itinerary{}

// NewItinerary requires at least one leg. Legs must connect (each leg loads
// where the previous one unloaded) and must not overlap in time.
func NewItinerary(legs ...Leg) (Itinerary, error) {
	if len(legs) == 0 {
		return EmptyItinerary, invalidArgument("itinerary: at least one leg is required")
	}
	for i, leg := range legs {
		if err := leg.validate(); err != nil {
			return EmptyItinerary, err
		}
		if i == 0 {
			continue
		}
		prev := legs[i-1]
		if !prev.UnloadLocation.SameIdentityAs(leg.LoadLocation) {
			return EmptyItinerary, invalidArgument("itinerary: leg %d unloads at %s but leg %d loads at %s",
				i, prev.UnloadLocation.UnLocode, i+1, leg.LoadLocation.UnLocode)
		}
		if leg.LoadTime.Before(prev.UnloadTime) {
			return EmptyItinerary, invalidArgument("itinerary: leg %d loads before leg %d unloads", i+1, i)
		}
	}
	return Itinerary{legs: slices.Clone(legs)}, nil
}

func (i Itinerary) IsEmpty() bool { return len(i.legs) == 0 }

func (i Itinerary) Legs() []Leg { return slices.Clone(i.legs) }

func (i Itinerary) LastLeg() (Leg, bool) {
	if i.IsEmpty() {
		return Leg{}, false
	}
	return i.legs[len(i.legs)-1], true
}

// IsExpected reports whether the event fits the plan. Every event fits an
// empty itinerary since there is nothing to violate.
func (i Itinerary) IsExpected(event HandlingEvent) bool {
	if i.IsEmpty() {
		return true
	}

	switch event.Type {
	case Receive:
		return i.legs[0].LoadLocation.SameIdentityAs(event.Location)
	case Load:
		for _, leg := range i.legs {
			if leg.LoadLocation.SameIdentityAs(event.Location) && leg.Voyage == event.Voyage {
				return true
			}
		}
		return false
	case Unload:
		for _, leg := range i.legs {
			if leg.UnloadLocation.SameIdentityAs(event.Location) && leg.Voyage == event.Voyage {
				return true
			}
		}
		return false
	case Claim:
		last, _ := i.LastLeg()
		return last.UnloadLocation.SameIdentityAs(event.Location)
	case Customs:
		return true
	}
	// Event types are validated on construction.
	return true
}

func (i Itinerary) InitialDepartureLocation() Location {
	if i.IsEmpty() {
		return UnknownLocation
	}
	return i.legs[0].LoadLocation
}

func (i Itinerary) FinalArrivalLocation() Location {
	last, ok := i.LastLeg()
	if !ok {
		return UnknownLocation
	}
	return last.UnloadLocation
}

func (i Itinerary) FinalArrivalDate() time.Time {
	last, ok := i.LastLeg()
	if !ok {
		return EndOfDays
	}
	return last.UnloadTime
}

// Itineraries are values: equal when their leg sequences are equal.
func (i Itinerary) Equal(other Itinerary) bool {
	return slices.EqualFunc(i.legs, other.legs, Leg.Equal)
}
