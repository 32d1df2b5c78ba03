package domain

import "time"

// Delivery is the derived status snapshot of a cargo. It is recomputed as a
// whole whenever the route, the itinerary or the handling history changes.
type Delivery struct {
	TransportStatus   TransportStatus
	LastKnownLocation Location
	CurrentVoyage     VoyageNumber
	Misdirected       bool
	// ETA is the zero time when no arrival is promised.
	ETA                   time.Time
	NextExpectedActivity  HandlingActivity
	UnloadedAtDestination bool
	RoutingStatus         RoutingStatus
	CalculatedAt          time.Time
	LastEvent             *HandlingEvent
}

// DeriveDelivery computes every field from the last completed event (nil when
// nothing has happened yet), the itinerary and the route specification.
func DeriveDelivery(lastEvent *HandlingEvent, itinerary Itinerary, spec RouteSpecification, calculatedAt time.Time) Delivery {
	d := Delivery{CalculatedAt: calculatedAt}
	if lastEvent != nil {
		e := *lastEvent
		d.LastEvent = &e
	}

	d.Misdirected = d.calculateMisdirectionStatus(itinerary)
	d.RoutingStatus = calculateRoutingStatus(itinerary, spec)
	d.TransportStatus = d.calculateTransportStatus()
	d.LastKnownLocation = d.calculateLastKnownLocation()
	d.CurrentVoyage = d.calculateCurrentVoyage()
	d.ETA = d.calculateETA(itinerary)
	d.NextExpectedActivity = d.calculateNextExpectedActivity(spec, itinerary)
	d.UnloadedAtDestination = d.calculateUnloadedAtDestination(spec)

	return d
}

// DeliveryDerivedFrom recomputes from the most recently completed event of
// the full history.
func DeliveryDerivedFrom(spec RouteSpecification, itinerary Itinerary, history HandlingHistory, calculatedAt time.Time) Delivery {
	return DeriveDelivery(history.MostRecentlyCompletedEvent(), itinerary, spec, calculatedAt)
}

// UpdateOnRouting recomputes after a route or itinerary change, reusing the
// current last event.
func (d Delivery) UpdateOnRouting(spec RouteSpecification, itinerary Itinerary, calculatedAt time.Time) Delivery {
	return DeriveDelivery(d.LastEvent, itinerary, spec, calculatedAt)
}

func (d Delivery) EstimatedTimeOfArrival() (time.Time, bool) {
	if d.ETA.IsZero() {
		return time.Time{}, false
	}
	return d.ETA, true
}

// SameStatusAs compares every field except CalculatedAt.
func (d Delivery) SameStatusAs(other Delivery) bool {
	if (d.LastEvent == nil) != (other.LastEvent == nil) {
		return false
	}
	if d.LastEvent != nil && !d.LastEvent.SameEventAs(*other.LastEvent) {
		return false
	}
	return d.TransportStatus == other.TransportStatus &&
		d.LastKnownLocation.SameIdentityAs(other.LastKnownLocation) &&
		d.CurrentVoyage == other.CurrentVoyage &&
		d.Misdirected == other.Misdirected &&
		d.ETA.Equal(other.ETA) &&
		d.NextExpectedActivity.Equal(other.NextExpectedActivity) &&
		d.UnloadedAtDestination == other.UnloadedAtDestination &&
		d.RoutingStatus == other.RoutingStatus
}

func (d Delivery) calculateMisdirectionStatus(itinerary Itinerary) bool {
	if d.LastEvent == nil {
		return false
	}
	return !itinerary.IsExpected(*d.LastEvent)
}

func calculateRoutingStatus(itinerary Itinerary, spec RouteSpecification) RoutingStatus {
	if itinerary.IsEmpty() {
		return NotRouted
	}
	if spec.IsSatisfiedBy(itinerary) {
		return Routed
	}
	return Misrouted
}

func (d Delivery) calculateTransportStatus() TransportStatus {
	if d.LastEvent == nil {
		return NotReceived
	}
	switch d.LastEvent.Type {
	case Load:
		return OnboardCarrier
	case Unload, Receive, Customs:
		return InPort
	case Claim:
		return Claimed
	}
	return UnknownStatus
}

func (d Delivery) calculateLastKnownLocation() Location {
	if d.LastEvent == nil {
		return UnknownLocation
	}
	return d.LastEvent.Location
}

func (d Delivery) calculateCurrentVoyage() VoyageNumber {
	if d.TransportStatus == OnboardCarrier && d.LastEvent != nil {
		return d.LastEvent.Voyage
	}
	return NoVoyage
}

// A misrouted or unrouted cargo makes no arrival promise.
func (d Delivery) onTrack() bool {
	return d.RoutingStatus == Routed && !d.Misdirected
}

func (d Delivery) calculateETA(itinerary Itinerary) time.Time {
	if !d.onTrack() {
		return time.Time{}
	}
	return itinerary.FinalArrivalDate()
}

func (d Delivery) calculateNextExpectedActivity(spec RouteSpecification, itinerary Itinerary) HandlingActivity {
	if !d.onTrack() {
		return NoActivity
	}

	if d.LastEvent == nil {
		return HandlingActivity{Type: Receive, Location: spec.Origin}
	}

	legs := itinerary.legs
	last := d.LastEvent

	switch last.Type {
	case Load:
		for _, leg := range legs {
			if leg.LoadLocation.SameIdentityAs(last.Location) {
				return HandlingActivity{Type: Unload, Location: leg.UnloadLocation, Voyage: leg.Voyage}
			}
		}
		return NoActivity
	case Unload:
		for i, leg := range legs {
			if !leg.UnloadLocation.SameIdentityAs(last.Location) {
				continue
			}
			if i+1 < len(legs) {
				next := legs[i+1]
				return HandlingActivity{Type: Load, Location: next.LoadLocation, Voyage: next.Voyage}
			}
			return HandlingActivity{Type: Claim, Location: leg.UnloadLocation}
		}
		return NoActivity
	case Receive:
		// On track implies routed, so there is a first leg.
		first := legs[0]
		return HandlingActivity{Type: Load, Location: first.LoadLocation, Voyage: first.Voyage}
	case Customs, Claim:
		return NoActivity
	}
	return NoActivity
}

func (d Delivery) calculateUnloadedAtDestination(spec RouteSpecification) bool {
	return d.LastEvent != nil &&
		d.LastEvent.Type == Unload &&
		spec.Destination.SameIdentityAs(d.LastEvent.Location)
}
