package domain

import "time"

// RouteSpecification is what the customer asked for: where the cargo starts,
// where it must end up, and by when. Replacing it on a cargo is a re-route.
type RouteSpecification struct {
	Origin          Location
	Destination     Location
	ArrivalDeadline time.Time
}

func NewRouteSpecification(origin, destination Location, arrivalDeadline time.Time) (RouteSpecification, error) {
	spec := RouteSpecification{
		Origin:          origin,
		Destination:     destination,
		ArrivalDeadline: arrivalDeadline,
	}
	if err := spec.Validate(); err != nil {
		return RouteSpecification{}, err
	}
	return spec, nil
}

// Validate reports a missing field. Origin equal to destination is allowed.
func (s RouteSpecification) Validate() error {
	if s.Origin.IsUnknown() {
		return invalidArgument("route specification: origin is required")
	}
	if s.Destination.IsUnknown() {
		return invalidArgument("route specification: destination is required")
	}
	if s.ArrivalDeadline.IsZero() {
		return invalidArgument("route specification: arrival deadline is required")
	}
	return nil
}

// IsSatisfiedBy holds when the itinerary starts at the origin, ends at the
// destination, and arrives no later than the deadline.
func (s RouteSpecification) IsSatisfiedBy(itinerary Itinerary) bool {
	if itinerary.IsEmpty() {
		return false
	}
	return s.Origin.SameIdentityAs(itinerary.InitialDepartureLocation()) &&
		s.Destination.SameIdentityAs(itinerary.FinalArrivalLocation()) &&
		!itinerary.FinalArrivalDate().After(s.ArrivalDeadline)
}

func (s RouteSpecification) Equal(other RouteSpecification) bool {
	return s.Origin.SameIdentityAs(other.Origin) &&
		s.Destination.SameIdentityAs(other.Destination) &&
		s.ArrivalDeadline.Equal(other.ArrivalDeadline)
}
