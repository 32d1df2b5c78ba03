package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TrackingID is assigned at booking and never changes.
type TrackingID string

var trackingIDPattern = regexp.MustCompile(`^[A-Z0-9]{3,32}$`)

// NewTrackingID derives a short upper-case id from a random UUID.
func NewTrackingID() TrackingID {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return TrackingID(strings.ToUpper(raw[:8]))
}

func ParseTrackingID(s string) (TrackingID, error) {
	id := strings.ToUpper(strings.TrimSpace(s))
	if !trackingIDPattern.MatchString(id) {
		return "", invalidArgument("malformed tracking id %q", s)
	}
	return TrackingID(id), nil
}

func (id TrackingID) String() string { return string(id) }

// Cargo is the aggregate root. It owns the route specification, the
// itinerary and the current delivery snapshot.
type Cargo struct {
	trackingID         TrackingID
	origin             Location
	routeSpecification RouteSpecification
	itinerary          Itinerary
	delivery           Delivery
}

// NewCargo books a cargo: unrouted, not received, origin fixed from the spec.
func NewCargo(trackingID TrackingID, spec RouteSpecification, now time.Time) (*Cargo, error) {
	if trackingID == "" {
		return nil, invalidArgument("cargo: tracking id is required")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	return &Cargo{
		trackingID:         trackingID,
		origin:             spec.Origin,
		routeSpecification: spec,
		itinerary:          EmptyItinerary,
		delivery:           DeliveryDerivedFrom(spec, EmptyItinerary, EmptyHandlingHistory, now),
	}, nil
}

// RestoreCargo rebuilds a stored cargo without recomputing its snapshot.
func RestoreCargo(
	trackingID TrackingID,
	origin Location,
	spec RouteSpecification,
	itinerary Itinerary,
	delivery Delivery,
) *Cargo {
	return &Cargo{
		trackingID:         trackingID,
		origin:             origin,
		routeSpecification: spec,
		itinerary:          itinerary,
		delivery:           delivery,
	}
}

func (c *Cargo) TrackingID() TrackingID                 { return c.trackingID }
func (c *Cargo) Origin() Location                       { return c.origin }
func (c *Cargo) RouteSpecification() RouteSpecification { return c.routeSpecification }
func (c *Cargo) Itinerary() Itinerary                   { return c.itinerary }
func (c *Cargo) Delivery() Delivery                     { return c.delivery }

// SpecifyNewRoute replaces the route specification and recomputes delivery
// from the current last event.
func (c *Cargo) SpecifyNewRoute(spec RouteSpecification, now time.Time) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	c.routeSpecification = spec
	c.delivery = c.delivery.UpdateOnRouting(c.routeSpecification, c.itinerary, now)
	return nil
}

// AssignToRoute replaces the itinerary. It does not check the itinerary
// against the route specification; a mismatch shows up as MISROUTED.
func (c *Cargo) AssignToRoute(itinerary Itinerary, now time.Time) error {
	if itinerary.IsEmpty() {
		return invalidArgument("cargo %s: itinerary is required for assignment", c.trackingID)
	}
	c.itinerary = itinerary
	c.delivery = c.delivery.UpdateOnRouting(c.routeSpecification, c.itinerary, now)
	return nil
}

// DeriveDeliveryProgress replaces delivery with one derived from the full
// handling history of this cargo.
func (c *Cargo) DeriveDeliveryProgress(history HandlingHistory, now time.Time) error {
	for _, e := range history.events {
		if e.TrackingID != c.trackingID {
			return invalidArgument("cargo %s: history contains event for cargo %s", c.trackingID, e.TrackingID)
		}
	}
	c.delivery = DeliveryDerivedFrom(c.routeSpecification, c.itinerary, history, now)
	return nil
}

func (c *Cargo) SameIdentityAs(other *Cargo) bool {
	return other != nil && c.trackingID == other.trackingID
}

func (c *Cargo) String() string { return string(c.trackingID) }
