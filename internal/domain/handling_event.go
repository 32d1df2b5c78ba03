package domain

import (
	"fmt"
	"strings"
	"time"
)

type HandlingEventType int

// Declared in lifecycle order, which also breaks completion-time ties.
const (
	Receive HandlingEventType = iota + 1
	Load
	Unload
	Customs
	Claim
)

var handlingEventTypeNames = map[HandlingEventType]string{
	Receive: "RECEIVE",
	Load:    "LOAD",
	Unload:  "UNLOAD",
	Customs: "CUSTOMS",
	Claim:   "CLAIM",
}

func HandlingEventTypes() []HandlingEventType {
	return []HandlingEventType{Receive, Load, Unload, Customs, Claim}
}

func ParseHandlingEventType(s string) (HandlingEventType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for t, n := range handlingEventTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, invalidArgument("unknown handling event type %q", s)
}

func (t HandlingEventType) Valid() bool {
	_, ok := handlingEventTypeNames[t]
	return ok
}

func (t HandlingEventType) String() string {
	if n, ok := handlingEventTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("HandlingEventType(%d)", int(t))
}

// Only loading onto and unloading off a carrier happen on a voyage.
func (t HandlingEventType) RequiresVoyage() bool {
	return t == Load || t == Unload
}

func (t HandlingEventType) ProhibitsVoyage() bool {
	return !t.RequiresVoyage()
}

// HandlingEvent records one real-world occurrence for a cargo. It is its own
// aggregate and refers to the cargo by tracking id only.
type HandlingEvent struct {
	// ID is assigned by the repository and stays zero until the event is stored.
	ID               int64
	TrackingID       TrackingID
	Type             HandlingEventType
	Location         Location
	Voyage           VoyageNumber
	CompletionTime   time.Time
	RegistrationTime time.Time
}

func NewHandlingEvent(
	trackingID TrackingID,
	completionTime time.Time,
	registrationTime time.Time,
	eventType HandlingEventType,
	location Location,
	voyage VoyageNumber,
) (HandlingEvent, error) {
	switch {
	case trackingID == "":
		return HandlingEvent{}, invalidArgument("handling event: tracking id is required")
	case completionTime.IsZero():
		return HandlingEvent{}, invalidArgument("handling event: completion time is required")
	case registrationTime.IsZero():
		return HandlingEvent{}, invalidArgument("handling event: registration time is required")
	case !eventType.Valid():
		return HandlingEvent{}, invalidArgument("handling event: type is required")
	case location.IsUnknown():
		return HandlingEvent{}, invalidArgument("handling event: location is required")
	}

	if eventType.RequiresVoyage() && voyage.IsNone() {
		return HandlingEvent{}, fmt.Errorf("%w: voyage is required for event type %s", ErrInvalidHandlingEvent, eventType)
	}
	if eventType.ProhibitsVoyage() && !voyage.IsNone() {
		return HandlingEvent{}, fmt.Errorf("%w: voyage is not allowed with event type %s", ErrInvalidHandlingEvent, eventType)
	}

	return HandlingEvent{
		TrackingID:       trackingID,
		Type:             eventType,
		Location:         location,
		Voyage:           voyage,
		CompletionTime:   completionTime,
		RegistrationTime: registrationTime,
	}, nil
}

// SameEventAs compares what happened, where, when and to which cargo.
// Registration time and storage id are not part of it.
func (e HandlingEvent) SameEventAs(other HandlingEvent) bool {
	return e.TrackingID == other.TrackingID &&
		e.Type == other.Type &&
		e.Voyage == other.Voyage &&
		e.Location.SameIdentityAs(other.Location) &&
		e.CompletionTime.Equal(other.CompletionTime)
}
