package domain

import (
	"slices"
	"strings"
	"time"
)

type VoyageNumber string

// NoVoyage is the empty voyage number: "not on board anything".
const NoVoyage VoyageNumber = ""

func ParseVoyageNumber(s string) (VoyageNumber, error) {
	n := strings.TrimSpace(s)
	if n == "" {
		return NoVoyage, invalidArgument("voyage number is required")
	}
	return VoyageNumber(n), nil
}

func (n VoyageNumber) IsNone() bool   { return n == NoVoyage }
func (n VoyageNumber) String() string { return string(n) }

// A single vessel movement between two ports.
type CarrierMovement struct {
	DepartureLocation Location
	ArrivalLocation   Location
	DepartureTime     time.Time
	ArrivalTime       time.Time
}

type Schedule struct {
	CarrierMovements []CarrierMovement
}

// Voyage is reference data: a numbered series of carrier movements.
type Voyage struct {
	Number   VoyageNumber
	Schedule Schedule
}

func NewVoyage(number VoyageNumber, schedule Schedule) (Voyage, error) {
	if number.IsNone() {
		return Voyage{}, invalidArgument("voyage number is required")
	}
	for i, m := range schedule.CarrierMovements {
		if m.DepartureLocation.IsUnknown() || m.ArrivalLocation.IsUnknown() {
			return Voyage{}, invalidArgument("voyage %s movement %d: locations are required", number, i)
		}
		if m.DepartureTime.IsZero() || m.ArrivalTime.IsZero() {
			return Voyage{}, invalidArgument("voyage %s movement %d: times are required", number, i)
		}
	}
	return Voyage{
		Number:   number,
		Schedule: Schedule{CarrierMovements: slices.Clone(schedule.CarrierMovements)},
	}, nil
}

// ScheduleBuilder chains movements so each departs from where the previous one arrived.
type ScheduleBuilder struct {
	departure Location
	movements []CarrierMovement
}

func NewScheduleBuilder(departure Location) *ScheduleBuilder {
	return &ScheduleBuilder{departure: departure}
}

func (b *ScheduleBuilder) AddMovement(arrival Location, departureTime, arrivalTime time.Time) *ScheduleBuilder {
	b.movements = append(b.movements, CarrierMovement{
		DepartureLocation: b.departure,
		ArrivalLocation:   arrival,
		DepartureTime:     departureTime,
		ArrivalTime:       arrivalTime,
	})
	b.departure = arrival
	return b
}

func (b *ScheduleBuilder) Build() Schedule {
	return Schedule{CarrierMovements: slices.Clone(b.movements)}
}
