package domain

import (
	"errors"
	"fmt"
)

// Domain failures. Validation and invariant errors are raised before any state
// changes; reference errors abort handling event creation entirely.
var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInvalidHandlingEvent = errors.New("invalid handling event")
	ErrReferenceResolution  = errors.New("unresolved reference")

	ErrUnknownCargo    = errors.New("unknown cargo")
	ErrUnknownVoyage   = errors.New("unknown voyage")
	ErrUnknownLocation = errors.New("unknown location")
)

type UnknownCargoError struct {
	TrackingID TrackingID
}

func (e *UnknownCargoError) Error() string {
	return fmt.Sprintf("unknown cargo %q", e.TrackingID)
}

func (e *UnknownCargoError) Is(target error) bool {
	return target == ErrUnknownCargo || target == ErrReferenceResolution
}

type UnknownVoyageError struct {
	VoyageNumber VoyageNumber
}

func (e *UnknownVoyageError) Error() string {
	return fmt.Sprintf("unknown voyage %q", e.VoyageNumber)
}

func (e *UnknownVoyageError) Is(target error) bool {
	return target == ErrUnknownVoyage || target == ErrReferenceResolution
}

type UnknownLocationError struct {
	UnLocode UnLocode
}

func (e *UnknownLocationError) Error() string {
	return fmt.Sprintf("unknown location %q", e.UnLocode)
}

func (e *UnknownLocationError) Is(target error) bool {
	return target == ErrUnknownLocation || target == ErrReferenceResolution
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
