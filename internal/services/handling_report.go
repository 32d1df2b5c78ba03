package services

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/platform/clock"
	"cargo-tracking-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// HandlingReport is a handling report in its raw, textual form.
type HandlingReport struct {
	CompletionTime string
	TrackingID     string
	VoyageNumber   string
	UnLocode       string
	EventType      string
}

// Accepted completion time layouts, tried in order.
var completionTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
}

// ParseHandlingReport checks the shape of a report. References are not
// resolved here; that happens when the attempt is registered.
func ParseHandlingReport(report HandlingReport, registrationTime time.Time) (ports.HandlingEventRegistrationAttempt, error) {
	var errs []error

	completion, err := parseCompletionTime(report.CompletionTime)
	errs = append(errs, err)

	trackingID, err := domain.ParseTrackingID(report.TrackingID)
	errs = append(errs, err)

	code, err := domain.ParseUnLocode(report.UnLocode)
	errs = append(errs, err)

	eventType, err := domain.ParseHandlingEventType(report.EventType)
	errs = append(errs, err)

	voyage := domain.VoyageNumber(strings.TrimSpace(report.VoyageNumber))

	if err := errors.Join(errs...); err != nil {
		return ports.HandlingEventRegistrationAttempt{}, fmt.Errorf("parse handling report: %w", err)
	}

	return ports.HandlingEventRegistrationAttempt{
		RegistrationTime: registrationTime,
		CompletionTime:   completion,
		TrackingID:       trackingID,
		VoyageNumber:     voyage,
		UnLocode:         code,
		Type:             eventType,
	}, nil
}

func parseCompletionTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: completion time is required", domain.ErrInvalidArgument)
	}
	for _, layout := range completionTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: completion time %q is not in a supported format", domain.ErrInvalidArgument, s)
}

// HandlingReportService accepts reports and queues them for registration.
type HandlingReportService struct {
	app   ports.ApplicationEvents
	clock clock.Clock
}

func NewHandlingReportService(app ports.ApplicationEvents, clk clock.Clock) *HandlingReportService {
	return &HandlingReportService{app: app, clock: clk}
}

func (s *HandlingReportService) SubmitReport(ctx context.Context, report HandlingReport) (ports.HandlingEventRegistrationAttempt, error) {
	attempt, err := ParseHandlingReport(report, s.clock.Now())
	if err != nil {
		return ports.HandlingEventRegistrationAttempt{}, err
	}
	if err := s.app.ReceivedHandlingEventRegistrationAttempt(ctx, attempt); err != nil {
		return ports.HandlingEventRegistrationAttempt{}, fmt.Errorf("submit handling report: %w", err)
	}
	return attempt, nil
}
