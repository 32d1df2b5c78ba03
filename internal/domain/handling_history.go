package domain

import (
	"cmp"
	"slices"
)

// HandlingHistory is every handling event recorded for one cargo, kept in
// completion order.
type HandlingHistory struct {
	events []HandlingEvent
}

var EmptyHandlingHistory = HandlingHistory{}

func NewHandlingHistory(events ...HandlingEvent) HandlingHistory {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, compareCompletion)
	return HandlingHistory{events: sorted}
}

// compareCompletion orders by completion time; ties fall back to registration
// time, lifecycle order, location and voyage so the order is total.
func compareCompletion(a, b HandlingEvent) int {
	if c := a.CompletionTime.Compare(b.CompletionTime); c != 0 {
		return c
	}
	if c := a.RegistrationTime.Compare(b.RegistrationTime); c != 0 {
		return c
	}
	return cmp.Or(
		cmp.Compare(a.Type, b.Type),
		cmp.Compare(a.Location.UnLocode, b.Location.UnLocode),
		cmp.Compare(a.Voyage, b.Voyage),
	)
}

func (h HandlingHistory) Len() int { return len(h.events) }

func (h HandlingHistory) Events() []HandlingEvent { return slices.Clone(h.events) }

type distinctKey struct {
	completion int64
	location   UnLocode
	eventType  HandlingEventType
	voyage     VoyageNumber
}

// DistinctEventsByCompletionTime drops repeated reports of the same event,
// keeping the first registered one.
func (h HandlingHistory) DistinctEventsByCompletionTime() []HandlingEvent {
	seen := make(map[distinctKey]struct{}, len(h.events))
	out := make([]HandlingEvent, 0, len(h.events))
	for _, e := range h.events {
		k := distinctKey{
			completion: e.CompletionTime.UnixNano(),
			location:   e.Location.UnLocode,
			eventType:  e.Type,
			voyage:     e.Voyage,
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}

// MostRecentlyCompletedEvent returns nil for an empty history. A claim is
// terminal: once one is recorded, the latest claim wins over any event
// reported as completed after it.
func (h HandlingHistory) MostRecentlyCompletedEvent() *HandlingEvent {
	if len(h.events) == 0 {
		return nil
	}
	for i := len(h.events) - 1; i >= 0; i-- {
		if h.events[i].Type == Claim {
			e := h.events[i]
			return &e
		}
	}
	e := h.events[len(h.events)-1]
	return &e
}
