package routing

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/platform/obs"
	"cargo-tracking-service/internal/ports"
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"
)

const (
	defaultMaxLegs       = 3
	defaultMaxCandidates = 5
)

// ScheduleProvider finds paths over the voyage schedules in the reference
// data. It stands in for the external service in development.
type ScheduleProvider struct {
	voyages       ports.VoyageRepository
	maxLegs       int
	maxCandidates int
}

func NewScheduleProvider(voyages ports.VoyageRepository) *ScheduleProvider {
	return &ScheduleProvider{voyages: voyages, maxLegs: defaultMaxLegs, maxCandidates: defaultMaxCandidates}
}

func (p *ScheduleProvider) FindShortestPath(
	ctx context.Context,
	origin string,
	destination string,
	deadline time.Time,
) (_ []ports.TransitPath, err error) {
	defer obs.Time(ctx, "routing.schedule.FindShortestPath")(&err)

	voyages, err := p.voyages.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find shortest path: load voyages: %w", err)
	}

	byOrigin := make(map[string][]ports.TransitEdge)
	for _, v := range voyages {
		for _, e := range hopsOf(v) {
			byOrigin[e.FromUnLocode] = append(byOrigin[e.FromUnLocode], e)
		}
	}

	var found []ports.TransitPath
	visited := map[string]bool{origin: true}

	var walk func(at string, ready time.Time, path []ports.TransitEdge)
	walk = func(at string, ready time.Time, path []ports.TransitEdge) {
		if at == destination && len(path) > 0 {
			found = append(found, ports.TransitPath{Edges: slices.Clone(path)})
			return
		}
		if len(path) == p.maxLegs {
			return
		}
		for _, e := range byOrigin[at] {
			if visited[e.ToUnLocode] || e.FromDate.Before(ready) {
				continue
			}
			if !deadline.IsZero() && e.ToDate.After(deadline) {
				continue
			}
			visited[e.ToUnLocode] = true
			walk(e.ToUnLocode, e.ToDate, append(path, e))
			visited[e.ToUnLocode] = false
		}
	}
	walk(origin, time.Time{}, nil)

	slices.SortStableFunc(found, func(a, b ports.TransitPath) int {
		if c := arrival(a).Compare(arrival(b)); c != 0 {
			return c
		}
		return cmp.Compare(len(a.Edges), len(b.Edges))
	})
	if len(found) > p.maxCandidates {
		found = found[:p.maxCandidates]
	}
	return found, nil
}

// hopsOf returns one edge per (board, alight) pair along a voyage's
// schedule, so a cargo may stay on board across several movements.
func hopsOf(v domain.Voyage) []ports.TransitEdge {
	ms := v.Schedule.CarrierMovements
	var out []ports.TransitEdge
	for i := range ms {
		for j := i; j < len(ms); j++ {
			out = append(out, ports.TransitEdge{
				VoyageNumber: v.Number.String(),
				FromUnLocode: ms[i].DepartureLocation.UnLocode.String(),
				ToUnLocode:   ms[j].ArrivalLocation.UnLocode.String(),
				FromDate:     ms[i].DepartureTime,
				ToDate:       ms[j].ArrivalTime,
			})
		}
	}
	return out
}

func arrival(p ports.TransitPath) time.Time {
	return p.Edges[len(p.Edges)-1].ToDate
}
