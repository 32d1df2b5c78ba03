package services

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/platform/logger"
	"cargo-tracking-service/internal/platform/obs"
	"cargo-tracking-service/internal/ports"
	"context"
	"fmt"
)

// RoutingService translates between the routing provider's raw transit paths
// and our itineraries.
type RoutingService struct {
	provider  ports.RoutingProvider
	voyages   ports.VoyageRepository
	locations ports.LocationRepository
}

func NewRoutingService(provider ports.RoutingProvider, voyages ports.VoyageRepository, locations ports.LocationRepository) *RoutingService {
	return &RoutingService{provider: provider, voyages: voyages, locations: locations}
}

// FetchRoutesForSpecification returns the provider's candidates that resolve
// against reference data and satisfy spec. Other candidates are dropped.
func (s *RoutingService) FetchRoutesForSpecification(ctx context.Context, spec domain.RouteSpecification) (_ []domain.Itinerary, err error) {
	ctx, done := obs.Span(ctx, "routing.FetchRoutesForSpecification")
	defer done(&err)

	paths, err := s.provider.FindShortestPath(ctx,
		spec.Origin.UnLocode.String(),
		spec.Destination.UnLocode.String(),
		spec.ArrivalDeadline,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch routes %s -> %s: %w", spec.Origin.UnLocode, spec.Destination.UnLocode, err)
	}

	log := logger.FromContext(ctx)
	out := make([]domain.Itinerary, 0, len(paths))
	for i, path := range paths {
		itinerary, err := s.toItinerary(ctx, path)
		if err != nil {
			log.Debug("dropping route candidate", "candidate", i, "err", err)
			continue
		}
		if !spec.IsSatisfiedBy(itinerary) {
			log.Debug("dropping route candidate that does not satisfy the route specification", "candidate", i)
			continue
		}
		out = append(out, itinerary)
	}
	return out, nil
}

func (s *RoutingService) toItinerary(ctx context.Context, path ports.TransitPath) (domain.Itinerary, error) {
	legs := make([]domain.Leg, 0, len(path.Edges))
	for _, edge := range path.Edges {
		leg, err := s.toLeg(ctx, edge)
		if err != nil {
			return domain.EmptyItinerary, err
		}
		legs = append(legs, leg)
	}
	return domain.NewItinerary(legs...)
}

func (s *RoutingService) toLeg(ctx context.Context, edge ports.TransitEdge) (domain.Leg, error) {
	number, err := domain.ParseVoyageNumber(edge.VoyageNumber)
	if err != nil {
		return domain.Leg{}, err
	}
	voyage, err := findVoyage(ctx, s.voyages, number)
	if err != nil {
		return domain.Leg{}, err
	}

	from, err := s.resolve(ctx, edge.FromUnLocode)
	if err != nil {
		return domain.Leg{}, err
	}
	to, err := s.resolve(ctx, edge.ToUnLocode)
	if err != nil {
		return domain.Leg{}, err
	}

	return domain.NewLeg(voyage.Number, from, to, edge.FromDate.UTC(), edge.ToDate.UTC())
}

func (s *RoutingService) resolve(ctx context.Context, raw string) (domain.Location, error) {
	code, err := domain.ParseUnLocode(raw)
	if err != nil {
		return domain.UnknownLocation, err
	}
	return findLocation(ctx, s.locations, code)
}
