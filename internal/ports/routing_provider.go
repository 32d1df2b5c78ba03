package ports

//go:generate mockgen -source=routing_provider.go -destination=mocks/routing_provider.go -package=mocks

import (
	"context"
	"time"
)

// One voyage hop proposed by the routing provider, in raw codes.
type TransitEdge struct {
	VoyageNumber string    `json:"voyageNumber"`
	FromUnLocode string    `json:"fromUnLocode"`
	ToUnLocode   string    `json:"toUnLocode"`
	FromDate     time.Time `json:"fromDate"`
	ToDate       time.Time `json:"toDate"`
}

// A candidate route: consecutive transit edges.
type TransitPath struct {
	Edges []TransitEdge `json:"transitEdges"`
}

// Contract for the external path-finding service. Results are candidates only
// and are checked against the route specification before use.
type RoutingProvider interface {
	// Return candidate paths from origin to destination arriving by deadline.
	FindShortestPath(ctx context.Context, origin, destination string, deadline time.Time) ([]TransitPath, error)
}
