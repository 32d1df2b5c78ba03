package routing

import (
	"cargo-tracking-service/internal/platform/obs"
	"cargo-tracking-service/internal/platform/sentinel"
	"cargo-tracking-service/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GraphTraversalProvider implements RoutingProvider against the external
// path-finding service:
//
//	GET {baseURL}?origin=CNHKG&destination=USNYC&deadline=2009-03-20T00:00:00Z
//
// answered with a JSON array of transit paths. It is safe for concurrent use.
type GraphTraversalProvider struct {
	session     *http.Client
	baseURL     string
	maxAttempts int
	backoff     time.Duration
}

func NewGraphTraversalProvider(baseURL string) (*GraphTraversalProvider, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("routing service url is empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("routing service url: %w", err)
	}

	return &GraphTraversalProvider{
		session:     &http.Client{Timeout: 10 * time.Second},
		baseURL:     baseURL,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}, nil
}

func (p *GraphTraversalProvider) FindShortestPath(
	ctx context.Context,
	origin string,
	destination string,
	deadline time.Time,
) (_ []ports.TransitPath, err error) {
	ctx, done := obs.Span(ctx, "routing.FindShortestPath")
	defer done(&err)

	if origin == "" || destination == "" {
		return nil, errors.New("find shortest path: origin and destination must be non-empty")
	}

	q := url.Values{}
	q.Set("origin", origin)
	q.Set("destination", destination)
	if !deadline.IsZero() {
		q.Set("deadline", deadline.UTC().Format(time.RFC3339))
	}
	target := p.baseURL + "?" + q.Encode()

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, http.MethodGet, target)
	})
	if err != nil {
		return nil, fmt.Errorf("find shortest path %s -> %s: %w: %w", origin, destination, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var paths []ports.TransitPath
	if err := json.NewDecoder(resp.Body).Decode(&paths); err != nil {
		return nil, fmt.Errorf("find shortest path %s -> %s: decode response: %w", origin, destination, err)
	}
	return paths, nil
}
