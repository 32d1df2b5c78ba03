package cache

import (
	"cargo-tracking-service/internal/platform/logger"
	"cargo-tracking-service/internal/platform/metrics"
	"cargo-tracking-service/internal/platform/obs"
	"cargo-tracking-service/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	routeKeyPrefix = "routes:"
	// upstreamTimeout bounds a shared upstream lookup, which outlives the
	// caller that started it.
	upstreamTimeout = 30 * time.Second
)

// RouteCache is a RoutingProvider that remembers the raw candidates of
// another provider in Redis. Concurrent misses for one key share a single
// upstream call. Cache failures fall through to the upstream provider.
type RouteCache struct {
	client redis.UniversalClient
	next   ports.RoutingProvider
	ttl    time.Duration
	group  singleflight.Group
}

func NewRouteCache(client redis.UniversalClient, next ports.RoutingProvider, ttl time.Duration) *RouteCache {
	return &RouteCache{client: client, next: next, ttl: ttl}
}

func routeKey(origin, destination string, deadline time.Time) string {
	return routeKeyPrefix + origin + ":" + destination + ":" + strconv.FormatInt(deadline.Unix(), 10)
}

func (c *RouteCache) FindShortestPath(
	ctx context.Context,
	origin string,
	destination string,
	deadline time.Time,
) ([]ports.TransitPath, error) {
	key := routeKey(origin, destination, deadline)
	log := logger.FromContext(ctx)

	paths, ok, err := c.Get(ctx, key)
	if err != nil {
		log.Warn("route cache read failed", "key", key, "err", err)
	}
	if ok {
		metrics.RouteCacheLookups.WithLabelValues("hit").Inc()
		return paths, nil
	}
	metrics.RouteCacheLookups.WithLabelValues("miss").Inc()

	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), upstreamTimeout)
		defer cancel()

		paths, err := c.next.FindShortestPath(fctx, origin, destination, deadline)
		if err != nil {
			return nil, err
		}
		if err := c.Put(fctx, key, paths); err != nil {
			log.Warn("route cache write failed", "key", key, "err", err)
		}
		return paths, nil
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("find shortest path %s->%s: %w", origin, destination, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]ports.TransitPath), nil
	}
}

// Get returns the cached candidates for key. A miss is not an error.
func (c *RouteCache) Get(ctx context.Context, key string) (_ []ports.TransitPath, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: %w", err)
	}

	var paths []ports.TransitPath
	if err := json.Unmarshal(raw, &paths); err != nil {
		return nil, false, fmt.Errorf("get route cache: decode %q: %w", key, err)
	}
	return paths, true, nil
}

// Put stores candidates under key for the configured ttl.
func (c *RouteCache) Put(ctx context.Context, key string, paths []ports.TransitPath) error {
	if paths == nil {
		paths = []ports.TransitPath{}
	}
	raw, err := json.Marshal(paths)
	if err != nil {
		return fmt.Errorf("put route cache: encode: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("put route cache: %w", err)
	}
	return nil
}
