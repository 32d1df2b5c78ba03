package cache

import (
	"cargo-tracking-service/internal/ports"
	"cargo-tracking-service/internal/ports/mocks"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var deadline = time.Date(2009, 3, 20, 0, 0, 0, 0, time.UTC)

func candidates() []ports.TransitPath {
	return []ports.TransitPath{{Edges: []ports.TransitEdge{{
		VoyageNumber: "V100",
		FromUnLocode: "CNHKG",
		ToUnLocode:   "USNYC",
		FromDate:     time.Date(2009, 3, 1, 0, 0, 0, 0, time.UTC),
		ToDate:       time.Date(2009, 3, 12, 0, 0, 0, 0, time.UTC),
	}}}}
}

func newCache(t *testing.T) (*RouteCache, *mocks.MockRoutingProvider, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	upstream := mocks.NewMockRoutingProvider(gomock.NewController(t))
	return NewRouteCache(client, upstream, time.Minute), upstream, srv
}

func TestRouteCacheServesRepeatLookups(t *testing.T) {
	c, upstream, srv := newCache(t)
	ctx := context.Background()

	upstream.EXPECT().FindShortestPath(gomock.Any(), "CNHKG", "USNYC", deadline).Return(candidates(), nil).Times(1)

	first, err := c.FindShortestPath(ctx, "CNHKG", "USNYC", deadline)
	require.NoError(t, err)
	second, err := c.FindShortestPath(ctx, "CNHKG", "USNYC", deadline)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, candidates(), second)
	assert.True(t, srv.Exists(routeKey("CNHKG", "USNYC", deadline)))
}

func TestRouteCacheExpires(t *testing.T) {
	c, upstream, srv := newCache(t)
	ctx := context.Background()

	upstream.EXPECT().FindShortestPath(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(candidates(), nil).Times(2)

	_, err := c.FindShortestPath(ctx, "CNHKG", "USNYC", deadline)
	require.NoError(t, err)
	srv.FastForward(2 * time.Minute)
	_, err = c.FindShortestPath(ctx, "CNHKG", "USNYC", deadline)
	require.NoError(t, err)
}

func TestRouteCacheCachesEmptyAnswers(t *testing.T) {
	c, upstream, _ := newCache(t)
	ctx := context.Background()

	upstream.EXPECT().FindShortestPath(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)

	for range 2 {
		paths, err := c.FindShortestPath(ctx, "CNHKG", "SESTO", deadline)
		require.NoError(t, err)
		assert.Empty(t, paths)
	}
}

func TestRouteCacheDoesNotCacheFailures(t *testing.T) {
	c, upstream, srv := newCache(t)
	ctx := context.Background()

	boom := errors.New("upstream down")
	upstream.EXPECT().FindShortestPath(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom)

	_, err := c.FindShortestPath(ctx, "CNHKG", "USNYC", deadline)
	require.ErrorIs(t, err, boom)
	assert.False(t, srv.Exists(routeKey("CNHKG", "USNYC", deadline)))
}

func TestRouteCacheFallsThroughWhenRedisIsDown(t *testing.T) {
	c, upstream, srv := newCache(t)
	srv.Close()

	upstream.EXPECT().FindShortestPath(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(candidates(), nil)

	paths, err := c.FindShortestPath(context.Background(), "CNHKG", "USNYC", deadline)
	require.NoError(t, err)
	assert.Equal(t, candidates(), paths)
}

func TestRouteCacheIgnoresCorruptEntries(t *testing.T) {
	c, upstream, srv := newCache(t)
	require.NoError(t, srv.Set(routeKey("CNHKG", "USNYC", deadline), "not json"))

	upstream.EXPECT().FindShortestPath(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(candidates(), nil)

	paths, err := c.FindShortestPath(context.Background(), "CNHKG", "USNYC", deadline)
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}

func TestRouteCacheSharedLookupOutlivesCancelledCaller(t *testing.T) {
	c, upstream, srv := newCache(t)
	key := routeKey("CNHKG", "USNYC", deadline)

	started := make(chan struct{})
	proceed := make(chan struct{})
	upstreamErr := make(chan error, 1)
	upstream.EXPECT().FindShortestPath(gomock.Any(), "CNHKG", "USNYC", deadline).DoAndReturn(
		func(ctx context.Context, _, _ string, _ time.Time) ([]ports.TransitPath, error) {
			close(started)
			<-proceed
			upstreamErr <- ctx.Err()
			return candidates(), nil
		}).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	callerErr := make(chan error, 1)
	go func() {
		_, err := c.FindShortestPath(ctx, "CNHKG", "USNYC", deadline)
		callerErr <- err
	}()

	<-started
	cancel()
	require.ErrorIs(t, <-callerErr, context.Canceled)

	close(proceed)
	require.NoError(t, <-upstreamErr)
	require.Eventually(t, func() bool { return srv.Exists(key) }, time.Second, 5*time.Millisecond)

	paths, err := c.FindShortestPath(context.Background(), "CNHKG", "USNYC", deadline)
	require.NoError(t, err)
	assert.Equal(t, candidates(), paths)
}
