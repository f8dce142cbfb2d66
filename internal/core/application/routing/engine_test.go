package routing_test

import (
	"context"
	"errors"
	"testing"

	"freight/internal/core/application/routing"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRoutingProvider struct {
	mock.Mock
}

func (m *MockRoutingProvider) Route(
	ctx context.Context, origin kernel.GeoPoint, destination kernel.GeoPoint,
) (ports.RouteLeg, error) {
	args := m.Called(ctx, origin, destination)
	return args.Get(0).(ports.RouteLeg), args.Error(1)
}

func newTestEngine(t *testing.T, provider ports.RoutingProvider) *routing.Engine {
	t.Helper()

	policy, err := retry.NewPolicy(3, 0)
	require.NoError(t, err)

	e, err := routing.NewEngine(provider, policy)
	require.NoError(t, err)
	return e
}

func point(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func TestEngine_ComputeRoute(t *testing.T) {
	ctx := context.Background()
	berlin := func(t *testing.T) kernel.GeoPoint { return point(t, 52.52, 13.405) }
	hamburg := func(t *testing.T) kernel.GeoPoint { return point(t, 53.5511, 9.9937) }
	bremen := func(t *testing.T) kernel.GeoPoint { return point(t, 53.0793, 8.8017) }

	t.Run("two waypoints keep the provider geometry", func(t *testing.T) {
		provider := &MockRoutingProvider{}
		provider.On("Route", ctx, berlin(t), hamburg(t)).Return(ports.RouteLeg{
			DistanceKm:      289.2,
			DurationMinutes: 180,
			Geometry:        "encoded-polyline",
		}, nil).Once()

		e := newTestEngine(t, provider)

		result, err := e.ComputeRoute(ctx, []kernel.GeoPoint{berlin(t), hamburg(t)})

		require.NoError(t, err)
		assert.InEpsilon(t, 289.2, result.DistanceKm, 1e-9)
		assert.Equal(t, 180, result.DurationMinutes)
		require.NotNil(t, result.Geometry)
		assert.Equal(t, "encoded-polyline", *result.Geometry)
		assert.False(t, result.IsFallback)
		provider.AssertExpectations(t)
	})

	t.Run("multi-stop route sums pairwise segments without geometry", func(t *testing.T) {
		provider := &MockRoutingProvider{}
		provider.On("Route", ctx, berlin(t), hamburg(t)).Return(ports.RouteLeg{
			DistanceKm: 289.2, DurationMinutes: 180, Geometry: "leg-1",
		}, nil).Once()
		provider.On("Route", ctx, hamburg(t), bremen(t)).Return(ports.RouteLeg{
			DistanceKm: 126.4, DurationMinutes: 85, Geometry: "leg-2",
		}, nil).Once()

		e := newTestEngine(t, provider)

		result, err := e.ComputeRoute(ctx, []kernel.GeoPoint{berlin(t), hamburg(t), bremen(t)})

		require.NoError(t, err)
		assert.InEpsilon(t, 415.6, result.DistanceKm, 1e-6)
		assert.Equal(t, 265, result.DurationMinutes)
		assert.Nil(t, result.Geometry)
		assert.False(t, result.IsFallback)
		provider.AssertExpectations(t)
	})

	t.Run("retries transient failures before succeeding", func(t *testing.T) {
		provider := &MockRoutingProvider{}
		provider.On("Route", ctx, berlin(t), hamburg(t)).
			Return(ports.RouteLeg{}, ports.ErrProviderUnavailable).Twice()
		provider.On("Route", ctx, berlin(t), hamburg(t)).Return(ports.RouteLeg{
			DistanceKm: 289.2, DurationMinutes: 180,
		}, nil).Once()

		e := newTestEngine(t, provider)

		result, err := e.ComputeRoute(ctx, []kernel.GeoPoint{berlin(t), hamburg(t)})

		require.NoError(t, err)
		assert.False(t, result.IsFallback)
		provider.AssertNumberOfCalls(t, "Route", 3)
	})

	t.Run("falls back to the analytic estimate when the provider stays down", func(t *testing.T) {
		provider := &MockRoutingProvider{}
		provider.On("Route", ctx, berlin(t), hamburg(t)).
			Return(ports.RouteLeg{}, ports.ErrProviderUnavailable)

		e := newTestEngine(t, provider)

		result, err := e.ComputeRoute(ctx, []kernel.GeoPoint{berlin(t), hamburg(t)})

		require.NoError(t, err)
		assert.True(t, result.IsFallback)
		assert.Nil(t, result.Geometry)

		// Berlin to Hamburg is roughly 255 km great-circle; the estimate
		// inflates it by 1.3 and assumes 40 km/h.
		greatCircle, haversineErr := berlin(t).HaversineKm(hamburg(t))
		require.NoError(t, haversineErr)
		assert.InEpsilon(t, greatCircle*1.3, result.DistanceKm, 1e-9)
		assert.InDelta(t, result.DistanceKm/40*60, float64(result.DurationMinutes), 0.5)
		provider.AssertNumberOfCalls(t, "Route", 3)
	})

	t.Run("each segment falls back independently", func(t *testing.T) {
		provider := &MockRoutingProvider{}
		provider.On("Route", ctx, berlin(t), hamburg(t)).Return(ports.RouteLeg{
			DistanceKm: 289.2, DurationMinutes: 180, Geometry: "leg-1",
		}, nil).Once()
		provider.On("Route", ctx, hamburg(t), bremen(t)).
			Return(ports.RouteLeg{}, ports.ErrProviderUnavailable)

		e := newTestEngine(t, provider)

		result, err := e.ComputeRoute(ctx, []kernel.GeoPoint{berlin(t), hamburg(t), bremen(t)})

		require.NoError(t, err)
		assert.True(t, result.IsFallback)
		assert.Nil(t, result.Geometry)

		greatCircle, haversineErr := hamburg(t).HaversineKm(bremen(t))
		require.NoError(t, haversineErr)
		assert.InEpsilon(t, 289.2+greatCircle*1.3, result.DistanceKm, 1e-9)
	})

	t.Run("permanent segment failure aborts the whole route", func(t *testing.T) {
		provider := &MockRoutingProvider{}
		permanent := errors.New("invalid coordinates")
		provider.On("Route", ctx, berlin(t), hamburg(t)).Return(ports.RouteLeg{
			DistanceKm: 289.2, DurationMinutes: 180,
		}, nil).Once()
		provider.On("Route", ctx, hamburg(t), bremen(t)).
			Return(ports.RouteLeg{}, permanent).Once()

		e := newTestEngine(t, provider)

		_, err := e.ComputeRoute(ctx, []kernel.GeoPoint{berlin(t), hamburg(t), bremen(t)})

		require.Error(t, err)
		require.ErrorIs(t, err, permanent)
		assert.Contains(t, err.Error(), "segment 1 failed")
	})

	t.Run("rejects fewer than two waypoints", func(t *testing.T) {
		e := newTestEngine(t, &MockRoutingProvider{})

		_, err := e.ComputeRoute(ctx, []kernel.GeoPoint{berlin(t)})

		require.Error(t, err)
	})

	t.Run("rejects unconstructed waypoints", func(t *testing.T) {
		e := newTestEngine(t, &MockRoutingProvider{})
		var zero kernel.GeoPoint

		_, err := e.ComputeRoute(ctx, []kernel.GeoPoint{berlin(t), zero})

		require.Error(t, err)
	})
}
