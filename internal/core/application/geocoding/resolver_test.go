package geocoding_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"freight/internal/core/application/geocoding"
	"freight/internal/core/ports"
	"freight/internal/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGeocodingProvider struct {
	mock.Mock
}

func (m *MockGeocodingProvider) Search(ctx context.Context, query ports.GeocodeQuery) ([]ports.Place, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.Place), args.Error(1)
}

func newTestResolver(t *testing.T, provider ports.GeocodingProvider) *geocoding.Resolver {
	t.Helper()

	policy, err := retry.NewPolicy(3, 0)
	require.NoError(t, err)

	r, err := geocoding.NewResolver(provider, 10, time.Hour, policy, 0)
	require.NoError(t, err)
	return r
}

func berlinPlace() ports.Place {
	return ports.Place{Lat: 52.5323, Lon: 13.3846, DisplayName: "Invalidenstraße 10, 10115 Berlin"}
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves via the full query", func(t *testing.T) {
		provider := &MockGeocodingProvider{}
		provider.On("Search", ctx, ports.GeocodeQuery{
			Query:   "Invalidenstraße 10, 10115 Berlin",
			Country: "de",
			Limit:   1,
		}).Return([]ports.Place{berlinPlace()}, nil).Once()

		r := newTestResolver(t, provider)

		coords, err := r.Resolve(ctx, "Invalidenstraße 10", "10115", "Berlin", "de")

		require.NoError(t, err)
		assert.InEpsilon(t, 52.5323, coords.Point.Lat(), 1e-9)
		assert.InEpsilon(t, 13.3846, coords.Point.Lon(), 1e-9)
		assert.Equal(t, "Invalidenstraße 10, 10115 Berlin", coords.DisplayName)
		provider.AssertExpectations(t)
	})

	t.Run("second call is served from cache", func(t *testing.T) {
		provider := &MockGeocodingProvider{}
		provider.On("Search", ctx, mock.Anything).Return([]ports.Place{berlinPlace()}, nil).Once()

		r := newTestResolver(t, provider)

		_, err := r.Resolve(ctx, "Invalidenstraße 10", "10115", "Berlin", "de")
		require.NoError(t, err)

		coords, err := r.Resolve(ctx, "Invalidenstraße 10", "10115", "Berlin", "de")

		require.NoError(t, err)
		assert.InEpsilon(t, 52.5323, coords.Point.Lat(), 1e-9)
		provider.AssertNumberOfCalls(t, "Search", 1)
	})

	t.Run("cache key normalizes case and whitespace", func(t *testing.T) {
		provider := &MockGeocodingProvider{}
		provider.On("Search", ctx, mock.Anything).Return([]ports.Place{berlinPlace()}, nil).Once()

		r := newTestResolver(t, provider)

		_, err := r.Resolve(ctx, "Invalidenstraße 10", "10115", "Berlin", "de")
		require.NoError(t, err)

		_, err = r.Resolve(ctx, " invalidenstraße 10 ", " 10115 ", " BERLIN ", " DE ")

		require.NoError(t, err)
		provider.AssertNumberOfCalls(t, "Search", 1)
	})

	t.Run("falls back to the relaxed query on zero results", func(t *testing.T) {
		provider := &MockGeocodingProvider{}
		provider.On("Search", ctx, ports.GeocodeQuery{
			Query:   "Invalidenstraße 10, 10115 Berlin",
			Country: "de",
			Limit:   1,
		}).Return([]ports.Place{}, nil).Once()
		provider.On("Search", ctx, ports.GeocodeQuery{
			Query:      "Invalidenstraße 10, Berlin",
			PostalCode: "10115",
			Country:    "de",
			Limit:      1,
		}).Return([]ports.Place{berlinPlace()}, nil).Once()

		r := newTestResolver(t, provider)

		coords, err := r.Resolve(ctx, "Invalidenstraße 10", "10115", "Berlin", "de")

		require.NoError(t, err)
		assert.InEpsilon(t, 52.5323, coords.Point.Lat(), 1e-9)
		provider.AssertExpectations(t)
	})

	t.Run("returns not found after both queries miss", func(t *testing.T) {
		provider := &MockGeocodingProvider{}
		provider.On("Search", ctx, mock.Anything).Return([]ports.Place{}, nil).Twice()

		r := newTestResolver(t, provider)

		_, err := r.Resolve(ctx, "Nowhere 1", "00000", "Atlantis", "de")

		require.ErrorIs(t, err, geocoding.ErrAddressNotFound)
		provider.AssertExpectations(t)
	})

	t.Run("not found is not cached", func(t *testing.T) {
		provider := &MockGeocodingProvider{}
		provider.On("Search", ctx, mock.Anything).Return([]ports.Place{}, nil).Twice()
		provider.On("Search", ctx, mock.Anything).Return([]ports.Place{berlinPlace()}, nil).Once()

		r := newTestResolver(t, provider)

		_, err := r.Resolve(ctx, "Invalidenstraße 10", "10115", "Berlin", "de")
		require.ErrorIs(t, err, geocoding.ErrAddressNotFound)

		coords, err := r.Resolve(ctx, "Invalidenstraße 10", "10115", "Berlin", "de")
		require.NoError(t, err)
		assert.InEpsilon(t, 52.5323, coords.Point.Lat(), 1e-9)
		provider.AssertNumberOfCalls(t, "Search", 3)
	})

	t.Run("retries transient provider failures", func(t *testing.T) {
		provider := &MockGeocodingProvider{}
		provider.On("Search", ctx, mock.Anything).
			Return(nil, ports.ErrProviderUnavailable).Twice()
		provider.On("Search", ctx, mock.Anything).
			Return([]ports.Place{berlinPlace()}, nil).Once()

		r := newTestResolver(t, provider)

		coords, err := r.Resolve(ctx, "Invalidenstraße 10", "10115", "Berlin", "de")

		require.NoError(t, err)
		assert.InEpsilon(t, 52.5323, coords.Point.Lat(), 1e-9)
		provider.AssertNumberOfCalls(t, "Search", 3)
	})

	t.Run("exhausted retries surface the provider error", func(t *testing.T) {
		provider := &MockGeocodingProvider{}
		provider.On("Search", ctx, mock.Anything).
			Return(nil, ports.ErrProviderUnavailable)

		r := newTestResolver(t, provider)

		_, err := r.Resolve(ctx, "Invalidenstraße 10", "10115", "Berlin", "de")

		require.ErrorIs(t, err, ports.ErrProviderUnavailable)
		provider.AssertNumberOfCalls(t, "Search", 3)
	})

	t.Run("permanent provider errors are not retried", func(t *testing.T) {
		provider := &MockGeocodingProvider{}
		permanent := errors.New("invalid API key")
		provider.On("Search", ctx, mock.Anything).Return(nil, permanent)

		r := newTestResolver(t, provider)

		_, err := r.Resolve(ctx, "Invalidenstraße 10", "10115", "Berlin", "de")

		require.ErrorIs(t, err, permanent)
		provider.AssertNumberOfCalls(t, "Search", 1)
	})

	t.Run("requires street and city", func(t *testing.T) {
		r := newTestResolver(t, &MockGeocodingProvider{})

		_, err := r.Resolve(ctx, "", "10115", "Berlin", "de")
		require.Error(t, err)

		_, err = r.Resolve(ctx, "Invalidenstraße 10", "10115", "", "de")
		require.Error(t, err)
	})
}
