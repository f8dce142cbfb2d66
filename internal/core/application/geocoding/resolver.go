// Package geocoding resolves postal addresses to coordinates through an
// external provider, with a bounded TTL cache in front of it.
package geocoding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/cache"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/retry"
)

// ErrAddressNotFound is returned when the provider knows no place for the
// address, even after the relaxed retry.
var ErrAddressNotFound = errors.New("address not found")

// Coordinates is a resolved address: the point plus the provider's
// display name for diagnostics.
type Coordinates struct {
	Point       kernel.GeoPoint
	DisplayName string
}

// Resolver turns postal addresses into coordinates.
//
// Lookup order:
//  1. cache (normalized address key, TTL bounded)
//  2. provider query with the full address
//  3. on zero results, one relaxed provider query (street and city only,
//     postal code demoted to a filter)
//
// Only successful resolutions are cached; failures self-heal on the next
// call. A configurable minimum interval between provider calls keeps the
// resolver inside third-party rate limits.
type Resolver struct {
	provider ports.GeocodingProvider
	cache    *cache.TTLCache[Coordinates]
	policy   retry.Policy

	minInterval time.Duration
	mu          sync.Mutex
	lastCall    time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewResolver creates a resolver over the provider.
//
// Parameters:
//   - cacheCapacity, cacheTTL: bounds for the address cache
//   - policy: retry policy for transient provider failures
//   - minInterval: minimum pause between provider calls, zero to disable
func NewResolver(
	provider ports.GeocodingProvider,
	cacheCapacity int,
	cacheTTL time.Duration,
	policy retry.Policy,
	minInterval time.Duration,
) (*Resolver, error) {
	if provider == nil {
		return nil, errs.NewValueIsRequiredError("provider")
	}
	if minInterval < 0 {
		return nil, errs.NewValueIsInvalidError("minInterval")
	}

	c, err := cache.NewTTLCache[Coordinates](cacheCapacity, cacheTTL)
	if err != nil {
		return nil, err
	}

	return &Resolver{
		provider:    provider,
		cache:       c,
		policy:      policy,
		minInterval: minInterval,
		now:         time.Now,
		sleep: func(ctx context.Context, d time.Duration) error {
			select {
			case <-time.After(d):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}, nil
}

// Resolve looks up the coordinates for a postal address.
//
// Returns ErrAddressNotFound when both the full and the relaxed query
// yield zero results. Provider errors that survive the retry budget are
// returned unchanged so callers can classify them with errors.Is.
func (r *Resolver) Resolve(
	ctx context.Context,
	street string,
	postalCode string,
	city string,
	country string,
) (Coordinates, error) {
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	if street == "" {
		return Coordinates{}, errs.NewValueIsRequiredError("street")
	}
	if city == "" {
		return Coordinates{}, errs.NewValueIsRequiredError("city")
	}

	key := cacheKey(street, postalCode, city, country)
	if cached, ok := r.cache.Get(key); ok {
		return cached, nil
	}

	full := ports.GeocodeQuery{
		Query:   fmt.Sprintf("%s, %s %s", street, strings.TrimSpace(postalCode), city),
		Country: strings.TrimSpace(country),
		Limit:   1,
	}
	places, err := r.search(ctx, full)
	if err != nil {
		return Coordinates{}, err
	}

	if len(places) == 0 {
		relaxed := ports.GeocodeQuery{
			Query:      fmt.Sprintf("%s, %s", street, city),
			PostalCode: strings.TrimSpace(postalCode),
			Country:    strings.TrimSpace(country),
			Limit:      1,
		}
		places, err = r.search(ctx, relaxed)
		if err != nil {
			return Coordinates{}, err
		}
	}

	if len(places) == 0 {
		return Coordinates{}, ErrAddressNotFound
	}

	point, err := kernel.NewGeoPoint(places[0].Lat, places[0].Lon)
	if err != nil {
		return Coordinates{}, err
	}

	coords := Coordinates{Point: point, DisplayName: places[0].DisplayName}
	r.cache.Set(key, coords)
	return coords, nil
}

// search performs one provider query under the retry policy and the
// rate-limit pause.
func (r *Resolver) search(ctx context.Context, query ports.GeocodeQuery) ([]ports.Place, error) {
	var places []ports.Place

	err := r.policy.Do(ctx, func(ctx context.Context) error {
		if err := r.waitForSlot(ctx); err != nil {
			return err
		}

		found, err := r.provider.Search(ctx, query)
		if err != nil {
			return err
		}
		places = found
		return nil
	}, func(err error) bool {
		return errors.Is(err, ports.ErrProviderUnavailable)
	})
	if err != nil {
		return nil, err
	}

	return places, nil
}

// waitForSlot blocks until at least minInterval has passed since the
// previous provider call. Each caller reserves its slot while holding the
// lock, so concurrent resolutions get slots a full interval apart instead
// of racing each other after a shared sleep.
func (r *Resolver) waitForSlot(ctx context.Context) error {
	if r.minInterval == 0 {
		return nil
	}

	now := r.now()

	r.mu.Lock()
	slot := r.lastCall.Add(r.minInterval)
	if slot.Before(now) {
		slot = now
	}
	r.lastCall = slot
	r.mu.Unlock()

	if wait := slot.Sub(now); wait > 0 {
		return r.sleep(ctx, wait)
	}
	return nil
}

func cacheKey(street, postalCode, city, country string) string {
	parts := []string{street, postalCode, city, country}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, "|")
}
