// Package routing computes road routes over an external provider, with a
// per-segment analytic fallback for provider outages.
package routing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/retry"
)

const (
	// roadInflationFactor scales the great-circle distance to an
	// approximate road distance for urban routing.
	roadInflationFactor = 1.3

	// fallbackSpeedKmh is the flat average speed assumed when deriving
	// a duration from an estimated distance.
	fallbackSpeedKmh = 40.0
)

// RouteResult is the computed route over all waypoints.
//
// Geometry is only set for two-waypoint routes measured by the provider;
// multi-stop and fallback results carry nil. IsFallback marks results
// that contain at least one estimated segment, so downstream pricing and
// display can distinguish estimated from measured distance.
type RouteResult struct {
	DistanceKm      float64
	DurationMinutes int
	Geometry        *string
	IsFallback      bool
}

// Engine measures routes through a provider, decomposing multi-stop
// routes into consecutive pairwise segments. Transient provider failures
// are retried under the policy and then estimated analytically; permanent
// failures abort the whole computation, never yielding a partial
// multi-stop result.
type Engine struct {
	provider ports.RoutingProvider
	policy   retry.Policy
}

// NewEngine creates a route engine over the provider.
func NewEngine(provider ports.RoutingProvider, policy retry.Policy) (*Engine, error) {
	if provider == nil {
		return nil, errs.NewValueIsRequiredError("provider")
	}

	return &Engine{provider: provider, policy: policy}, nil
}

// ComputeRoute measures the route visiting the waypoints in order.
// At least two waypoints are required.
func (e *Engine) ComputeRoute(ctx context.Context, waypoints []kernel.GeoPoint) (RouteResult, error) {
	if len(waypoints) < 2 {
		return RouteResult{}, errs.NewValueIsInvalidErrorWithCause("waypoints",
			fmt.Errorf("need at least 2 waypoints, got %d", len(waypoints)))
	}
	for i, w := range waypoints {
		if err := w.Validate(); err != nil {
			return RouteResult{}, fmt.Errorf("waypoint %d: %w", i, err)
		}
	}

	var result RouteResult
	for i := 0; i < len(waypoints)-1; i++ {
		leg, fellBack, err := e.measureSegment(ctx, waypoints[i], waypoints[i+1])
		if err != nil {
			return RouteResult{}, fmt.Errorf("segment %d failed: %w", i, err)
		}

		result.DistanceKm += leg.DistanceKm
		result.DurationMinutes += leg.DurationMinutes
		result.IsFallback = result.IsFallback || fellBack

		// Geometry is only meaningful for a single measured leg.
		if len(waypoints) == 2 && !fellBack && leg.Geometry != "" {
			geometry := leg.Geometry
			result.Geometry = &geometry
		}
	}

	return result, nil
}

// measureSegment routes one leg under the retry policy. When the provider
// stays unavailable past the retry budget, the leg is estimated instead;
// any other error is final.
func (e *Engine) measureSegment(
	ctx context.Context,
	origin kernel.GeoPoint,
	destination kernel.GeoPoint,
) (ports.RouteLeg, bool, error) {
	var leg ports.RouteLeg

	err := e.policy.Do(ctx, func(ctx context.Context) error {
		measured, err := e.provider.Route(ctx, origin, destination)
		if err != nil {
			return err
		}
		leg = measured
		return nil
	}, func(err error) bool {
		return errors.Is(err, ports.ErrProviderUnavailable)
	})

	if err == nil {
		return leg, false, nil
	}

	if errors.Is(err, ports.ErrProviderUnavailable) {
		leg, estimateErr := estimateSegment(origin, destination)
		if estimateErr != nil {
			return ports.RouteLeg{}, false, estimateErr
		}
		return leg, true, nil
	}

	return ports.RouteLeg{}, false, err
}

// estimateSegment approximates a leg as the great-circle distance inflated
// by the road factor, at a flat average speed.
func estimateSegment(origin kernel.GeoPoint, destination kernel.GeoPoint) (ports.RouteLeg, error) {
	greatCircleKm, err := origin.HaversineKm(destination)
	if err != nil {
		return ports.RouteLeg{}, err
	}

	distanceKm := greatCircleKm * roadInflationFactor
	durationMinutes := int(math.Round(distanceKm / fallbackSpeedKmh * 60))

	return ports.RouteLeg{
		DistanceKm:      distanceKm,
		DurationMinutes: durationMinutes,
	}, nil
}
