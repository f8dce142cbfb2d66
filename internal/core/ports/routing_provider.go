package ports

import (
	"context"
	"errors"

	"freight/internal/core/domain/model/kernel"
)

// ErrProviderUnavailable classifies transient provider failures such as
// timeouts, rate limits, and 5xx responses. Callers may retry the call or
// fall back to an estimate; any other error is treated as permanent.
var ErrProviderUnavailable = errors.New("provider unavailable")

// RouteLeg is the measured road connection between two coordinates.
type RouteLeg struct {
	DistanceKm      float64
	DurationMinutes int

	// Geometry is the encoded polyline of the leg, when the provider
	// returned one.
	Geometry string
}

// RoutingProvider defines the outbound contract for measuring road routes.
// Implementations wrap external routing APIs and translate transient
// failures to ErrProviderUnavailable.
type RoutingProvider interface {
	// Route measures the road connection from origin to destination.
	Route(ctx context.Context, origin kernel.GeoPoint, destination kernel.GeoPoint) (RouteLeg, error)
}
