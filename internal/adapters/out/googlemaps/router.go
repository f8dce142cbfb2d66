package googlemaps

import (
	"context"
	"fmt"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"

	"googlemaps.github.io/maps"
)

// Router measures driving routes via the Google Directions API.
// Implements ports.RoutingProvider.
type Router struct {
	client *maps.Client
}

// NewRouter creates a new Router with the given API key.
func NewRouter(apiKey string) (*Router, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Router{client: client}, nil
}

// Route measures the driving route between two points. The overview
// polyline of the first returned route is kept as the leg geometry.
// Transient provider failures are reported as ports.ErrProviderUnavailable
// so the route engine can retry and eventually fall back to its estimate.
func (r *Router) Route(ctx context.Context, origin, destination kernel.GeoPoint) (ports.RouteLeg, error) {
	req := &maps.DirectionsRequest{
		Origin:      formatPoint(origin),
		Destination: formatPoint(destination),
		Mode:        maps.TravelModeDriving,
		Units:       maps.UnitsMetric,
	}

	routes, _, err := r.client.Directions(ctx, req)
	if err != nil {
		if isTransient(err) {
			return ports.RouteLeg{}, fmt.Errorf("%w: %w", ports.ErrProviderUnavailable, err)
		}
		return ports.RouteLeg{}, fmt.Errorf("directions api error: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return ports.RouteLeg{}, fmt.Errorf("no route between %s and %s", origin, destination)
	}

	leg := routes[0].Legs[0]
	return ports.RouteLeg{
		DistanceKm:      float64(leg.Distance.Meters) / 1000.0,
		DurationMinutes: int(leg.Duration.Round(time.Minute) / time.Minute),
		Geometry:        routes[0].OverviewPolyline.Points,
	}, nil
}

func formatPoint(p kernel.GeoPoint) string {
	return fmt.Sprintf("%f,%f", p.Lat(), p.Lon())
}
