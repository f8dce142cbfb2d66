// Package googlemaps implements the geocoding and routing provider ports
// on top of the Google Maps Platform APIs.
package googlemaps

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"freight/internal/core/ports"

	"googlemaps.github.io/maps"
)

// Geocoder resolves postal addresses to coordinates via the Google
// Geocoding API. Implements ports.GeocodingProvider.
type Geocoder struct {
	client *maps.Client
}

// NewGeocoder creates a new Geocoder with the given API key.
func NewGeocoder(apiKey string) (*Geocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Geocoder{client: client}, nil
}

// Search geocodes the query. Returns an empty slice when the address is
// unknown to the provider; transient provider failures are reported as
// ports.ErrProviderUnavailable so callers can retry.
func (g *Geocoder) Search(ctx context.Context, query ports.GeocodeQuery) ([]ports.Place, error) {
	req := &maps.GeocodingRequest{
		Address: query.Query,
	}

	components := make(map[maps.Component]string)
	if query.PostalCode != "" {
		components[maps.ComponentPostalCode] = query.PostalCode
	}
	if query.Country != "" {
		components[maps.ComponentCountry] = query.Country
	}
	if len(components) > 0 {
		req.Components = components
	}

	results, err := g.client.Geocode(ctx, req)
	if err != nil {
		if isTransient(err) {
			return nil, fmt.Errorf("%w: %w", ports.ErrProviderUnavailable, err)
		}
		return nil, fmt.Errorf("geocoding api error: %w", err)
	}

	places := make([]ports.Place, 0, len(results))
	for _, result := range results {
		places = append(places, ports.Place{
			Lat:         result.Geometry.Location.Lat,
			Lon:         result.Geometry.Location.Lng,
			DisplayName: result.FormattedAddress,
		})

		if query.Limit > 0 && len(places) >= query.Limit {
			break
		}
	}

	return places, nil
}

// isTransient reports whether the provider error is worth retrying:
// network failures, timeouts, and the quota/backend statuses the API
// documents as temporary.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "OVER_QUERY_LIMIT") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "UNKNOWN_ERROR")
}
