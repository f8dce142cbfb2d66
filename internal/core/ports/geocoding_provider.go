package ports

import (
	"context"
)

// GeocodeQuery describes a structured address lookup. Query carries the
// free-text part (street and city); PostalCode and Country narrow the
// search when set.
type GeocodeQuery struct {
	Query      string
	PostalCode string
	Country    string
	Limit      int
}

// Place is a single geocoding candidate returned by a provider.
type Place struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

// GeocodingProvider defines the outbound contract for resolving postal
// addresses to coordinates. Implementations wrap external geocoding APIs
// and translate transient failures to ErrProviderUnavailable.
type GeocodingProvider interface {
	// Search returns candidate places for the query, best match first.
	// An empty slice with a nil error means the address is unknown to the
	// provider.
	Search(ctx context.Context, query GeocodeQuery) ([]Place, error)
}
