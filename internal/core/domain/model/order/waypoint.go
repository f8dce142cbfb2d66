package order

import (
	"errors"
	"fmt"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

// ErrWaypointIsNotConstructed is returned when attempting to use an
// improperly initialized Waypoint.
var ErrWaypointIsNotConstructed = errors.New("Waypoint must be created via NewWaypoint constructor")

// Waypoint is a postal address on the route of an order, optionally carrying
// its geocoded position. Coordinates are resolved lazily by the geocoding
// resolver; an unresolved waypoint simply has no point yet.
//
// Waypoint is an immutable value object: WithPoint returns a resolved copy.
type Waypoint struct { //nolint:recvcheck //using for validation
	street     string
	postalCode string
	city       string
	country    string
	point      *kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewWaypoint creates a Waypoint from its address parts.
// Street and city are required; postal code and country are optional
// (country defaults to "de", the market the broker operates in).
func NewWaypoint(street string, postalCode string, city string, country string) (Waypoint, error) {
	w := Waypoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(w.setStreet(street), w.setCity(city)); err != nil {
		return Waypoint{}, err
	}

	w.postalCode = strings.TrimSpace(postalCode)
	w.country = strings.TrimSpace(country)
	if w.country == "" {
		w.country = "de"
	}

	return w, nil
}

// Validate ensures the Waypoint was created through the constructor.
func (w Waypoint) Validate() error {
	return w.guard.Validate(ErrWaypointIsNotConstructed)
}

// Street returns the street line of the address.
func (w Waypoint) Street() string {
	return w.street
}

// PostalCode returns the postal code, possibly empty.
func (w Waypoint) PostalCode() string {
	return w.postalCode
}

// City returns the city name.
func (w Waypoint) City() string {
	return w.city
}

// Country returns the lower-case country code.
func (w Waypoint) Country() string {
	return strings.ToLower(w.country)
}

// Point returns the geocoded position, or nil if not resolved yet.
func (w Waypoint) Point() *kernel.GeoPoint {
	return w.point
}

// WithPoint returns a copy of the waypoint carrying the resolved position.
func (w Waypoint) WithPoint(p kernel.GeoPoint) (Waypoint, error) {
	if err := errors.Join(w.Validate(), p.Validate()); err != nil {
		return Waypoint{}, err
	}

	resolved := w
	resolved.point = &p
	return resolved, nil
}

// FullAddress returns the complete address line used for geocoding queries,
// e.g. "Musterstraße 12, 10115 Berlin".
func (w Waypoint) FullAddress() string {
	var b strings.Builder
	b.WriteString(w.street)
	b.WriteString(", ")
	if w.postalCode != "" {
		b.WriteString(w.postalCode)
		b.WriteString(" ")
	}
	b.WriteString(w.city)
	return b.String()
}

// String implements fmt.Stringer.
func (w Waypoint) String() string {
	return fmt.Sprintf("Waypoint(%s)", w.FullAddress())
}

func (w *Waypoint) setStreet(street string) error {
	street = strings.TrimSpace(street)
	if street == "" {
		return errors.New("street is required")
	}
	w.street = street
	return nil
}

func (w *Waypoint) setCity(city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return errors.New("city is required")
	}
	w.city = city
	return nil
}
