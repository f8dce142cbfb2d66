package order

import (
	"errors"
	"fmt"
	"time"

	"freight/internal/pkg/guard"
)

// ErrPickupWindowIsNotConstructed is returned when attempting to use an
// improperly initialized PickupWindow.
var ErrPickupWindowIsNotConstructed = errors.New(
	"PickupWindow must be created via NewPickupWindow constructor")

// PickupWindow is the [from, to] interval during which pickup is expected.
// The expiration monitor measures both of its conditions against this
// window: the "not yet matched" notification fires once From is reached,
// and expiration is measured from To.
type PickupWindow struct { //nolint:recvcheck //using for validation
	from time.Time
	to   time.Time

	guard guard.ConstructorGuard
}

// NewPickupWindow creates a pickup window. A zero "to" defaults to "from"
// (a point-in-time pickup). "to" must not precede "from".
func NewPickupWindow(from time.Time, to time.Time) (PickupWindow, error) {
	if from.IsZero() {
		return PickupWindow{}, errors.New("pickup window start is required")
	}

	if to.IsZero() {
		to = from
	}

	if to.Before(from) {
		return PickupWindow{}, fmt.Errorf("pickup window end %s precedes start %s", to, from)
	}

	return PickupWindow{
		from:  from,
		to:    to,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the window was created through the constructor.
func (w PickupWindow) Validate() error {
	return w.guard.Validate(ErrPickupWindowIsNotConstructed)
}

// From returns the start of the window.
func (w PickupWindow) From() time.Time {
	return w.from
}

// To returns the end of the window.
func (w PickupWindow) To() time.Time {
	return w.to
}

// HoursUntilStart returns the signed number of hours from now until the
// window opens. Negative once the window start has passed. Cancellation
// penalty tiers are keyed off this value, computed exactly once at the
// instant of cancellation.
func (w PickupWindow) HoursUntilStart(now time.Time) float64 {
	return w.from.Sub(now).Hours()
}

// StartReached reports whether the window has opened at the given instant.
func (w PickupWindow) StartReached(now time.Time) bool {
	return !now.Before(w.from)
}

// EndReachedBy reports whether the window end plus the given grace period
// has passed at the given instant.
func (w PickupWindow) EndReachedBy(now time.Time, grace time.Duration) bool {
	return !now.Before(w.to.Add(grace))
}

// String implements fmt.Stringer.
func (w PickupWindow) String() string {
	return fmt.Sprintf("PickupWindow(%s..%s)", w.from.Format(time.RFC3339), w.to.Format(time.RFC3339))
}
