package order

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// Status represents the lifecycle state of a freight order.
// It implements a state machine with defined transitions so orders follow
// the correct brokering workflow.
//
// State transitions:
//
//	Pending ──> Accepted ──> InTransit ──> Completed
//	   ^           │             │
//	   └───────────┘ (contractor cancellation returns the order
//	                  to the unmatched pool)
//
//	Pending/Accepted/InTransit ──> Cancelled (customer cancellation)
//
// Completed and Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status: the order is priced and published but
	// no contractor has taken it yet.
	Pending

	// Accepted indicates a contractor has committed to the order.
	Accepted

	// InTransit indicates the freight has been picked up.
	InTransit

	// Completed indicates the freight was delivered. Terminal.
	Completed

	// Cancelled indicates the customer withdrew the order. Terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "pending",
		Accepted:  "accepted",
		InTransit: "in_transit",
		Completed: "completed",
		Cancelled: "cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "pending",
		Accepted:  "accepted",
		InTransit: "in_transit",
		Completed: "completed",
		Cancelled: "cancelled",
	}
}

// Validate checks if the Status value is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status ("pending", "accepted", ...).
// Implements fmt.Stringer; safe on invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StatusFromString parses a wire name ("pending", "accepted", ...) back
// into a Status. Used when restoring orders from persistence.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status", s))
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// ValidateCancellable checks that a cancellation may still occur.
// Terminal orders (completed, cancelled) reject any cancellation attempt.
func (s Status) ValidateCancellable() error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s.String()))
	}
	return nil
}

// ValidateCanHaveContractor validates consistency between order status and
// contractor assignment when restoring an order from persistence.
//
// Rules:
//   - Pending orders must not have a contractor (they sit in the unmatched pool)
//   - Accepted, InTransit and Completed orders must have one
//   - Cancelled orders may have one either way (a customer can cancel a
//     matched or an unmatched order)
func (s Status) ValidateCanHaveContractor(hasContractor bool) error {
	if s == Cancelled {
		return nil
	}

	if hasContractor && s == Pending {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to have a contractor", s.String()))
	}

	if !hasContractor && (s == Accepted || s == InTransit || s == Completed) {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to have no contractor", s.String()))
	}

	return nil
}

// Accept transitions the status to Accepted.
// Only Pending orders can be accepted; an order returned to the unmatched
// pool by a contractor cancellation is Pending again and may be re-accepted.
func (s Status) Accept() (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to accept", s.String()))
	}
	return Accepted, nil
}

// StartTransit transitions the status to InTransit.
// Only Accepted orders can start transit.
func (s Status) StartTransit() (Status, error) {
	if s != Accepted {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to start transit", s.String()))
	}
	return InTransit, nil
}

// Complete transitions the status to Completed.
// Only InTransit orders can complete. Completed is terminal.
func (s Status) Complete() (Status, error) {
	if s != InTransit {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to complete", s.String()))
	}
	return Completed, nil
}

// Cancel transitions the status to Cancelled.
// Any non-terminal order can be cancelled by the customer.
func (s Status) Cancel() (Status, error) {
	if err := s.ValidateCancellable(); err != nil {
		return 0, err
	}
	return Cancelled, nil
}
