package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// Party identifies who broke the commitment.
type Party string

const (
	// PartyCustomer is the ordering side.
	PartyCustomer Party = "customer"
	// PartyContractor is the executing side.
	PartyContractor Party = "contractor"
)

// Validate checks that the party is one of the two known values.
func (p Party) Validate() error {
	if p != PartyCustomer && p != PartyContractor {
		return errs.NewValueIsInvalidErrorWithCause("cancelledBy",
			fmt.Errorf("%q is not a valid party", string(p)))
	}
	return nil
}

// CancellationStatus names the cancellation flavor in the audit trail.
type CancellationStatus string

const (
	// CancelledByContractor marks a contractor-side cancellation; the order
	// returned to the unmatched pool.
	CancelledByContractor CancellationStatus = "cancelled_by_contractor"
	// CancelledByCustomer marks a customer-side cancellation; the order is
	// terminally cancelled.
	CancelledByCustomer CancellationStatus = "cancelled_by_customer"
)

// ErrCancellationIsNotConstructed is returned when attempting to use an
// improperly initialized Cancellation.
var ErrCancellationIsNotConstructed = errors.New(
	"Cancellation must be created via NewCancellation constructor")

// Cancellation is the audit sub-record written exactly once when an order is
// cancelled. hoursBeforePickup, penalty and availableBudget are computed at
// the instant of cancellation and never recomputed afterwards; re-deriving
// them from a later "now" would make the audit trail non-reproducible.
//
// After a contractor-side cancellation the record can additionally receive
// the re-assignment outcome: the adjusted contractor price and the platform
// profit funded by the penalty.
type Cancellation struct { //nolint:recvcheck //using for validation
	status            CancellationStatus
	cancelledBy       Party
	reason            string
	timestamp         time.Time
	hoursBeforePickup float64
	penalty           float64
	availableBudget   float64

	adjustedContractorPrice *float64
	platformProfit          *float64

	guard guard.ConstructorGuard
}

// NewCancellation creates the cancellation audit record.
//
// Parameters:
//   - by: the party who cancelled (determines the record status)
//   - reason: free-text reason, required
//   - at: the instant of cancellation
//   - hoursBeforePickup: hours from "at" until the pickup window start,
//     stored as part of the audit trail
//   - penalty: the tier-derived penalty (contractor) or fee (customer)
//   - availableBudget: the re-assignment budget; zero for customer-side
//     cancellations
func NewCancellation(
	by Party,
	reason string,
	at time.Time,
	hoursBeforePickup float64,
	penalty float64,
	availableBudget float64,
) (Cancellation, error) {
	if err := by.Validate(); err != nil {
		return Cancellation{}, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Cancellation{}, errs.NewValueIsRequiredError("cancellation reason")
	}

	if at.IsZero() {
		return Cancellation{}, errs.NewValueIsRequiredError("cancellation timestamp")
	}

	if penalty < 0 {
		return Cancellation{}, errs.NewValueIsInvalidError("penalty")
	}

	if availableBudget < 0 {
		return Cancellation{}, errs.NewValueIsInvalidError("availableBudget")
	}

	status := CancelledByCustomer
	if by == PartyContractor {
		status = CancelledByContractor
	}

	return Cancellation{
		status:            status,
		cancelledBy:       by,
		reason:            reason,
		timestamp:         at,
		hoursBeforePickup: hoursBeforePickup,
		penalty:           penalty,
		availableBudget:   availableBudget,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// RestoreCancellation rebuilds a cancellation record from persistence,
// including a possibly already-recorded re-assignment adjustment.
func RestoreCancellation(
	status CancellationStatus,
	by Party,
	reason string,
	at time.Time,
	hoursBeforePickup float64,
	penalty float64,
	availableBudget float64,
	adjustedContractorPrice *float64,
	platformProfit *float64,
) (Cancellation, error) {
	c, err := NewCancellation(by, reason, at, hoursBeforePickup, penalty, availableBudget)
	if err != nil {
		return Cancellation{}, err
	}

	if c.status != status {
		return Cancellation{}, errs.NewValueIsInvalidErrorWithCause("cancellationStatus",
			fmt.Errorf("%q does not match party %q", string(status), string(by)))
	}

	c.adjustedContractorPrice = adjustedContractorPrice
	c.platformProfit = platformProfit
	return c, nil
}

// Validate ensures the record was created through the constructor.
func (c Cancellation) Validate() error {
	return c.guard.Validate(ErrCancellationIsNotConstructed)
}

// Status returns the cancellation flavor.
func (c Cancellation) Status() CancellationStatus {
	return c.status
}

// CancelledBy returns the party who cancelled.
func (c Cancellation) CancelledBy() Party {
	return c.cancelledBy
}

// Reason returns the free-text cancellation reason.
func (c Cancellation) Reason() string {
	return c.reason
}

// Timestamp returns the instant of cancellation.
func (c Cancellation) Timestamp() time.Time {
	return c.timestamp
}

// HoursBeforePickup returns the audit-trail hours-to-pickup captured at
// cancellation time.
func (c Cancellation) HoursBeforePickup() float64 {
	return c.hoursBeforePickup
}

// Penalty returns the tier-derived penalty amount.
func (c Cancellation) Penalty() float64 {
	return c.penalty
}

// AvailableBudget returns the re-assignment budget
// (customer price + penalty for contractor-side cancellations).
func (c Cancellation) AvailableBudget() float64 {
	return c.availableBudget
}

// AdjustedContractorPrice returns the re-assignment contractor price,
// or nil if no adjustment has been made.
func (c Cancellation) AdjustedContractorPrice() *float64 {
	return c.adjustedContractorPrice
}

// PlatformProfit returns the platform profit recorded with the adjustment,
// or nil if no adjustment has been made.
func (c Cancellation) PlatformProfit() *float64 {
	return c.platformProfit
}

// recordAdjustment stores the re-assignment outcome. Called by the Order
// aggregate, which enforces the preconditions.
func (c *Cancellation) recordAdjustment(newContractorPrice float64, platformProfit float64) {
	c.adjustedContractorPrice = &newContractorPrice
	c.platformProfit = &platformProfit
}
