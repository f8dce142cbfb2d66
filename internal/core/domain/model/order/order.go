package order

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrNoContractorAssigned is returned when a contractor-side operation is
	// attempted on an unmatched order.
	ErrNoContractorAssigned = errors.New("order has no contractor assigned")

	// ErrNoAvailableBudget is returned when a contractor price adjustment is
	// attempted without a prior contractor-side cancellation.
	ErrNoAvailableBudget = errors.New(
		"contractor price can only be adjusted after a contractor cancellation set an available budget")
)

// Order is the aggregate root of the freight brokering engine. It carries
// the route (pickup, delivery, optional intermediate stops), the computed
// route metrics, the price split between customer and contractor, the pickup
// window, and the cancellation audit sub-record.
//
// Core invariants:
//   - The customer price is set at creation and never mutated afterwards;
//     cancellations and re-assignments only move contractor-side prices.
//   - availableBudget = customer price + penalty whenever a contractor
//     cancellation carries a nonzero penalty.
//   - The monitor flags (pickupWindowStartNotified, expiredAndArchived) are
//     one-way latches: false to true, never reset.
//   - Status transitions follow the Status state machine.
type Order struct {
	id            kernel.UUID
	customerID    kernel.UUID
	customerEmail string
	contractorID  *kernel.UUID

	pickup   Waypoint
	delivery Waypoint
	stops    []Waypoint

	distanceKm      float64
	durationMinutes int
	routeGeometry   *string
	routeIsFallback bool

	price           float64
	contractorPrice *float64
	extraStopFee    float64
	loadingHelpFee  float64

	pickupWindow PickupWindow
	status       Status
	cancellation *Cancellation

	pickupWindowStartNotified bool
	expiredAndArchived        bool

	isConstructed bool
}

// NewOrder creates a Pending order for a customer. The customer price must
// already have passed minimum-price validation; the aggregate only enforces
// positivity. Route metrics are attached separately via AttachRoute once the
// route engine has produced them.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	customerEmail string,
	pickup Waypoint,
	delivery Waypoint,
	stops []Waypoint,
	window PickupWindow,
	price float64,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setCustomerEmail(customerEmail),
		o.setPickup(pickup),
		o.setDelivery(delivery),
		o.setStops(stops),
		o.setPickupWindow(window),
		o.setPrice(price),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrderParams carries every persisted field needed to rebuild an
// order aggregate from storage.
type RestoreOrderParams struct {
	ID            kernel.UUID
	CustomerID    kernel.UUID
	CustomerEmail string
	ContractorID  *kernel.UUID

	Pickup   Waypoint
	Delivery Waypoint
	Stops    []Waypoint

	DistanceKm      float64
	DurationMinutes int
	RouteGeometry   *string
	RouteIsFallback bool

	Price           float64
	ContractorPrice *float64
	ExtraStopFee    float64
	LoadingHelpFee  float64

	PickupWindow PickupWindow
	Status       Status
	Cancellation *Cancellation

	PickupWindowStartNotified bool
	ExpiredAndArchived        bool
}

// RestoreOrder rebuilds an order from persistence, re-validating the
// invariants that NewOrder and the mutation methods normally enforce.
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	o := &Order{
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setCustomerID(p.CustomerID),
		o.setCustomerEmail(p.CustomerEmail),
		o.setPickup(p.Pickup),
		o.setDelivery(p.Delivery),
		o.setStops(p.Stops),
		o.setPickupWindow(p.PickupWindow),
		o.setPrice(p.Price),
		p.Status.Validate(),
		p.Status.ValidateCanHaveContractor(p.ContractorID != nil),
	); err != nil {
		return nil, err
	}

	if p.ContractorID != nil {
		if err := p.ContractorID.Validate(); err != nil {
			return nil, err
		}
		id := *p.ContractorID
		o.contractorID = &id
	}

	if p.Cancellation != nil {
		if err := p.Cancellation.Validate(); err != nil {
			return nil, err
		}
		c := *p.Cancellation
		o.cancellation = &c
	}

	o.status = p.Status
	o.distanceKm = p.DistanceKm
	o.durationMinutes = p.DurationMinutes
	o.routeGeometry = p.RouteGeometry
	o.routeIsFallback = p.RouteIsFallback
	o.contractorPrice = p.ContractorPrice
	o.extraStopFee = p.ExtraStopFee
	o.loadingHelpFee = p.LoadingHelpFee
	o.pickupWindowStartNotified = p.PickupWindowStartNotified
	o.expiredAndArchived = p.ExpiredAndArchived

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the ordering customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// CustomerEmail returns the notification address captured at creation.
func (o *Order) CustomerEmail() string {
	return o.customerEmail
}

// Contractor returns the assigned contractor's ID, or nil while unmatched.
func (o *Order) Contractor() *kernel.UUID {
	return o.contractorID
}

// Pickup returns the pickup waypoint.
func (o *Order) Pickup() Waypoint {
	return o.pickup
}

// Delivery returns the delivery waypoint.
func (o *Order) Delivery() Waypoint {
	return o.delivery
}

// Stops returns the intermediate stops between pickup and delivery.
func (o *Order) Stops() []Waypoint {
	return o.stops
}

// DistanceKm returns the route distance in kilometres.
func (o *Order) DistanceKm() float64 {
	return o.distanceKm
}

// DurationMinutes returns the route drive time in minutes.
func (o *Order) DurationMinutes() int {
	return o.durationMinutes
}

// RouteGeometry returns the opaque provider geometry, or nil when the route
// was estimated via the analytic fallback or spans multiple stops.
func (o *Order) RouteGeometry() *string {
	return o.routeGeometry
}

// RouteIsFallback reports whether the route metrics are analytic estimates
// rather than provider measurements.
func (o *Order) RouteIsFallback() bool {
	return o.routeIsFallback
}

// Price returns the customer price. Stable for the lifetime of the order.
func (o *Order) Price() float64 {
	return o.price
}

// ContractorPrice returns the contractor's payout, or nil while unmatched.
func (o *Order) ContractorPrice() *float64 {
	return o.contractorPrice
}

// ExtraStopFee returns the per-order extra-stop fee.
func (o *Order) ExtraStopFee() float64 {
	return o.extraStopFee
}

// LoadingHelpFee returns the loading-help service fee.
func (o *Order) LoadingHelpFee() float64 {
	return o.loadingHelpFee
}

// PickupWindow returns the expected pickup interval.
func (o *Order) PickupWindow() PickupWindow {
	return o.pickupWindow
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Cancellation returns the cancellation audit record, or nil if the order
// was never cancelled.
func (o *Order) Cancellation() *Cancellation {
	return o.cancellation
}

// PickupWindowStartNotified reports whether the "not yet matched"
// notification has been confirmed sent.
func (o *Order) PickupWindowStartNotified() bool {
	return o.pickupWindowStartNotified
}

// ExpiredAndArchived reports whether the terminal expiration notification
// has been confirmed sent.
func (o *Order) ExpiredAndArchived() bool {
	return o.expiredAndArchived
}

// AttachRoute stores the computed route metrics on the order.
//
// Parameters:
//   - distanceKm: route distance, must be >= 0
//   - durationMinutes: drive time, must be >= 0
//   - geometry: opaque provider geometry, nil for fallback estimates
//   - isFallback: true when the metrics come from the analytic fallback
func (o *Order) AttachRoute(distanceKm float64, durationMinutes int, geometry *string, isFallback bool) error {
	if distanceKm < 0 {
		return errs.NewValueIsInvalidErrorWithCause("distanceKm",
			fmt.Errorf("%f is negative", distanceKm))
	}
	if durationMinutes < 0 {
		return errs.NewValueIsInvalidErrorWithCause("durationMinutes",
			fmt.Errorf("%d is negative", durationMinutes))
	}

	o.distanceKm = distanceKm
	o.durationMinutes = durationMinutes
	o.routeGeometry = geometry
	o.routeIsFallback = isFallback
	return nil
}

// SetServiceFees stores the optional extra-stop and loading-help fees.
func (o *Order) SetServiceFees(extraStopFee float64, loadingHelpFee float64) error {
	if extraStopFee < 0 || loadingHelpFee < 0 {
		return errs.NewValueIsInvalidError("service fees")
	}
	o.extraStopFee = extraStopFee
	o.loadingHelpFee = loadingHelpFee
	return nil
}

// Accept assigns the order to a contractor with the given payout.
//
// Business rules:
//   - the order must be Pending (initial match or re-match after a
//     contractor cancellation)
//   - the contractor payout must be positive
//
// The customer price is untouched.
func (o *Order) Accept(contractorID kernel.UUID, contractorPrice float64) error {
	if err := contractorID.Validate(); err != nil {
		return err
	}
	if contractorPrice <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("contractorPrice",
			fmt.Errorf("%f is not greater than 0", contractorPrice))
	}

	newStatus, err := o.status.Accept()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.contractorID = &contractorID
	o.contractorPrice = &contractorPrice
	return nil
}

// StartTransit marks the freight as picked up.
func (o *Order) StartTransit() error {
	newStatus, err := o.status.StartTransit()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Complete marks the order as delivered. Terminal.
func (o *Order) Complete() error {
	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// CancelByContractor resolves a contractor-side cancellation: the audit
// record is written, the contractor and their payout are cleared, and the
// order returns to the unmatched pool (Pending).
//
// The penalty and budget are computed by the cancellation policy service
// from the prices and hours-to-pickup; the aggregate enforces the funding
// invariant availableBudget = price + penalty and leaves the customer price
// untouched.
func (o *Order) CancelByContractor(
	reason string,
	at time.Time,
	hoursBeforePickup float64,
	penalty float64,
	availableBudget float64,
) error {
	if err := o.status.ValidateCancellable(); err != nil {
		return err
	}
	if o.contractorID == nil {
		return ErrNoContractorAssigned
	}

	if kernel.RoundToCents(availableBudget) != kernel.RoundToCents(o.price+penalty) {
		return errs.NewValueIsInvalidErrorWithCause("availableBudget",
			fmt.Errorf("%f does not equal customer price %f plus penalty %f",
				availableBudget, o.price, penalty))
	}

	cancellation, err := NewCancellation(
		PartyContractor, reason, at, hoursBeforePickup, penalty, availableBudget)
	if err != nil {
		return err
	}

	o.cancellation = &cancellation
	o.contractorID = nil
	o.contractorPrice = nil
	o.status = Pending
	return nil
}

// CancelByCustomer resolves a customer-side cancellation: the audit record
// is written with the customer fee and the order moves to the terminal
// Cancelled status. The contractor reference, if any, is kept for the audit
// trail. The customer price is untouched.
func (o *Order) CancelByCustomer(
	reason string,
	at time.Time,
	hoursBeforePickup float64,
	fee float64,
) error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	cancellation, cErr := NewCancellation(PartyCustomer, reason, at, hoursBeforePickup, fee, 0)
	if cErr != nil {
		return cErr
	}

	o.cancellation = &cancellation
	o.status = newStatus
	return nil
}

// AdjustContractorPrice records the re-assignment pricing after a
// contractor-side cancellation and returns the resulting platform profit
// (availableBudget - newContractorPrice).
//
// Rejected when:
//   - the new price is not positive
//   - no contractor cancellation has set an available budget
func (o *Order) AdjustContractorPrice(newContractorPrice float64) (float64, error) {
	if newContractorPrice <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("newContractorPrice",
			fmt.Errorf("%f is not greater than 0", newContractorPrice))
	}

	if o.cancellation == nil || o.cancellation.Status() != CancelledByContractor {
		return 0, ErrNoAvailableBudget
	}

	profit := kernel.RoundToCents(o.cancellation.AvailableBudget() - newContractorPrice)
	o.cancellation.recordAdjustment(newContractorPrice, profit)
	return profit, nil
}

// MarkPickupWindowNotified latches the "not yet matched" notification flag.
// The flag is one-way: calling this on an already-notified order is an
// error, which the expiration monitor avoids by scanning only unnotified
// orders.
func (o *Order) MarkPickupWindowNotified() error {
	if o.pickupWindowStartNotified {
		return errs.NewValueIsInvalidError("pickup window start already notified")
	}
	o.pickupWindowStartNotified = true
	return nil
}

// MarkExpiredAndArchived latches the expiration flag. Called only after the
// terminal notification has been confirmed sent, immediately before the
// order is removed from the store.
func (o *Order) MarkExpiredAndArchived() error {
	if o.expiredAndArchived {
		return errs.NewValueIsInvalidError("order already expired and archived")
	}
	o.expiredAndArchived = true
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.customerID = id
	return nil
}

func (o *Order) setCustomerEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errs.NewValueIsRequiredError("customerEmail")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("customerEmail", err)
	}
	o.customerEmail = email
	return nil
}

func (o *Order) setPickup(w Waypoint) error {
	if err := w.Validate(); err != nil {
		return err
	}
	o.pickup = w
	return nil
}

func (o *Order) setDelivery(w Waypoint) error {
	if err := w.Validate(); err != nil {
		return err
	}
	o.delivery = w
	return nil
}

func (o *Order) setStops(stops []Waypoint) error {
	for i, s := range stops {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("stop %d: %w", i, err)
		}
	}
	o.stops = stops
	return nil
}

func (o *Order) setPickupWindow(w PickupWindow) error {
	if err := w.Validate(); err != nil {
		return err
	}
	o.pickupWindow = w
	return nil
}

func (o *Order) setPrice(price float64) error {
	if price <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("price",
			fmt.Errorf("%f is not greater than 0", price))
	}
	o.price = price
	return nil
}
