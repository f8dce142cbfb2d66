package commands

import (
	"errors"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// Address carries the postal address fields of one waypoint as entered by
// the customer. Resolution to coordinates happens in the handler.
type Address struct {
	Street     string
	PostalCode string
	City       string
	Country    string
}

// CreateOrderCommand represents a request to create a new transport order.
// Encapsulates the route addresses, the pickup window, the proposed
// customer price, and the optional service fees.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(CreateOrderParams{
//	    OrderID:       kernel.NewUUID(),
//	    CustomerID:    customerID,
//	    CustomerEmail: "customer@example.com",
//	    Pickup:        Address{Street: "Invalidenstraße 10", City: "Berlin"},
//	    Delivery:      Address{Street: "Speicherstadt 1", City: "Hamburg"},
//	    PickupFrom:    pickupStart,
//	    Price:         120,
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	customerID    kernel.UUID
	customerEmail string

	pickup   Address
	delivery Address
	stops    []Address

	pickupFrom time.Time
	pickupTo   time.Time

	price          float64
	extraStopFee   float64
	loadingHelpFee float64

	guard guard.ConstructorGuard
}

// CreateOrderParams groups the command fields; stops, PickupTo, and the
// service fees are optional.
type CreateOrderParams struct {
	OrderID       kernel.UUID
	CustomerID    kernel.UUID
	CustomerEmail string

	Pickup   Address
	Delivery Address
	Stops    []Address

	PickupFrom time.Time
	PickupTo   time.Time

	Price          float64
	ExtraStopFee   float64
	LoadingHelpFee float64
}

// NewCreateOrderCommand creates a command to register a new transport order.
// Validates identifiers, addresses, the pickup window start, and the price.
// Returns an error if any validation fails.
func NewCreateOrderCommand(p CreateOrderParams) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(p.OrderID),
		cmd.setCustomerID(p.CustomerID),
		cmd.setCustomerEmail(p.CustomerEmail),
		cmd.setAddress("pickup", p.Pickup, &cmd.pickup),
		cmd.setAddress("delivery", p.Delivery, &cmd.delivery),
		cmd.setStops(p.Stops),
		cmd.setPickupWindow(p.PickupFrom, p.PickupTo),
		cmd.setPrice(p.Price),
		cmd.setFees(p.ExtraStopFee, p.LoadingHelpFee),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the ordering customer's identifier.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// CustomerEmail returns the customer's notification address.
func (c CreateOrderCommand) CustomerEmail() string {
	return c.customerEmail
}

// Pickup returns the pickup address.
func (c CreateOrderCommand) Pickup() Address {
	return c.pickup
}

// Delivery returns the delivery address.
func (c CreateOrderCommand) Delivery() Address {
	return c.delivery
}

// Stops returns the optional intermediate stop addresses.
func (c CreateOrderCommand) Stops() []Address {
	return c.stops
}

// PickupFrom returns the start of the pickup window.
func (c CreateOrderCommand) PickupFrom() time.Time {
	return c.pickupFrom
}

// PickupTo returns the end of the pickup window; zero means same as start.
func (c CreateOrderCommand) PickupTo() time.Time {
	return c.pickupTo
}

// Price returns the proposed customer price.
func (c CreateOrderCommand) Price() float64 {
	return c.price
}

// ExtraStopFee returns the optional per-order extra-stop fee.
func (c CreateOrderCommand) ExtraStopFee() float64 {
	return c.extraStopFee
}

// LoadingHelpFee returns the optional loading-help fee.
func (c CreateOrderCommand) LoadingHelpFee() float64 {
	return c.loadingHelpFee
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.customerID = id
	return nil
}

func (c *CreateOrderCommand) setCustomerEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return errs.NewValueIsRequiredError("customerEmail")
	}

	c.customerEmail = email
	return nil
}

func (c *CreateOrderCommand) setAddress(paramName string, a Address, target *Address) error {
	if strings.TrimSpace(a.Street) == "" || strings.TrimSpace(a.City) == "" {
		return errs.NewValueIsRequiredError(paramName + " street and city")
	}

	*target = a
	return nil
}

func (c *CreateOrderCommand) setStops(stops []Address) error {
	for i := range stops {
		var validated Address
		if err := c.setAddress("stop", stops[i], &validated); err != nil {
			return err
		}
	}

	c.stops = stops
	return nil
}

func (c *CreateOrderCommand) setPickupWindow(from time.Time, to time.Time) error {
	if from.IsZero() {
		return errs.NewValueIsRequiredError("pickupFrom")
	}
	if !to.IsZero() && to.Before(from) {
		return errs.NewValueIsInvalidError("pickupTo")
	}

	c.pickupFrom = from
	c.pickupTo = to
	return nil
}

func (c *CreateOrderCommand) setPrice(price float64) error {
	if price <= 0 {
		return errs.NewValueIsInvalidError("price")
	}

	c.price = price
	return nil
}

func (c *CreateOrderCommand) setFees(extraStopFee float64, loadingHelpFee float64) error {
	if extraStopFee < 0 {
		return errs.NewValueIsInvalidError("extraStopFee")
	}
	if loadingHelpFee < 0 {
		return errs.NewValueIsInvalidError("loadingHelpFee")
	}

	c.extraStopFee = extraStopFee
	c.loadingHelpFee = loadingHelpFee
	return nil
}
