package commands

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrCancelOrderByCustomerCommandIsNotConstructed = errors.New(
	"CancelOrderByCustomerCommand must be created via NewCancelOrderByCustomerCommand constructor",
)

// CancelOrderByCustomerCommand represents a customer withdrawing their
// order. Terminal: the order never returns to the unmatched pool.
type CancelOrderByCustomerCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewCancelOrderByCustomerCommand creates a customer cancellation command.
// A non-empty reason is required for the audit trail.
func NewCancelOrderByCustomerCommand(orderID kernel.UUID, reason string) (CancelOrderByCustomerCommand, error) {
	cmd := CancelOrderByCustomerCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReason(reason),
	); err != nil {
		return CancelOrderByCustomerCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCancelOrderByCustomerCommandIsNotConstructed if validation fails.
func (c CancelOrderByCustomerCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderByCustomerCommandIsNotConstructed)
}

// OrderID returns the order being cancelled.
func (c CancelOrderByCustomerCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns the free-text cancellation reason.
func (c CancelOrderByCustomerCommand) Reason() string {
	return c.reason
}

func (c *CancelOrderByCustomerCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *CancelOrderByCustomerCommand) setReason(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	c.reason = reason
	return nil
}
