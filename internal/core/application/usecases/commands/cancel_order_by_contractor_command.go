package commands

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrCancelOrderByContractorCommandIsNotConstructed = errors.New(
	"CancelOrderByContractorCommand must be created via NewCancelOrderByContractorCommand constructor",
)

// CancelOrderByContractorCommand represents a contractor backing out of a
// matched order. The penalty settlement is computed by the handler at the
// instant of cancellation.
type CancelOrderByContractorCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewCancelOrderByContractorCommand creates a contractor cancellation command.
// A non-empty reason is required for the audit trail.
func NewCancelOrderByContractorCommand(orderID kernel.UUID, reason string) (CancelOrderByContractorCommand, error) {
	cmd := CancelOrderByContractorCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReason(reason),
	); err != nil {
		return CancelOrderByContractorCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCancelOrderByContractorCommandIsNotConstructed if validation fails.
func (c CancelOrderByContractorCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderByContractorCommandIsNotConstructed)
}

// OrderID returns the order being cancelled.
func (c CancelOrderByContractorCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns the free-text cancellation reason.
func (c CancelOrderByContractorCommand) Reason() string {
	return c.reason
}

func (c *CancelOrderByContractorCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *CancelOrderByContractorCommand) setReason(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	c.reason = reason
	return nil
}
