package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrAcceptOrderCommandIsNotConstructed = errors.New(
	"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
)

// AcceptOrderCommand represents a contractor taking a pending order.
// The contractor payout is derived by the handler (85% of the customer
// price, or a negotiated price within the available budget after a
// contractor cancellation).
type AcceptOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	contractorID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptOrderCommand creates a command assigning an order to a contractor.
func NewAcceptOrderCommand(orderID kernel.UUID, contractorID kernel.UUID) (AcceptOrderCommand, error) {
	cmd := AcceptOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setContractorID(contractorID),
	); err != nil {
		return AcceptOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAcceptOrderCommandIsNotConstructed if validation fails.
func (c AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}

// OrderID returns the order to accept.
func (c AcceptOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ContractorID returns the accepting contractor.
func (c AcceptOrderCommand) ContractorID() kernel.UUID {
	return c.contractorID
}

func (c *AcceptOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *AcceptOrderCommand) setContractorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.contractorID = id
	return nil
}
