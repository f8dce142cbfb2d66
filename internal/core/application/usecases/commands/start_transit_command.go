package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrStartTransitCommandIsNotConstructed = errors.New(
	"StartTransitCommand must be created via NewStartTransitCommand constructor",
)

// StartTransitCommand marks an accepted order as picked up by the
// contractor.
type StartTransitCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartTransitCommand creates a command to begin transit for an order.
func NewStartTransitCommand(orderID kernel.UUID) (StartTransitCommand, error) {
	cmd := StartTransitCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return StartTransitCommand{}, err
	}
	cmd.orderID = orderID

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrStartTransitCommandIsNotConstructed if validation fails.
func (c StartTransitCommand) Validate() error {
	return c.guard.Validate(ErrStartTransitCommandIsNotConstructed)
}

// OrderID returns the order entering transit.
func (c StartTransitCommand) OrderID() kernel.UUID {
	return c.orderID
}
