package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrAdjustContractorPriceCommandIsNotConstructed = errors.New(
	"AdjustContractorPriceCommand must be created via NewAdjustContractorPriceCommand constructor",
)

// AdjustContractorPriceCommand sets the re-assignment contractor price for
// an order whose previous contractor cancelled. The platform profit is the
// available budget minus the new price, recorded on the cancellation
// audit record.
type AdjustContractorPriceCommand struct { //nolint:recvcheck //using for validation
	orderID            kernel.UUID
	newContractorPrice float64

	guard guard.ConstructorGuard
}

// NewAdjustContractorPriceCommand creates a price adjustment command.
// The new contractor price must be positive.
func NewAdjustContractorPriceCommand(
	orderID kernel.UUID,
	newContractorPrice float64,
) (AdjustContractorPriceCommand, error) {
	cmd := AdjustContractorPriceCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return AdjustContractorPriceCommand{}, err
	}
	cmd.orderID = orderID

	if newContractorPrice <= 0 {
		return AdjustContractorPriceCommand{}, errs.NewValueIsInvalidError("newContractorPrice")
	}
	cmd.newContractorPrice = newContractorPrice

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAdjustContractorPriceCommandIsNotConstructed if validation fails.
func (c AdjustContractorPriceCommand) Validate() error {
	return c.guard.Validate(ErrAdjustContractorPriceCommandIsNotConstructed)
}

// OrderID returns the order being re-priced.
func (c AdjustContractorPriceCommand) OrderID() kernel.UUID {
	return c.orderID
}

// NewContractorPrice returns the negotiated re-assignment price.
func (c AdjustContractorPriceCommand) NewContractorPrice() float64 {
	return c.newContractorPrice
}
