package commands

import (
	"context"

	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/services"
)

// AcceptOrderCommandHandler assigns a pending order to a contractor.
//
// For a first acceptance the payout is the standard contractor share of
// the customer price. After a contractor-side cancellation the adjusted
// price recorded on the cancellation, if any, takes precedence so the
// re-assignment honors the negotiated budget split.
type AcceptOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	calculator services.PriceCalculator
}

// NewAcceptOrderCommandHandler creates a handler for order acceptance.
func NewAcceptOrderCommandHandler(
	uowFactory OrderUoWFactory,
	calculator services.PriceCalculator,
) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		calculator: calculator,
	}
}

// Handle processes the acceptance: loads the order, derives the payout,
// applies the status transition, and persists the match.
func (h *AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	var adjusted *float64
	if c := aggregate.Cancellation(); c != nil && c.Status() == order.CancelledByContractor {
		adjusted = c.AdjustedContractorPrice()
	}

	contractorPrice, err := h.contractorPrice(aggregate.Price(), adjusted)
	if err != nil {
		return err
	}

	if err = aggregate.Accept(cmd.ContractorID(), contractorPrice); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

func (h *AcceptOrderCommandHandler) contractorPrice(customerPrice float64, adjusted *float64) (float64, error) {
	if adjusted != nil {
		return *adjusted, nil
	}
	return h.calculator.ContractorPrice(customerPrice)
}
