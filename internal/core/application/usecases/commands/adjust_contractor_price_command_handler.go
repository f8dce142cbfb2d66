package commands

import (
	"context"
)

// AdjustContractorPriceCommandHandler records the re-assignment pricing
// after a contractor-side cancellation. Only legal once a cancellation
// has set an available budget; the customer price stays untouched across
// the whole cancel and re-price cycle.
type AdjustContractorPriceCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAdjustContractorPriceCommandHandler creates a handler for contractor
// price adjustments.
func NewAdjustContractorPriceCommandHandler(uowFactory OrderUoWFactory) AdjustContractorPriceCommandHandler {
	return AdjustContractorPriceCommandHandler{uowFactory: uowFactory}
}

// Handle loads the order, records the adjustment and the resulting
// platform profit, and persists the order.
func (h *AdjustContractorPriceCommandHandler) Handle(ctx context.Context, cmd AdjustContractorPriceCommand) error {
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

	if _, err = aggregate.AdjustContractorPrice(cmd.NewContractorPrice()); err != nil {
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
