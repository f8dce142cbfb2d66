package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/services"
)

// CancelOrderByContractorCommandHandler resolves a contractor-side
// cancellation: the penalty tier is looked up from the hours remaining
// until pickup, the re-assignment budget is funded with the penalty, and
// the order returns to the unmatched pool.
//
// hours-before-pickup, penalty, and budget are computed once here and
// stored on the cancellation record; they are never recomputed later.
type CancelOrderByContractorCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     services.CancellationPolicy

	now func() time.Time
}

// NewCancelOrderByContractorCommandHandler creates a handler for
// contractor cancellations.
func NewCancelOrderByContractorCommandHandler(
	uowFactory OrderUoWFactory,
	policy services.CancellationPolicy,
) CancelOrderByContractorCommandHandler {
	return CancelOrderByContractorCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		now:        time.Now,
	}
}

// Handle processes the contractor cancellation command.
func (h *CancelOrderByContractorCommandHandler) Handle(ctx context.Context, cmd CancelOrderByContractorCommand) error {
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

	contractorPrice := aggregate.ContractorPrice()
	if contractorPrice == nil {
		return order.ErrNoContractorAssigned
	}

	at := h.now()
	hours := aggregate.PickupWindow().HoursUntilStart(at)

	settlement, err := h.policy.ContractorSettlementFor(aggregate.Price(), *contractorPrice, hours)
	if err != nil {
		return err
	}

	if err = aggregate.CancelByContractor(
		cmd.Reason(), at, hours, settlement.Penalty, settlement.AvailableBudget,
	); err != nil {
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
