package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/services"
)

// CancelOrderByCustomerCommandHandler resolves a customer-side
// cancellation. The time-tiered fee applies only when a contractor had
// already been matched: the fee compensates a broken commitment, and an
// unmatched order never carried one.
type CancelOrderByCustomerCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     services.CancellationPolicy

	now func() time.Time
}

// NewCancelOrderByCustomerCommandHandler creates a handler for customer
// cancellations.
func NewCancelOrderByCustomerCommandHandler(
	uowFactory OrderUoWFactory,
	policy services.CancellationPolicy,
) CancelOrderByCustomerCommandHandler {
	return CancelOrderByCustomerCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		now:        time.Now,
	}
}

// Handle processes the customer cancellation command.
func (h *CancelOrderByCustomerCommandHandler) Handle(ctx context.Context, cmd CancelOrderByCustomerCommand) error {
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

	at := h.now()
	hours := aggregate.PickupWindow().HoursUntilStart(at)

	var fee float64
	if aggregate.Contractor() != nil {
		fee, err = h.policy.CustomerFeeFor(aggregate.Price(), hours)
		if err != nil {
			return err
		}
	}

	if err = aggregate.CancelByCustomer(cmd.Reason(), at, hours, fee); err != nil {
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
