package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freight/internal/core/domain/model/order"
	"freight/internal/core/ports"
)

// ProcessExpirationsCommandHandler runs one expiration monitor tick over
// the unmatched pending orders. Two conditions are evaluated per tick:
//
//   - window start reached: the customer is told the order is not yet
//     matched; on confirmed send the one-way notified flag is latched so
//     later ticks skip the order.
//   - expiration reached (window end plus grace period): the customer
//     receives the terminal notification, and the order is deleted only
//     after that send succeeded. No send confirmation means no delete and
//     no flag flip; the order is simply retried on the next tick.
//
// A failed send never aborts the tick: remaining orders are still
// processed and the successes are committed. The per-order failures are
// joined into the returned error so the scheduler can log them.
type ProcessExpirationsCommandHandler struct {
	uowFactory  OrderUoWFactory
	sender      ports.EmailSender
	gracePeriod time.Duration

	now func() time.Time
}

// NewProcessExpirationsCommandHandler creates a handler for monitor ticks.
// gracePeriod is the slack after the pickup window end before an order
// counts as expired.
func NewProcessExpirationsCommandHandler(
	uowFactory OrderUoWFactory,
	sender ports.EmailSender,
	gracePeriod time.Duration,
) ProcessExpirationsCommandHandler {
	return ProcessExpirationsCommandHandler{
		uowFactory:  uowFactory,
		sender:      sender,
		gracePeriod: gracePeriod,
		now:         time.Now,
	}
}

// Handle runs one monitor tick.
func (h *ProcessExpirationsCommandHandler) Handle(ctx context.Context, cmd ProcessExpirationsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := h.now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	var sendFailures []error

	due, err := orderRepo.GetAllPendingDue(ctx, now)
	if err != nil {
		return err
	}
	for _, aggregate := range due {
		if sendErr := h.notifyWindowStart(ctx, orderRepo, aggregate); sendErr != nil {
			sendFailures = append(sendFailures, fmt.Errorf("order %s: %w", aggregate.ID(), sendErr))
		}
	}

	expired, err := orderRepo.GetAllExpired(ctx, now.Add(-h.gracePeriod))
	if err != nil {
		return err
	}
	for _, aggregate := range expired {
		if sendErr := h.archiveExpired(ctx, orderRepo, aggregate); sendErr != nil {
			sendFailures = append(sendFailures, fmt.Errorf("order %s: %w", aggregate.ID(), sendErr))
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return errors.Join(sendFailures...)
}

// notifyWindowStart tells the customer their order is still unmatched.
// The notified flag is latched only after the send succeeded, so a crash
// in between can at most duplicate the notification, never lose it.
func (h *ProcessExpirationsCommandHandler) notifyWindowStart(
	ctx context.Context,
	orderRepo ports.OrderRepository,
	aggregate *order.Order,
) error {
	subject := "Your transport order is not yet matched"
	body := fmt.Sprintf(
		"<p>Your transport order from %s to %s has reached its pickup window "+
			"but no contractor has accepted it yet. We keep looking.</p>",
		aggregate.Pickup().FullAddress(), aggregate.Delivery().FullAddress())

	if err := h.sender.Send(ctx, aggregate.CustomerEmail(), subject, body); err != nil {
		return err
	}

	if err := aggregate.MarkPickupWindowNotified(); err != nil {
		return err
	}

	return orderRepo.Update(ctx, aggregate)
}

// archiveExpired sends the terminal notification and deletes the order.
// The delete happens strictly after a successful send acknowledgement.
func (h *ProcessExpirationsCommandHandler) archiveExpired(
	ctx context.Context,
	orderRepo ports.OrderRepository,
	aggregate *order.Order,
) error {
	subject := "Your transport order could not be matched"
	body := fmt.Sprintf(
		"<p>Unfortunately no contractor accepted your transport order from %s "+
			"to %s within its pickup window. The order has been closed.</p>",
		aggregate.Pickup().FullAddress(), aggregate.Delivery().FullAddress())

	if err := h.sender.Send(ctx, aggregate.CustomerEmail(), subject, body); err != nil {
		return err
	}

	if err := aggregate.MarkExpiredAndArchived(); err != nil {
		return err
	}

	return orderRepo.Delete(ctx, aggregate.ID())
}
