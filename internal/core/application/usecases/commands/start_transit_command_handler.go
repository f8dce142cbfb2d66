package commands

import (
	"context"
)

// StartTransitCommandHandler drives the accepted to in_transit transition.
type StartTransitCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewStartTransitCommandHandler creates a handler for transit starts.
func NewStartTransitCommandHandler(uowFactory OrderUoWFactory) StartTransitCommandHandler {
	return StartTransitCommandHandler{uowFactory: uowFactory}
}

// Handle loads the order, applies the transition, and persists it.
func (h *StartTransitCommandHandler) Handle(ctx context.Context, cmd StartTransitCommand) error {
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

	if err = aggregate.StartTransit(); err != nil {
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
