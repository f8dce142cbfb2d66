package commands_test

import (
	"testing"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelOrderByCustomerCommandHandler_Handle_MatchedOrderPaysFee(t *testing.T) {
	ctx := t.Context()
	aggregate := acceptedOrder(t, 100, time.Now().Add(10*time.Hour))
	cmd, err := commands.NewCancelOrderByCustomerCommand(aggregate.ID(), "plans changed")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	expectUoW(ctx, uow, repo)
	repo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	repo.On("Update", ctx, aggregate).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelOrderByCustomerCommandHandler(factory, services.DefaultCancellationPolicy())
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, aggregate.Status())

	c := aggregate.Cancellation()
	require.NotNil(t, c)
	assert.Equal(t, order.CancelledByCustomer, c.Status())
	// 75% tier applied to the 100 EUR customer price.
	assert.InEpsilon(t, 75.0, c.Penalty(), 1e-9)
	assert.Zero(t, c.AvailableBudget())

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCancelOrderByCustomerCommandHandler_Handle_UnmatchedOrderCancelsFree(t *testing.T) {
	ctx := t.Context()
	aggregate := pendingOrder(t, 100, time.Now().Add(10*time.Hour))
	cmd, err := commands.NewCancelOrderByCustomerCommand(aggregate.ID(), "found another provider")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	expectUoW(ctx, uow, repo)
	repo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	repo.On("Update", ctx, aggregate).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelOrderByCustomerCommandHandler(factory, services.DefaultCancellationPolicy())
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, aggregate.Status())
	assert.Zero(t, aggregate.Cancellation().Penalty())
}

func TestCancelOrderByCustomerCommandHandler_Handle_TerminalOrderRejected(t *testing.T) {
	ctx := t.Context()
	aggregate := acceptedOrder(t, 100, time.Now().Add(10*time.Hour))
	require.NoError(t, aggregate.StartTransit())
	require.NoError(t, aggregate.Complete())

	cmd, err := commands.NewCancelOrderByCustomerCommand(aggregate.ID(), "too late")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelOrderByCustomerCommandHandler(factory, services.DefaultCancellationPolicy())
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Equal(t, order.Completed, aggregate.Status())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
}
