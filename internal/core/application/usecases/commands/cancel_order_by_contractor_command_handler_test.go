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

func TestCancelOrderByContractorCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	// Pickup in ten hours puts the cancellation in the 75% tier.
	aggregate := acceptedOrder(t, 100, time.Now().Add(10*time.Hour))
	cmd, err := commands.NewCancelOrderByContractorCommand(aggregate.ID(), "vehicle breakdown")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	expectUoW(ctx, uow, repo)
	repo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	repo.On("Update", ctx, aggregate).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelOrderByContractorCommandHandler(factory, services.DefaultCancellationPolicy())
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Pending, aggregate.Status())
	assert.Nil(t, aggregate.Contractor())
	assert.Nil(t, aggregate.ContractorPrice())
	assert.InEpsilon(t, 100.0, aggregate.Price(), 1e-9)

	c := aggregate.Cancellation()
	require.NotNil(t, c)
	assert.Equal(t, order.CancelledByContractor, c.Status())
	assert.Equal(t, "vehicle breakdown", c.Reason())
	assert.InDelta(t, 10.0, c.HoursBeforePickup(), 0.01)
	// Penalty is 75% of the 85 EUR contractor price; the budget adds it
	// on top of the customer price.
	assert.InEpsilon(t, 63.75, c.Penalty(), 1e-9)
	assert.InEpsilon(t, 163.75, c.AvailableBudget(), 1e-9)

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCancelOrderByContractorCommandHandler_Handle_EarlyCancellationIsPenaltyFree(t *testing.T) {
	ctx := t.Context()
	aggregate := acceptedOrder(t, 100, time.Now().Add(30*time.Hour))
	cmd, err := commands.NewCancelOrderByContractorCommand(aggregate.ID(), "schedule conflict")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	expectUoW(ctx, uow, repo)
	repo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	repo.On("Update", ctx, aggregate).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelOrderByContractorCommandHandler(factory, services.DefaultCancellationPolicy())
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	c := aggregate.Cancellation()
	require.NotNil(t, c)
	assert.Zero(t, c.Penalty())
	// Budget equals the customer price when no penalty funds it.
	assert.InEpsilon(t, 100.0, c.AvailableBudget(), 1e-9)
}

func TestCancelOrderByContractorCommandHandler_Handle_UnmatchedOrderRejected(t *testing.T) {
	ctx := t.Context()
	aggregate := pendingOrder(t, 100, time.Now().Add(10*time.Hour))
	cmd, err := commands.NewCancelOrderByContractorCommand(aggregate.ID(), "mistake")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelOrderByContractorCommandHandler(factory, services.DefaultCancellationPolicy())
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrNoContractorAssigned)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestNewCancelOrderByContractorCommand_RequiresReason(t *testing.T) {
	aggregate := pendingOrder(t, 100, time.Now().Add(10*time.Hour))

	_, err := commands.NewCancelOrderByContractorCommand(aggregate.ID(), "   ")

	require.Error(t, err)
}
