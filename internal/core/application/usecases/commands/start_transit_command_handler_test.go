package commands_test

import (
	"testing"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStartTransitCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := acceptedOrder(t, 100, time.Now().Add(2*time.Hour))
	cmd, err := commands.NewStartTransitCommand(aggregate.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	expectUoW(ctx, uow, repo)
	repo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	repo.On("Update", ctx, aggregate).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartTransitCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.InTransit, aggregate.Status())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestStartTransitCommandHandler_Handle_PendingOrderRejected(t *testing.T) {
	ctx := t.Context()
	aggregate := pendingOrder(t, 100, time.Now().Add(2*time.Hour))
	cmd, err := commands.NewStartTransitCommand(aggregate.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartTransitCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Equal(t, order.Pending, aggregate.Status())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
