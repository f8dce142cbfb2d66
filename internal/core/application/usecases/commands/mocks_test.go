package commands_test

import (
	"context"
	"testing"
	"time"

	"freight/internal/core/application/geocoding"
	"freight/internal/core/application/routing"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) GetAllPendingDue(ctx context.Context, now time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllExpired(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockAddressResolver struct{ mock.Mock }

func (m *MockAddressResolver) Resolve(
	ctx context.Context, street, postalCode, city, country string,
) (geocoding.Coordinates, error) {
	args := m.Called(ctx, street, postalCode, city, country)
	return args.Get(0).(geocoding.Coordinates), args.Error(1)
}

type MockRouteComputer struct{ mock.Mock }

func (m *MockRouteComputer) ComputeRoute(
	ctx context.Context, waypoints []kernel.GeoPoint,
) (routing.RouteResult, error) {
	args := m.Called(ctx, waypoints)
	return args.Get(0).(routing.RouteResult), args.Error(1)
}

type MockEmailSender struct{ mock.Mock }

func (m *MockEmailSender) Send(ctx context.Context, to string, subject string, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

// expectUoW wires the standard Begin/OrderRepository/Commit/Rollback flow
// of a successful handler run.
func expectUoW(ctx context.Context, uow *MockOrderUoW, repo *MockOrderRepository) {
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
}

func testWaypoint(t *testing.T, street string) order.Waypoint {
	t.Helper()
	w, err := order.NewWaypoint(street, "10115", "Berlin", "de")
	require.NoError(t, err)
	return w
}

// pendingOrder builds an unmatched pending order whose pickup window
// starts at the given instant.
func pendingOrder(t *testing.T, price float64, pickupFrom time.Time) *order.Order {
	t.Helper()

	window, err := order.NewPickupWindow(pickupFrom, pickupFrom.Add(2*time.Hour))
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		"customer@example.com",
		testWaypoint(t, "Invalidenstraße 10"),
		testWaypoint(t, "Torstraße 99"),
		nil,
		window,
		price,
	)
	require.NoError(t, err)
	return o
}

// acceptedOrder builds an order matched to a contractor at the standard
// 85% payout.
func acceptedOrder(t *testing.T, price float64, pickupFrom time.Time) *order.Order {
	t.Helper()

	o := pendingOrder(t, price, pickupFrom)
	require.NoError(t, o.Accept(kernel.NewUUID(), kernel.RoundToCents(price*0.85)))
	return o
}
