package order_test

import (
	"testing"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWaypoint(t *testing.T, street string) order.Waypoint {
	t.Helper()
	w, err := order.NewWaypoint(street, "10115", "Berlin", "de")
	require.NoError(t, err)
	return w
}

func testWindow(t *testing.T, from time.Time) order.PickupWindow {
	t.Helper()
	w, err := order.NewPickupWindow(from, from.Add(2*time.Hour))
	require.NoError(t, err)
	return w
}

func testOrder(t *testing.T, price float64) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		"customer@example.com",
		testWaypoint(t, "Invalidenstraße 10"),
		testWaypoint(t, "Torstraße 99"),
		nil,
		testWindow(t, time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)),
		price,
	)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create pending unmatched order", func(t *testing.T) {
		o := testOrder(t, 100)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.Contractor())
		assert.Nil(t, o.ContractorPrice())
		assert.InEpsilon(t, 100.0, o.Price(), 1e-9)
		assert.False(t, o.PickupWindowStartNotified())
		assert.False(t, o.ExpiredAndArchived())
		assert.Nil(t, o.Cancellation())
	})

	t.Run("should fail with invalid id", func(t *testing.T) {
		var invalidID kernel.UUID

		_, err := order.NewOrder(invalidID, kernel.NewUUID(), "customer@example.com",
			testWaypoint(t, "A"), testWaypoint(t, "B"), nil,
			testWindow(t, time.Now()), 100)

		require.Error(t, err)
	})

	t.Run("should fail with non-positive price", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), "customer@example.com",
			testWaypoint(t, "A"), testWaypoint(t, "B"), nil,
			testWindow(t, time.Now()), 0)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "price")
	})

	t.Run("should fail with unconstructed waypoint", func(t *testing.T) {
		var zero order.Waypoint

		_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), "customer@example.com",
			zero, testWaypoint(t, "B"), nil, testWindow(t, time.Now()), 100)

		require.Error(t, err)
	})

	t.Run("should fail with malformed customer email", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), "not-an-address",
			testWaypoint(t, "A"), testWaypoint(t, "B"), nil,
			testWindow(t, time.Now()), 100)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "customerEmail")
	})
}

func TestOrder_AttachRoute(t *testing.T) {
	o := testOrder(t, 100)
	geometry := "encoded-polyline"

	require.NoError(t, o.AttachRoute(42.5, 55, &geometry, false))
	assert.InEpsilon(t, 42.5, o.DistanceKm(), 1e-9)
	assert.Equal(t, 55, o.DurationMinutes())
	assert.Equal(t, &geometry, o.RouteGeometry())
	assert.False(t, o.RouteIsFallback())

	require.Error(t, o.AttachRoute(-1, 55, nil, false))
	require.Error(t, o.AttachRoute(42.5, -1, nil, false))
}

func TestOrder_Accept(t *testing.T) {
	t.Run("pending order can be accepted", func(t *testing.T) {
		o := testOrder(t, 100)
		contractorID := kernel.NewUUID()

		err := o.Accept(contractorID, 85)

		require.NoError(t, err)
		assert.Equal(t, order.Accepted, o.Status())
		require.NotNil(t, o.Contractor())
		assert.True(t, o.Contractor().IsEqual(contractorID))
		require.NotNil(t, o.ContractorPrice())
		assert.InEpsilon(t, 85.0, *o.ContractorPrice(), 1e-9)
	})

	t.Run("accepted order rejects a second acceptance", func(t *testing.T) {
		o := testOrder(t, 100)
		require.NoError(t, o.Accept(kernel.NewUUID(), 85))

		err := o.Accept(kernel.NewUUID(), 90)

		require.Error(t, err)
	})

	t.Run("rejects non-positive contractor price", func(t *testing.T) {
		o := testOrder(t, 100)

		require.Error(t, o.Accept(kernel.NewUUID(), 0))
	})
}

func TestOrder_TransitAndCompletion(t *testing.T) {
	o := testOrder(t, 100)
	require.NoError(t, o.Accept(kernel.NewUUID(), 85))

	require.NoError(t, o.StartTransit())
	assert.Equal(t, order.InTransit, o.Status())

	require.NoError(t, o.Complete())
	assert.Equal(t, order.Completed, o.Status())

	// Terminal: no further transitions.
	require.Error(t, o.StartTransit())
	require.Error(t, o.CancelByCustomer("too late", time.Now(), 0, 0))
}

func TestOrder_CancelByContractor(t *testing.T) {
	at := time.Date(2025, 5, 31, 22, 0, 0, 0, time.UTC)

	t.Run("returns the order to the unmatched pool", func(t *testing.T) {
		o := testOrder(t, 100)
		require.NoError(t, o.Accept(kernel.NewUUID(), 85))

		err := o.CancelByContractor("vehicle breakdown", at, 10, 63.75, 163.75)

		require.NoError(t, err)
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.Contractor())
		assert.Nil(t, o.ContractorPrice())

		// Customer price is untouched by the cancellation.
		assert.InEpsilon(t, 100.0, o.Price(), 1e-9)

		c := o.Cancellation()
		require.NotNil(t, c)
		assert.Equal(t, order.CancelledByContractor, c.Status())
		assert.Equal(t, order.PartyContractor, c.CancelledBy())
		assert.Equal(t, "vehicle breakdown", c.Reason())
		assert.Equal(t, at, c.Timestamp())
		assert.InEpsilon(t, 10.0, c.HoursBeforePickup(), 1e-9)
		assert.InEpsilon(t, 63.75, c.Penalty(), 1e-9)
		assert.InEpsilon(t, 163.75, c.AvailableBudget(), 1e-9)
		assert.Nil(t, c.AdjustedContractorPrice())
		assert.Nil(t, c.PlatformProfit())
	})

	t.Run("order can be re-accepted after cancellation", func(t *testing.T) {
		o := testOrder(t, 100)
		require.NoError(t, o.Accept(kernel.NewUUID(), 85))
		require.NoError(t, o.CancelByContractor("breakdown", at, 10, 63.75, 163.75))

		err := o.Accept(kernel.NewUUID(), 110)

		require.NoError(t, err)
		assert.Equal(t, order.Accepted, o.Status())
	})

	t.Run("rejects a budget that violates the funding invariant", func(t *testing.T) {
		o := testOrder(t, 100)
		require.NoError(t, o.Accept(kernel.NewUUID(), 85))

		err := o.CancelByContractor("breakdown", at, 10, 63.75, 150)

		require.Error(t, err)
		assert.Equal(t, order.Accepted, o.Status(), "no partial mutation on rejection")
		assert.Nil(t, o.Cancellation())
	})

	t.Run("rejects cancellation of an unmatched order", func(t *testing.T) {
		o := testOrder(t, 100)

		err := o.CancelByContractor("breakdown", at, 10, 0, 100)

		require.ErrorIs(t, err, order.ErrNoContractorAssigned)
	})

	t.Run("rejects cancellation of a completed order", func(t *testing.T) {
		o := testOrder(t, 100)
		require.NoError(t, o.Accept(kernel.NewUUID(), 85))
		require.NoError(t, o.StartTransit())
		require.NoError(t, o.Complete())

		err := o.CancelByContractor("too late", at, 0, 85, 185)

		require.Error(t, err)
		assert.Nil(t, o.Cancellation())
	})
}

func TestOrder_CancelByCustomer(t *testing.T) {
	at := time.Date(2025, 5, 31, 22, 0, 0, 0, time.UTC)

	t.Run("matched order is terminally cancelled with a fee", func(t *testing.T) {
		o := testOrder(t, 100)
		contractorID := kernel.NewUUID()
		require.NoError(t, o.Accept(contractorID, 85))

		err := o.CancelByCustomer("plans changed", at, 10, 75)

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
		// Contractor reference is kept for the audit trail.
		require.NotNil(t, o.Contractor())
		assert.True(t, o.Contractor().IsEqual(contractorID))

		c := o.Cancellation()
		require.NotNil(t, c)
		assert.Equal(t, order.CancelledByCustomer, c.Status())
		assert.InEpsilon(t, 75.0, c.Penalty(), 1e-9)
		assert.Zero(t, c.AvailableBudget())
	})

	t.Run("unmatched order can be cancelled without fee", func(t *testing.T) {
		o := testOrder(t, 100)

		err := o.CancelByCustomer("plans changed", at, 30, 0)

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Zero(t, o.Cancellation().Penalty())
	})

	t.Run("cancelled order rejects a second cancellation", func(t *testing.T) {
		o := testOrder(t, 100)
		require.NoError(t, o.CancelByCustomer("plans changed", at, 30, 0))

		err := o.CancelByCustomer("again", at, 30, 0)

		require.Error(t, err)
	})
}

func TestOrder_AdjustContractorPrice(t *testing.T) {
	at := time.Date(2025, 5, 31, 22, 0, 0, 0, time.UTC)

	t.Run("records adjustment and platform profit", func(t *testing.T) {
		o := testOrder(t, 100)
		require.NoError(t, o.Accept(kernel.NewUUID(), 85))
		require.NoError(t, o.CancelByContractor("breakdown", at, 10, 63.75, 163.75))

		profit, err := o.AdjustContractorPrice(110)

		require.NoError(t, err)
		assert.InEpsilon(t, 53.75, profit, 1e-9)

		c := o.Cancellation()
		require.NotNil(t, c.AdjustedContractorPrice())
		assert.InEpsilon(t, 110.0, *c.AdjustedContractorPrice(), 1e-9)
		require.NotNil(t, c.PlatformProfit())
		assert.InEpsilon(t, 53.75, *c.PlatformProfit(), 1e-9)

		// Customer price invariant across the whole cancel -> re-price cycle.
		assert.InEpsilon(t, 100.0, o.Price(), 1e-9)
	})

	t.Run("rejects adjustment without prior cancellation", func(t *testing.T) {
		o := testOrder(t, 100)

		_, err := o.AdjustContractorPrice(110)

		require.ErrorIs(t, err, order.ErrNoAvailableBudget)
	})

	t.Run("rejects adjustment after customer cancellation", func(t *testing.T) {
		o := testOrder(t, 100)
		require.NoError(t, o.CancelByCustomer("plans changed", at, 30, 0))

		_, err := o.AdjustContractorPrice(110)

		require.ErrorIs(t, err, order.ErrNoAvailableBudget)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		o := testOrder(t, 100)
		require.NoError(t, o.Accept(kernel.NewUUID(), 85))
		require.NoError(t, o.CancelByContractor("breakdown", at, 10, 63.75, 163.75))

		_, err := o.AdjustContractorPrice(0)

		require.Error(t, err)
	})
}

func TestOrder_NotificationLatches(t *testing.T) {
	t.Run("pickup window flag latches once", func(t *testing.T) {
		o := testOrder(t, 100)

		require.NoError(t, o.MarkPickupWindowNotified())
		assert.True(t, o.PickupWindowStartNotified())

		require.Error(t, o.MarkPickupWindowNotified())
		assert.True(t, o.PickupWindowStartNotified())
	})

	t.Run("expiration flag latches once", func(t *testing.T) {
		o := testOrder(t, 100)

		require.NoError(t, o.MarkExpiredAndArchived())
		assert.True(t, o.ExpiredAndArchived())

		require.Error(t, o.MarkExpiredAndArchived())
	})
}

func TestRestoreOrder(t *testing.T) {
	window := testWindow(t, time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))

	t.Run("restores a matched order", func(t *testing.T) {
		contractorID := kernel.NewUUID()
		contractorPrice := 85.0

		o, err := order.RestoreOrder(order.RestoreOrderParams{
			ID:              kernel.NewUUID(),
			CustomerID:      kernel.NewUUID(),
			CustomerEmail:   "customer@example.com",
			ContractorID:    &contractorID,
			Pickup:          testWaypoint(t, "A"),
			Delivery:        testWaypoint(t, "B"),
			DistanceKm:      42.5,
			DurationMinutes: 55,
			Price:           100,
			ContractorPrice: &contractorPrice,
			PickupWindow:    window,
			Status:          order.Accepted,
		})

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.Equal(t, order.Accepted, o.Status())
		assert.True(t, o.Contractor().IsEqual(contractorID))
	})

	t.Run("rejects pending order with contractor", func(t *testing.T) {
		contractorID := kernel.NewUUID()

		_, err := order.RestoreOrder(order.RestoreOrderParams{
			ID:            kernel.NewUUID(),
			CustomerID:    kernel.NewUUID(),
			CustomerEmail: "customer@example.com",
			ContractorID:  &contractorID,
			Pickup:        testWaypoint(t, "A"),
			Delivery:     testWaypoint(t, "B"),
			Price:        100,
			PickupWindow: window,
			Status:       order.Pending,
		})

		require.Error(t, err)
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		_, err := order.RestoreOrder(order.RestoreOrderParams{
			ID:            kernel.NewUUID(),
			CustomerID:    kernel.NewUUID(),
			CustomerEmail: "customer@example.com",
			Pickup:        testWaypoint(t, "A"),
			Delivery:      testWaypoint(t, "B"),
			Price:         100,
			PickupWindow:  window,
			Status:        order.Unknown,
		})

		require.Error(t, err)
	})

	t.Run("direct struct instantiation fails validation", func(t *testing.T) {
		var o order.Order

		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}
