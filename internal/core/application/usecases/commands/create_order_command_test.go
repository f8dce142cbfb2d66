package commands_test

import (
	"testing"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateOrderParams() commands.CreateOrderParams {
	return commands.CreateOrderParams{
		OrderID:       kernel.NewUUID(),
		CustomerID:    kernel.NewUUID(),
		CustomerEmail: "customer@example.com",
		Pickup:        commands.Address{Street: "Invalidenstraße 10", PostalCode: "10115", City: "Berlin"},
		Delivery:      commands.Address{Street: "Speicherstadt 1", PostalCode: "20457", City: "Hamburg"},
		PickupFrom:    time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		// Above the wage-floor minimum for the 289.2 km / 180 min route
		// used by the handler tests.
		Price: 250,
	}
}

func TestNewCreateOrderCommand(t *testing.T) {
	t.Run("should create command with valid params", func(t *testing.T) {
		cmd, err := commands.NewCreateOrderCommand(validCreateOrderParams())

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, "customer@example.com", cmd.CustomerEmail())
		assert.InEpsilon(t, 250.0, cmd.Price(), 1e-9)
	})

	t.Run("rejects invalid order id", func(t *testing.T) {
		p := validCreateOrderParams()
		p.OrderID = kernel.UUID{}

		_, err := commands.NewCreateOrderCommand(p)

		require.Error(t, err)
	})

	t.Run("rejects missing customer email", func(t *testing.T) {
		p := validCreateOrderParams()
		p.CustomerEmail = "  "

		_, err := commands.NewCreateOrderCommand(p)

		require.Error(t, err)
	})

	t.Run("rejects pickup address without street", func(t *testing.T) {
		p := validCreateOrderParams()
		p.Pickup.Street = ""

		_, err := commands.NewCreateOrderCommand(p)

		require.Error(t, err)
	})

	t.Run("rejects stop address without city", func(t *testing.T) {
		p := validCreateOrderParams()
		p.Stops = []commands.Address{{Street: "Mittelweg 5"}}

		_, err := commands.NewCreateOrderCommand(p)

		require.Error(t, err)
	})

	t.Run("rejects zero pickup window start", func(t *testing.T) {
		p := validCreateOrderParams()
		p.PickupFrom = time.Time{}

		_, err := commands.NewCreateOrderCommand(p)

		require.Error(t, err)
	})

	t.Run("rejects window end before start", func(t *testing.T) {
		p := validCreateOrderParams()
		p.PickupTo = p.PickupFrom.Add(-time.Hour)

		_, err := commands.NewCreateOrderCommand(p)

		require.Error(t, err)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		p := validCreateOrderParams()
		p.Price = 0

		_, err := commands.NewCreateOrderCommand(p)

		require.Error(t, err)
	})

	t.Run("rejects negative fees", func(t *testing.T) {
		p := validCreateOrderParams()
		p.ExtraStopFee = -1

		_, err := commands.NewCreateOrderCommand(p)

		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var cmd commands.CreateOrderCommand

		require.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
	})
}
