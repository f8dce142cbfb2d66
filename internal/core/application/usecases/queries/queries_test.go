package queries_test

import (
	"testing"

	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetUnmatchedOrdersQuery(t *testing.T) {
	query := queries.NewGetUnmatchedOrdersQuery()

	require.NoError(t, query.Validate())
}

func TestGetUnmatchedOrdersQuery_ZeroValueFailsValidation(t *testing.T) {
	var query queries.GetUnmatchedOrdersQuery

	require.ErrorIs(t, query.Validate(), queries.ErrGetUnmatchedOrdersQueryIsNotConstructed)
}

func TestNewGetOrderQuery(t *testing.T) {
	t.Run("should create query with valid id", func(t *testing.T) {
		id := kernel.NewUUID()

		query, err := queries.NewGetOrderQuery(id)

		require.NoError(t, err)
		require.NoError(t, query.Validate())
		assert.True(t, query.OrderID().IsEqual(id))
	})

	t.Run("rejects zero id", func(t *testing.T) {
		_, err := queries.NewGetOrderQuery(kernel.UUID{})

		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var query queries.GetOrderQuery

		require.ErrorIs(t, query.Validate(), queries.ErrGetOrderQueryIsNotConstructed)
	})
}
