// Package queries contains read-only operations over the order store.
// Implements the Query side of the CQRS architecture: handlers read
// denormalized rows directly instead of rehydrating aggregates.
package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrGetUnmatchedOrdersQueryIsNotConstructed = errors.New(
	"GetUnmatchedOrdersQuery must be created via NewGetUnmatchedOrdersQuery constructor",
)

// GetUnmatchedOrdersQuery retrieves all pending orders without a
// contractor, the pool contractors pick work from.
//
// Example:
//
//	query := NewGetUnmatchedOrdersQuery()
//	handler := NewGetUnmatchedOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list unmatched orders: %w", err)
//	}
//	fmt.Printf("%d orders waiting for a contractor\n", len(orders))
type GetUnmatchedOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetUnmatchedOrdersQuery creates a query to retrieve the unmatched pool.
// This is a parameterless query.
func NewGetUnmatchedOrdersQuery() GetUnmatchedOrdersQuery {
	return GetUnmatchedOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetUnmatchedOrdersQueryIsNotConstructed if validation fails.
func (q GetUnmatchedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUnmatchedOrdersQueryIsNotConstructed)
}

// GetUnmatchedOrdersQueryResponse is one row of the unmatched pool,
// carrying what a contractor needs to decide on the job.
type GetUnmatchedOrdersQueryResponse struct {
	ID              kernel.UUID
	PickupAddress   string
	DeliveryAddress string
	PickupFrom      time.Time
	PickupTo        time.Time
	DistanceKm      float64
	DurationMinutes int
	Price           float64

	// AvailableBudget is set when a previous contractor cancelled and
	// their penalty funds a higher re-assignment payout.
	AvailableBudget *float64
}
