package queries

import (
	"context"
	"database/sql"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUnmatchedOrdersQueryHandler lists the unmatched order pool from the
// database, oldest pickup window first.
type GetUnmatchedOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUnmatchedOrdersQueryHandler creates a handler for unmatched pool
// queries. Requires a GORM database connection for query execution.
func NewGetUnmatchedOrdersQueryHandler(db *gorm.DB) GetUnmatchedOrdersQueryHandler {
	return GetUnmatchedOrdersQueryHandler{db: db}
}

// Handle executes the query. Returns pending orders without a contractor,
// including the available re-assignment budget where a prior contractor
// cancellation funded one.
func (h GetUnmatchedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUnmatchedOrdersQuery,
) ([]GetUnmatchedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetUnmatchedOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			pickup_street, pickup_postal_code, pickup_city,
			delivery_street, delivery_postal_code, delivery_city,
			pickup_from, pickup_to,
			distance_km, duration_minutes,
			price,
			available_budget
		FROM orders
		WHERE status = ? AND contractor_id IS NULL
		ORDER BY pickup_from
	`, order.Pending.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetUnmatchedOrdersQueryResponse
		var id uuid.UUID
		var pickupStreet, pickupPostal, pickupCity string
		var deliveryStreet, deliveryPostal, deliveryCity string
		var availableBudget sql.NullFloat64

		err = rows.Scan(
			&id,
			&pickupStreet, &pickupPostal, &pickupCity,
			&deliveryStreet, &deliveryPostal, &deliveryCity,
			&resp.PickupFrom, &resp.PickupTo,
			&resp.DistanceKm, &resp.DurationMinutes,
			&resp.Price,
			&availableBudget,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID

		pickup, wErr := order.NewWaypoint(pickupStreet, pickupPostal, pickupCity, "")
		if wErr != nil {
			return nil, wErr
		}
		delivery, wErr := order.NewWaypoint(deliveryStreet, deliveryPostal, deliveryCity, "")
		if wErr != nil {
			return nil, wErr
		}
		resp.PickupAddress = pickup.FullAddress()
		resp.DeliveryAddress = delivery.FullAddress()

		if availableBudget.Valid {
			budget := availableBudget.Float64
			resp.AvailableBudget = &budget
		}

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
