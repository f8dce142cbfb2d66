package queries

import (
	"context"
	"database/sql"
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order row, including the cancellation
// audit columns, straight from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single order queries.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns errs.ObjectNotFoundError when no
// order exists under the requested ID.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id, customer_id, customer_email, contractor_id,
			pickup_street, pickup_postal_code, pickup_city,
			delivery_street, delivery_postal_code, delivery_city,
			distance_km, duration_minutes, route_is_fallback,
			price, contractor_price, extra_stop_fee, loading_help_fee,
			pickup_from, pickup_to, status,
			pickup_window_start_notified,
			cancellation_status, cancelled_by, cancellation_reason,
			cancellation_timestamp, hours_before_pickup,
			contractor_penalty, available_budget,
			adjusted_contractor_price, platform_profit_from_cancellation
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	var resp GetOrderQueryResponse
	var id, customerID uuid.UUID
	var contractorID uuid.NullUUID
	var pickupStreet, pickupPostal, pickupCity string
	var deliveryStreet, deliveryPostal, deliveryCity string
	var contractorPrice sql.NullFloat64
	var cancellationStatus, cancelledBy, cancellationReason sql.NullString
	var cancellationTimestamp sql.NullTime
	var hoursBeforePickup, penalty, availableBudget sql.NullFloat64
	var adjustedPrice, platformProfit sql.NullFloat64

	err := row.Scan(
		&id, &customerID, &resp.CustomerEmail, &contractorID,
		&pickupStreet, &pickupPostal, &pickupCity,
		&deliveryStreet, &deliveryPostal, &deliveryCity,
		&resp.DistanceKm, &resp.DurationMinutes, &resp.RouteIsFallback,
		&resp.Price, &contractorPrice, &resp.ExtraStopFee, &resp.LoadingHelpFee,
		&resp.PickupFrom, &resp.PickupTo, &resp.Status,
		&resp.PickupWindowStartNotified,
		&cancellationStatus, &cancelledBy, &cancellationReason,
		&cancellationTimestamp, &hoursBeforePickup,
		&penalty, &availableBudget,
		&adjustedPrice, &platformProfit,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.CustomerID, err = kernel.UUIDFromBytes(customerID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if contractorID.Valid {
		cid, idErr := kernel.UUIDFromBytes(contractorID.UUID[:])
		if idErr != nil {
			return GetOrderQueryResponse{}, idErr
		}
		resp.ContractorID = &cid
	}

	pickup, err := order.NewWaypoint(pickupStreet, pickupPostal, pickupCity, "")
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	delivery, err := order.NewWaypoint(deliveryStreet, deliveryPostal, deliveryCity, "")
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.PickupAddress = pickup.FullAddress()
	resp.DeliveryAddress = delivery.FullAddress()

	if contractorPrice.Valid {
		price := contractorPrice.Float64
		resp.ContractorPrice = &price
	}

	if cancellationStatus.Valid {
		info := CancellationInfo{
			Status:            cancellationStatus.String,
			CancelledBy:       cancelledBy.String,
			Reason:            cancellationReason.String,
			Timestamp:         cancellationTimestamp.Time,
			HoursBeforePickup: hoursBeforePickup.Float64,
			Penalty:           penalty.Float64,
			AvailableBudget:   availableBudget.Float64,
		}
		if adjustedPrice.Valid {
			v := adjustedPrice.Float64
			info.AdjustedContractorPrice = &v
		}
		if platformProfit.Valid {
			v := platformProfit.Float64
			info.PlatformProfit = &v
		}
		resp.Cancellation = &info
	}

	return resp, nil
}
