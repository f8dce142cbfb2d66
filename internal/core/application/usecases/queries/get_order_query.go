package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order with its pricing and cancellation
// audit fields.
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for a single order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderQueryIsNotConstructed if validation fails.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// CancellationInfo carries the audit fields of a cancellation, if any.
type CancellationInfo struct {
	Status            string
	CancelledBy       string
	Reason            string
	Timestamp         time.Time
	HoursBeforePickup float64
	Penalty           float64
	AvailableBudget   float64

	AdjustedContractorPrice *float64
	PlatformProfit          *float64
}

// GetOrderQueryResponse is the full read model of one order.
type GetOrderQueryResponse struct {
	ID            kernel.UUID
	CustomerID    kernel.UUID
	CustomerEmail string
	ContractorID  *kernel.UUID

	PickupAddress   string
	DeliveryAddress string

	DistanceKm      float64
	DurationMinutes int
	RouteIsFallback bool

	Price           float64
	ContractorPrice *float64
	ExtraStopFee    float64
	LoadingHelpFee  float64

	PickupFrom time.Time
	PickupTo   time.Time
	Status     string

	PickupWindowStartNotified bool

	Cancellation *CancellationInfo
}
