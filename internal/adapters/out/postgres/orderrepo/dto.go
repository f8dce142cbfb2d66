// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to a single denormalized row with indexes for
// efficient querying of the unmatched pool and the expiration monitor scans.
type OrderDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID    uuid.UUID `gorm:"type:uuid;index"`
	CustomerEmail string
	ContractorID  *uuid.UUID `gorm:"type:uuid;index"`

	Pickup   WaypointDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Delivery WaypointDTO `gorm:"embedded;embeddedPrefix:delivery_"`
	Stops    []StopDTO   `gorm:"serializer:json;type:jsonb"`

	DistanceKm      float64
	DurationMinutes int
	RouteGeometry   *string
	RouteIsFallback bool

	Price           float64
	ContractorPrice *float64
	ExtraStopFee    float64
	LoadingHelpFee  float64

	PickupFrom time.Time `gorm:"index"`
	PickupTo   time.Time
	Status     string `gorm:"index"`

	PickupWindowStartNotified bool
	ExpiredAndArchived        bool

	CancellationStatus             *string
	CancelledBy                    *string
	CancellationReason             *string
	CancellationTimestamp          *time.Time
	HoursBeforePickup              *float64
	ContractorPenalty              *float64
	AvailableBudget                *float64
	AdjustedContractorPrice        *float64
	PlatformProfitFromCancellation *float64
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// WaypointDTO represents an embedded route address within the order table.
// Lat and Lon are nil while the address is not geocoded yet.
type WaypointDTO struct {
	Street     string
	PostalCode string
	City       string
	Country    string
	Lat        *float64
	Lon        *float64
}

// StopDTO represents one intermediate stop, serialized into the jsonb
// stops column.
type StopDTO struct {
	Street     string   `json:"street"`
	PostalCode string   `json:"postalCode"`
	City       string   `json:"city"`
	Country    string   `json:"country"`
	Lat        *float64 `json:"lat,omitempty"`
	Lon        *float64 `json:"lon,omitempty"`
}

// fromDomain converts an order domain aggregate to its database representation.
// Maps all order attributes including the optional contractor assignment and
// the cancellation audit sub-record.
func fromDomain(aggregate *order.Order) OrderDTO {
	var contractorID *uuid.UUID
	if id := aggregate.Contractor(); id != nil {
		raw := id.Bytes()
		contractorID = &raw
	}

	stops := make([]StopDTO, 0, len(aggregate.Stops()))
	for _, s := range aggregate.Stops() {
		stops = append(stops, stopFromDomain(s))
	}

	dto := OrderDTO{
		ID:            aggregate.ID().Bytes(),
		CustomerID:    aggregate.CustomerID().Bytes(),
		CustomerEmail: aggregate.CustomerEmail(),
		ContractorID:  contractorID,

		Pickup:   waypointFromDomain(aggregate.Pickup()),
		Delivery: waypointFromDomain(aggregate.Delivery()),
		Stops:    stops,

		DistanceKm:      aggregate.DistanceKm(),
		DurationMinutes: aggregate.DurationMinutes(),
		RouteGeometry:   aggregate.RouteGeometry(),
		RouteIsFallback: aggregate.RouteIsFallback(),

		Price:           aggregate.Price(),
		ContractorPrice: aggregate.ContractorPrice(),
		ExtraStopFee:    aggregate.ExtraStopFee(),
		LoadingHelpFee:  aggregate.LoadingHelpFee(),

		PickupFrom: aggregate.PickupWindow().From(),
		PickupTo:   aggregate.PickupWindow().To(),
		Status:     aggregate.Status().String(),

		PickupWindowStartNotified: aggregate.PickupWindowStartNotified(),
		ExpiredAndArchived:        aggregate.ExpiredAndArchived(),
	}

	if c := aggregate.Cancellation(); c != nil {
		status := string(c.Status())
		by := string(c.CancelledBy())
		reason := c.Reason()
		timestamp := c.Timestamp()
		hours := c.HoursBeforePickup()
		penalty := c.Penalty()
		budget := c.AvailableBudget()

		dto.CancellationStatus = &status
		dto.CancelledBy = &by
		dto.CancellationReason = &reason
		dto.CancellationTimestamp = &timestamp
		dto.HoursBeforePickup = &hours
		dto.ContractorPenalty = &penalty
		dto.AvailableBudget = &budget
		dto.AdjustedContractorPrice = c.AdjustedContractorPrice()
		dto.PlatformProfitFromCancellation = c.PlatformProfit()
	}

	return dto
}

func waypointFromDomain(w order.Waypoint) WaypointDTO {
	dto := WaypointDTO{
		Street:     w.Street(),
		PostalCode: w.PostalCode(),
		City:       w.City(),
		Country:    w.Country(),
	}
	if p := w.Point(); p != nil {
		lat, lon := p.Lat(), p.Lon()
		dto.Lat = &lat
		dto.Lon = &lon
	}
	return dto
}

func stopFromDomain(w order.Waypoint) StopDTO {
	dto := StopDTO{
		Street:     w.Street(),
		PostalCode: w.PostalCode(),
		City:       w.City(),
		Country:    w.Country(),
	}
	if p := w.Point(); p != nil {
		lat, lon := p.Lat(), p.Lon()
		dto.Lat = &lat
		dto.Lon = &lon
	}
	return dto
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including the cancellation audit
// record using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var contractorID *kernel.UUID
	if dto.ContractorID != nil {
		cID, contractorErr := kernel.UUIDFromBytes((*dto.ContractorID)[:])
		if contractorErr != nil {
			return nil, contractorErr
		}

		contractorID = &cID
	}

	pickup, err := waypointToDomain(dto.Pickup)
	if err != nil {
		return nil, err
	}

	delivery, err := waypointToDomain(dto.Delivery)
	if err != nil {
		return nil, err
	}

	stops := make([]order.Waypoint, 0, len(dto.Stops))
	for _, s := range dto.Stops {
		stop, stopErr := waypointToDomain(WaypointDTO(s))
		if stopErr != nil {
			return nil, stopErr
		}
		stops = append(stops, stop)
	}

	window, err := order.NewPickupWindow(dto.PickupFrom, dto.PickupTo)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	cancellation, err := cancellationToDomain(dto)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:            id,
		CustomerID:    customerID,
		CustomerEmail: dto.CustomerEmail,
		ContractorID:  contractorID,

		Pickup:   pickup,
		Delivery: delivery,
		Stops:    stops,

		DistanceKm:      dto.DistanceKm,
		DurationMinutes: dto.DurationMinutes,
		RouteGeometry:   dto.RouteGeometry,
		RouteIsFallback: dto.RouteIsFallback,

		Price:           dto.Price,
		ContractorPrice: dto.ContractorPrice,
		ExtraStopFee:    dto.ExtraStopFee,
		LoadingHelpFee:  dto.LoadingHelpFee,

		PickupWindow: window,
		Status:       status,
		Cancellation: cancellation,

		PickupWindowStartNotified: dto.PickupWindowStartNotified,
		ExpiredAndArchived:        dto.ExpiredAndArchived,
	})
}

func waypointToDomain(dto WaypointDTO) (order.Waypoint, error) {
	w, err := order.NewWaypoint(dto.Street, dto.PostalCode, dto.City, dto.Country)
	if err != nil {
		return order.Waypoint{}, err
	}

	if dto.Lat != nil && dto.Lon != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Lat, *dto.Lon)
		if pointErr != nil {
			return order.Waypoint{}, pointErr
		}
		return w.WithPoint(point)
	}

	return w, nil
}

func cancellationToDomain(dto OrderDTO) (*order.Cancellation, error) {
	if dto.CancellationStatus == nil {
		return nil, nil
	}

	cancellation, err := order.RestoreCancellation(
		order.CancellationStatus(*dto.CancellationStatus),
		order.Party(*dto.CancelledBy),
		*dto.CancellationReason,
		*dto.CancellationTimestamp,
		*dto.HoursBeforePickup,
		*dto.ContractorPenalty,
		*dto.AvailableBudget,
		dto.AdjustedContractorPrice,
		dto.PlatformProfitFromCancellation,
	)
	if err != nil {
		return nil, err
	}

	return &cancellation, nil
}
