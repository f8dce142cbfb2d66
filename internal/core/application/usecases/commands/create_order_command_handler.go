package commands

import (
	"context"
	"errors"
	"fmt"

	"freight/internal/core/application/geocoding"
	"freight/internal/core/application/routing"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/services"
)

// ErrPriceBelowMinimum is returned when the proposed customer price falls
// below the wage-floor minimum for the computed route.
var ErrPriceBelowMinimum = errors.New("proposed price is below the minimum price")

// AddressResolver resolves a postal address to coordinates.
type AddressResolver interface {
	Resolve(ctx context.Context, street, postalCode, city, country string) (geocoding.Coordinates, error)
}

// RouteComputer measures the route visiting the waypoints in order.
type RouteComputer interface {
	ComputeRoute(ctx context.Context, waypoints []kernel.GeoPoint) (routing.RouteResult, error)
}

// CreateOrderCommandHandler handles the business logic for order creation:
// address resolution, route computation, minimum-price validation, and
// persistence of the new pending order.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, resolver, routeEngine, calc)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// Order is now pending and visible to contractors
type CreateOrderCommandHandler struct {
	uowFactory  OrderUoWFactory
	resolver    AddressResolver
	routeEngine RouteComputer
	calculator  services.PriceCalculator
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires an OrderUoWFactory for transactional persistence plus the
// geocoding, routing, and pricing collaborators.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	resolver AddressResolver,
	routeEngine RouteComputer,
	calculator services.PriceCalculator,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:  uowFactory,
		resolver:    resolver,
		routeEngine: routeEngine,
		calculator:  calculator,
	}
}

// Handle processes the order creation command.
//
// Steps:
//  1. resolve pickup, stops, and delivery addresses to coordinates
//  2. compute the route over all waypoints
//  3. validate the proposed price against the wage-floor minimum
//  4. create and persist the pending order with its route metrics
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	pickup, err := h.resolveWaypoint(ctx, cmd.Pickup())
	if err != nil {
		return fmt.Errorf("pickup address: %w", err)
	}

	stops := make([]order.Waypoint, 0, len(cmd.Stops()))
	points := make([]kernel.GeoPoint, 0, len(cmd.Stops())+2)
	points = append(points, *pickup.Point())

	for i, stopAddr := range cmd.Stops() {
		stop, sErr := h.resolveWaypoint(ctx, stopAddr)
		if sErr != nil {
			return fmt.Errorf("stop %d address: %w", i, sErr)
		}
		stops = append(stops, stop)
		points = append(points, *stop.Point())
	}

	delivery, err := h.resolveWaypoint(ctx, cmd.Delivery())
	if err != nil {
		return fmt.Errorf("delivery address: %w", err)
	}
	points = append(points, *delivery.Point())

	route, err := h.routeEngine.ComputeRoute(ctx, points)
	if err != nil {
		return err
	}

	validation, err := h.calculator.ValidatePrice(cmd.Price(), route.DistanceKm, route.DurationMinutes)
	if err != nil {
		return err
	}
	if !validation.IsValid {
		return fmt.Errorf("%w: %s", ErrPriceBelowMinimum, validation.Message)
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		cmd.CustomerID(),
		cmd.CustomerEmail(),
		pickup,
		delivery,
		stops,
		mustWindow(cmd),
		cmd.Price(),
	)
	if err != nil {
		return err
	}

	if err = newOrder.AttachRoute(route.DistanceKm, route.DurationMinutes, route.Geometry, route.IsFallback); err != nil {
		return err
	}
	if err = newOrder.SetServiceFees(cmd.ExtraStopFee(), cmd.LoadingHelpFee()); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

func (h *CreateOrderCommandHandler) resolveWaypoint(ctx context.Context, a Address) (order.Waypoint, error) {
	w, err := order.NewWaypoint(a.Street, a.PostalCode, a.City, a.Country)
	if err != nil {
		return order.Waypoint{}, err
	}

	coords, err := h.resolver.Resolve(ctx, a.Street, a.PostalCode, a.City, a.Country)
	if err != nil {
		return order.Waypoint{}, err
	}

	return w.WithPoint(coords.Point)
}

func mustWindow(cmd CreateOrderCommand) order.PickupWindow {
	// The command already validated the window bounds.
	w, _ := order.NewPickupWindow(cmd.PickupFrom(), cmd.PickupTo())
	return w
}
