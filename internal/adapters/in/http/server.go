// Package http provides the inbound HTTP adapter: a thin echo server whose
// handlers translate JSON requests into commands and queries and map domain
// errors to status codes. No business logic lives here.
package http

import (
	"errors"
	"net/http"
	"time"

	"freight/internal/core/application/geocoding"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler          commands.CreateOrderCommandHandler
	acceptOrderHandler          commands.AcceptOrderCommandHandler
	startTransitHandler         commands.StartTransitCommandHandler
	completeOrderHandler        commands.CompleteOrderCommandHandler
	cancelByContractorHandler   commands.CancelOrderByContractorCommandHandler
	cancelByCustomerHandler     commands.CancelOrderByCustomerCommandHandler
	adjustContractorPriceHandler commands.AdjustContractorPriceCommandHandler

	// Query handlers
	getUnmatchedOrdersHandler queries.GetUnmatchedOrdersQueryHandler
	getOrderHandler           queries.GetOrderQueryHandler

	// Quote pipeline
	resolver    commands.AddressResolver
	routeEngine commands.RouteComputer
	calculator  services.PriceCalculator
}

// ServerParams groups the dependencies of the HTTP server.
type ServerParams struct {
	CreateOrderHandler           commands.CreateOrderCommandHandler
	AcceptOrderHandler           commands.AcceptOrderCommandHandler
	StartTransitHandler          commands.StartTransitCommandHandler
	CompleteOrderHandler         commands.CompleteOrderCommandHandler
	CancelByContractorHandler    commands.CancelOrderByContractorCommandHandler
	CancelByCustomerHandler      commands.CancelOrderByCustomerCommandHandler
	AdjustContractorPriceHandler commands.AdjustContractorPriceCommandHandler

	GetUnmatchedOrdersHandler queries.GetUnmatchedOrdersQueryHandler
	GetOrderHandler           queries.GetOrderQueryHandler

	Resolver    commands.AddressResolver
	RouteEngine commands.RouteComputer
	Calculator  services.PriceCalculator
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(p ServerParams) *Server {
	return &Server{
		createOrderHandler:           p.CreateOrderHandler,
		acceptOrderHandler:           p.AcceptOrderHandler,
		startTransitHandler:          p.StartTransitHandler,
		completeOrderHandler:         p.CompleteOrderHandler,
		cancelByContractorHandler:    p.CancelByContractorHandler,
		cancelByCustomerHandler:      p.CancelByCustomerHandler,
		adjustContractorPriceHandler: p.AdjustContractorPriceHandler,
		getUnmatchedOrdersHandler:    p.GetUnmatchedOrdersHandler,
		getOrderHandler:              p.GetOrderHandler,
		resolver:                     p.Resolver,
		routeEngine:                  p.RouteEngine,
		calculator:                   p.Calculator,
	}
}

// RegisterRoutes wires all order endpoints under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders/quote", s.QuoteOrder)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/unmatched", s.GetUnmatchedOrders)
	api.GET("/orders/:id", s.GetOrder)

	api.POST("/orders/:id/accept", s.AcceptOrder)
	api.POST("/orders/:id/transit", s.StartTransit)
	api.POST("/orders/:id/complete", s.CompleteOrder)

	api.POST("/orders/:id/cancellations/customer", s.CancelOrderByCustomer)
	api.POST("/orders/:id/cancellations/contractor", s.CancelOrderByContractor)
	api.POST("/orders/:id/contractor-price", s.AdjustContractorPrice)
}

// ErrorResponse is the JSON body returned on failures.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// AddressRequest is one postal address in a request body.
type AddressRequest struct {
	Street     string `json:"street"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

// QuoteRequest asks for a price quote over a route before an order exists.
type QuoteRequest struct {
	Pickup   AddressRequest   `json:"pickup"`
	Delivery AddressRequest   `json:"delivery"`
	Stops    []AddressRequest `json:"stops"`
}

// QuoteResponse carries the measured route and the price corridor.
type QuoteResponse struct {
	DistanceKm       float64 `json:"distanceKm"`
	DurationMinutes  int     `json:"durationMinutes"`
	IsFallback       bool    `json:"isFallback"`
	MinimumPrice     float64 `json:"minimumPrice"`
	RecommendedPrice float64 `json:"recommendedPrice"`
}

// QuoteOrder handles POST /api/v1/orders/quote. Resolves the addresses,
// measures the route, and returns the wage-floor minimum and the
// recommended price for it.
func (s *Server) QuoteOrder(ctx echo.Context) error {
	var req QuoteRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	addresses := append([]AddressRequest{req.Pickup}, req.Stops...)
	addresses = append(addresses, req.Delivery)

	points := make([]kernel.GeoPoint, 0, len(addresses))
	for _, a := range addresses {
		coords, err := s.resolver.Resolve(
			ctx.Request().Context(), a.Street, a.PostalCode, a.City, a.Country)
		if err != nil {
			return mapError(ctx, err)
		}
		points = append(points, coords.Point)
	}

	route, err := s.routeEngine.ComputeRoute(ctx.Request().Context(), points)
	if err != nil {
		return mapError(ctx, err)
	}

	minimum, err := s.calculator.MinimumPrice(route.DistanceKm, route.DurationMinutes)
	if err != nil {
		return mapError(ctx, err)
	}
	recommended, err := s.calculator.RecommendedPrice(route.DistanceKm, route.DurationMinutes)
	if err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, QuoteResponse{
		DistanceKm:       route.DistanceKm,
		DurationMinutes:  route.DurationMinutes,
		IsFallback:       route.IsFallback,
		MinimumPrice:     minimum,
		RecommendedPrice: recommended,
	})
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	CustomerID    string `json:"customerId"`
	CustomerEmail string `json:"customerEmail"`

	Pickup   AddressRequest   `json:"pickup"`
	Delivery AddressRequest   `json:"delivery"`
	Stops    []AddressRequest `json:"stops"`

	PickupFrom time.Time  `json:"pickupFrom"`
	PickupTo   *time.Time `json:"pickupTo"`

	Price          float64 `json:"price"`
	ExtraStopFee   float64 `json:"extraStopFee"`
	LoadingHelpFee float64 `json:"loadingHelpFee"`
}

// CreateOrderResponse returns the generated order identifier.
type CreateOrderResponse struct {
	OrderID string `json:"orderId"`
}

// CreateOrder handles POST /api/v1/orders - creates a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return badRequest(ctx, "Invalid customer ID: "+err.Error())
	}

	var pickupTo time.Time
	if req.PickupTo != nil {
		pickupTo = *req.PickupTo
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(commands.CreateOrderParams{
		OrderID:        orderID,
		CustomerID:     customerID,
		CustomerEmail:  req.CustomerEmail,
		Pickup:         toAddress(req.Pickup),
		Delivery:       toAddress(req.Delivery),
		Stops:          toAddresses(req.Stops),
		PickupFrom:     req.PickupFrom,
		PickupTo:       pickupTo,
		Price:          req.Price,
		ExtraStopFee:   req.ExtraStopFee,
		LoadingHelpFee: req.LoadingHelpFee,
	})
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return mapError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{OrderID: orderID.String()})
}

// AcceptOrderRequest is the body of POST /api/v1/orders/:id/accept.
type AcceptOrderRequest struct {
	ContractorID string `json:"contractorId"`
}

// AcceptOrder handles POST /api/v1/orders/:id/accept - a contractor commits
// to the order.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var req AcceptOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	contractorID, err := kernel.UUIDFromString(req.ContractorID)
	if err != nil {
		return badRequest(ctx, "Invalid contractor ID: "+err.Error())
	}

	cmd, err := commands.NewAcceptOrderCommand(orderID, contractorID)
	if err != nil {
		return badRequest(ctx, "Invalid accept data: "+err.Error())
	}

	if handleErr := s.acceptOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return mapError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// StartTransit handles POST /api/v1/orders/:id/transit - the freight was
// picked up.
func (s *Server) StartTransit(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	cmd, err := commands.NewStartTransitCommand(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if handleErr := s.startTransitHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return mapError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteOrder handles POST /api/v1/orders/:id/complete - the freight was
// delivered.
func (s *Server) CompleteOrder(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	cmd, err := commands.NewCompleteOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if handleErr := s.completeOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return mapError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrderRequest is the body of both cancellation endpoints.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrderByCustomer handles POST /api/v1/orders/:id/cancellations/customer.
func (s *Server) CancelOrderByCustomer(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var req CancelOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCancelOrderByCustomerCommand(orderID, req.Reason)
	if err != nil {
		return badRequest(ctx, "Invalid cancellation data: "+err.Error())
	}

	if handleErr := s.cancelByCustomerHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return mapError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrderByContractor handles POST /api/v1/orders/:id/cancellations/contractor.
// The order returns to the unmatched pool with its re-assignment budget set.
func (s *Server) CancelOrderByContractor(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var req CancelOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCancelOrderByContractorCommand(orderID, req.Reason)
	if err != nil {
		return badRequest(ctx, "Invalid cancellation data: "+err.Error())
	}

	if handleErr := s.cancelByContractorHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return mapError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AdjustContractorPriceRequest is the body of POST /api/v1/orders/:id/contractor-price.
type AdjustContractorPriceRequest struct {
	NewContractorPrice float64 `json:"newContractorPrice"`
}

// AdjustContractorPrice handles POST /api/v1/orders/:id/contractor-price -
// records the re-assignment payout after a contractor cancellation.
func (s *Server) AdjustContractorPrice(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var req AdjustContractorPriceRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewAdjustContractorPriceCommand(orderID, req.NewContractorPrice)
	if err != nil {
		return badRequest(ctx, "Invalid price data: "+err.Error())
	}

	if handleErr := s.adjustContractorPriceHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return mapError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UnmatchedOrderResponse is one row of GET /api/v1/orders/unmatched.
type UnmatchedOrderResponse struct {
	ID              string    `json:"id"`
	PickupAddress   string    `json:"pickupAddress"`
	DeliveryAddress string    `json:"deliveryAddress"`
	PickupFrom      time.Time `json:"pickupFrom"`
	PickupTo        time.Time `json:"pickupTo"`
	DistanceKm      float64   `json:"distanceKm"`
	DurationMinutes int       `json:"durationMinutes"`
	Price           float64   `json:"price"`
	AvailableBudget *float64  `json:"availableBudget,omitempty"`
}

// GetUnmatchedOrders handles GET /api/v1/orders/unmatched - lists the pool
// contractors pick work from.
func (s *Server) GetUnmatchedOrders(ctx echo.Context) error {
	query := queries.NewGetUnmatchedOrdersQuery()

	orders, err := s.getUnmatchedOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}

	response := make([]UnmatchedOrderResponse, len(orders))
	for i, o := range orders {
		response[i] = UnmatchedOrderResponse{
			ID:              o.ID.String(),
			PickupAddress:   o.PickupAddress,
			DeliveryAddress: o.DeliveryAddress,
			PickupFrom:      o.PickupFrom,
			PickupTo:        o.PickupTo,
			DistanceKm:      o.DistanceKm,
			DurationMinutes: o.DurationMinutes,
			Price:           o.Price,
			AvailableBudget: o.AvailableBudget,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// CancellationResponse is the cancellation block of an order read model.
type CancellationResponse struct {
	Status                  string    `json:"status"`
	CancelledBy             string    `json:"cancelledBy"`
	Reason                  string    `json:"reason"`
	Timestamp               time.Time `json:"timestamp"`
	HoursBeforePickup       float64   `json:"hoursBeforePickup"`
	Penalty                 float64   `json:"penalty"`
	AvailableBudget         float64   `json:"availableBudget"`
	AdjustedContractorPrice *float64  `json:"adjustedContractorPrice,omitempty"`
	PlatformProfit          *float64  `json:"platformProfit,omitempty"`
}

// OrderResponse is the full read model returned by GET /api/v1/orders/:id.
type OrderResponse struct {
	ID            string  `json:"id"`
	CustomerID    string  `json:"customerId"`
	CustomerEmail string  `json:"customerEmail"`
	ContractorID  *string `json:"contractorId,omitempty"`

	PickupAddress   string `json:"pickupAddress"`
	DeliveryAddress string `json:"deliveryAddress"`

	DistanceKm      float64 `json:"distanceKm"`
	DurationMinutes int     `json:"durationMinutes"`
	RouteIsFallback bool    `json:"routeIsFallback"`

	Price           float64  `json:"price"`
	ContractorPrice *float64 `json:"contractorPrice,omitempty"`
	ExtraStopFee    float64  `json:"extraStopFee"`
	LoadingHelpFee  float64  `json:"loadingHelpFee"`

	PickupFrom time.Time `json:"pickupFrom"`
	PickupTo   time.Time `json:"pickupTo"`
	Status     string    `json:"status"`

	Cancellation *CancellationResponse `json:"cancellation,omitempty"`
}

// GetOrder handles GET /api/v1/orders/:id - retrieves one order with its
// pricing and cancellation audit fields.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}

	response := OrderResponse{
		ID:              result.ID.String(),
		CustomerID:      result.CustomerID.String(),
		CustomerEmail:   result.CustomerEmail,
		PickupAddress:   result.PickupAddress,
		DeliveryAddress: result.DeliveryAddress,
		DistanceKm:      result.DistanceKm,
		DurationMinutes: result.DurationMinutes,
		RouteIsFallback: result.RouteIsFallback,
		Price:           result.Price,
		ContractorPrice: result.ContractorPrice,
		ExtraStopFee:    result.ExtraStopFee,
		LoadingHelpFee:  result.LoadingHelpFee,
		PickupFrom:      result.PickupFrom,
		PickupTo:        result.PickupTo,
		Status:          result.Status,
	}

	if result.ContractorID != nil {
		id := result.ContractorID.String()
		response.ContractorID = &id
	}

	if c := result.Cancellation; c != nil {
		response.Cancellation = &CancellationResponse{
			Status:                  c.Status,
			CancelledBy:             c.CancelledBy,
			Reason:                  c.Reason,
			Timestamp:               c.Timestamp,
			HoursBeforePickup:       c.HoursBeforePickup,
			Penalty:                 c.Penalty,
			AvailableBudget:         c.AvailableBudget,
			AdjustedContractorPrice: c.AdjustedContractorPrice,
			PlatformProfit:          c.PlatformProfit,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func parseOrderID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}

func toAddress(a AddressRequest) commands.Address {
	return commands.Address{
		Street:     a.Street,
		PostalCode: a.PostalCode,
		City:       a.City,
		Country:    a.Country,
	}
}

func toAddresses(in []AddressRequest) []commands.Address {
	if len(in) == 0 {
		return nil
	}
	out := make([]commands.Address, len(in))
	for i, a := range in {
		out[i] = toAddress(a)
	}
	return out
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// mapError translates domain and application errors to HTTP status codes.
func mapError(ctx echo.Context, err error) error {
	var notFound *errs.ObjectNotFoundError

	switch {
	case errors.As(err, &notFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, commands.ErrPriceBelowMinimum),
		errors.Is(err, geocoding.ErrAddressNotFound):
		return ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	case errors.Is(err, order.ErrNoContractorAssigned),
		errors.Is(err, order.ErrNoAvailableBudget):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})
	}
}
