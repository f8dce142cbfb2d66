package cmd

import (
	"fmt"
	"strconv"
	"time"

	"freight/internal/adapters/out/email"
	"freight/internal/adapters/out/googlemaps"
	"freight/internal/adapters/out/postgres"
	"freight/internal/core/application/geocoding"
	"freight/internal/core/application/routing"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
	"freight/internal/pkg/retry"

	"gorm.io/gorm"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	defaultGeocodeCacheCapacity = 1000
	defaultGeocodeCacheTTL      = 24 * time.Hour
	defaultGeocodeMinInterval   = time.Second
	defaultExpirationGrace      = 48 * time.Hour
	defaultExpirationCronSpec   = "0 */5 * * * *"

	providerRetryAttempts = 3
	providerRetryDelay    = 500 * time.Millisecond
)

// CompositionRoot wires adapters, domain services, and application handlers
// from the configuration. All use case handlers are created through it.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	resolver    *geocoding.Resolver
	routeEngine *routing.Engine
	calculator  services.PriceCalculator
	policy      services.CancellationPolicy
	emailSender ports.EmailSender

	gracePeriod time.Duration
	cronSpec    string
}

// NewCompositionRoot builds the object graph. Provider adapters are
// constructed here so that a misconfigured API key or SMTP relay fails the
// boot instead of the first request.
func NewCompositionRoot(config Config, gormDB *gorm.DB) (*CompositionRoot, error) {
	calculator, err := buildCalculator(config)
	if err != nil {
		return nil, fmt.Errorf("price calculator: %w", err)
	}

	retryPolicy, err := retry.NewPolicy(providerRetryAttempts, providerRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("retry policy: %w", err)
	}

	geocoder, err := googlemaps.NewGeocoder(config.GoogleMapsAPIKey)
	if err != nil {
		return nil, fmt.Errorf("geocoder: %w", err)
	}

	resolver, err := geocoding.NewResolver(
		geocoder,
		parseIntOr(config.GeocodeCacheCapacity, defaultGeocodeCacheCapacity),
		parseDurationOr(config.GeocodeCacheTTL, defaultGeocodeCacheTTL),
		retryPolicy,
		parseDurationOr(config.GeocodeMinInterval, defaultGeocodeMinInterval),
	)
	if err != nil {
		return nil, fmt.Errorf("geocoding resolver: %w", err)
	}

	router, err := googlemaps.NewRouter(config.GoogleMapsAPIKey)
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	routeEngine, err := routing.NewEngine(router, retryPolicy)
	if err != nil {
		return nil, fmt.Errorf("route engine: %w", err)
	}

	smtpPort, err := strconv.Atoi(config.SMTPPort)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP port %q: %w", config.SMTPPort, err)
	}

	sender, err := email.NewSMTPSender(
		config.SMTPHost, smtpPort, config.SMTPFrom, config.SMTPUser, config.SMTPPassword)
	if err != nil {
		return nil, fmt.Errorf("smtp sender: %w", err)
	}

	return &CompositionRoot{
		gormDB:      gormDB,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB),
		resolver:    resolver,
		routeEngine: routeEngine,
		calculator:  calculator,
		policy:      services.DefaultCancellationPolicy(),
		emailSender: sender,
		gracePeriod: parseDurationOr(config.ExpirationGrace, defaultExpirationGrace),
		cronSpec:    orDefault(config.ExpirationCronSpec, defaultExpirationCronSpec),
	}, nil
}

// Resolver returns the shared geocoding resolver.
func (c *CompositionRoot) Resolver() *geocoding.Resolver {
	return c.resolver
}

// RouteEngine returns the shared route engine.
func (c *CompositionRoot) RouteEngine() *routing.Engine {
	return c.routeEngine
}

// Calculator returns the configured price calculator.
func (c *CompositionRoot) Calculator() services.PriceCalculator {
	return c.calculator
}

// CronSpec returns the expiration monitor schedule.
func (c *CompositionRoot) CronSpec() string {
	return c.cronSpec
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.orderUoWFactory(), c.resolver, c.routeEngine, c.calculator)
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.orderUoWFactory(), c.calculator)
}

func (c *CompositionRoot) CreateStartTransitCommandHandler() commands.StartTransitCommandHandler {
	return commands.NewStartTransitCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	return commands.NewCompleteOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCancelOrderByContractorCommandHandler() commands.CancelOrderByContractorCommandHandler {
	return commands.NewCancelOrderByContractorCommandHandler(c.orderUoWFactory(), c.policy)
}

func (c *CompositionRoot) CreateCancelOrderByCustomerCommandHandler() commands.CancelOrderByCustomerCommandHandler {
	return commands.NewCancelOrderByCustomerCommandHandler(c.orderUoWFactory(), c.policy)
}

func (c *CompositionRoot) CreateAdjustContractorPriceCommandHandler() commands.AdjustContractorPriceCommandHandler {
	return commands.NewAdjustContractorPriceCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateProcessExpirationsCommandHandler() commands.ProcessExpirationsCommandHandler {
	return commands.NewProcessExpirationsCommandHandler(
		c.orderUoWFactory(), c.emailSender, c.gracePeriod)
}

func (c *CompositionRoot) CreateGetUnmatchedOrdersQueryHandler() queries.GetUnmatchedOrdersQueryHandler {
	return queries.NewGetUnmatchedOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

// FuncOrderUoWFactory adapts a closure to the OrderUoWFactory interface.
type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

func buildCalculator(config Config) (services.PriceCalculator, error) {
	if config.PricePerKm == "" && config.HourlyRate == "" && config.StartFee == "" {
		return services.DefaultPriceCalculator(), nil
	}

	perKm, err := parseFloat("PRICE_PER_KM", config.PricePerKm, 0.50)
	if err != nil {
		return services.PriceCalculator{}, err
	}
	hourlyRate, err := parseFloat("HOURLY_RATE", config.HourlyRate, 22.50)
	if err != nil {
		return services.PriceCalculator{}, err
	}
	startFee, err := parseFloat("START_FEE", config.StartFee, 0)
	if err != nil {
		return services.PriceCalculator{}, err
	}

	return services.NewPriceCalculator(perKm, hourlyRate, startFee)
}

func parseFloat(name string, value string, fallback float64) (float64, error) {
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	return parsed, nil
}

func parseIntOr(value string, fallback int) int {
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	return fallback
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	return fallback
}

func orDefault(value string, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
