package main

import (
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"

	"freight/cmd"
	"freight/internal/adapters/in/http"
	"freight/internal/adapters/out/postgres/orderrepo"
	"freight/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := mustOpenDB(configs)

	app, err := cmd.NewCompositionRoot(configs, gormDB)
	if err != nil {
		log.Fatalf("Error building composition root: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	jobManager := jobs.NewJobManager(
		app.CreateProcessExpirationsCommandHandler(), app.CronSpec(), logger)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),

		GoogleMapsAPIKey: goDotEnvVariable("GOOGLE_MAPS_API_KEY"),

		SMTPHost:     goDotEnvVariable("SMTP_HOST"),
		SMTPPort:     goDotEnvVariable("SMTP_PORT"),
		SMTPFrom:     goDotEnvVariable("SMTP_FROM"),
		SMTPUser:     goDotEnvVariable("SMTP_USER"),
		SMTPPassword: goDotEnvVariable("SMTP_PASSWORD"),

		PricePerKm: goDotEnvVariable("PRICE_PER_KM"),
		HourlyRate: goDotEnvVariable("HOURLY_RATE"),
		StartFee:   goDotEnvVariable("START_FEE"),

		GeocodeCacheCapacity: goDotEnvVariable("GEOCODE_CACHE_CAPACITY"),
		GeocodeCacheTTL:      goDotEnvVariable("GEOCODE_CACHE_TTL"),
		GeocodeMinInterval:   goDotEnvVariable("GEOCODE_MIN_INTERVAL"),

		ExpirationGrace:    goDotEnvVariable("EXPIRATION_GRACE"),
		ExpirationCronSpec: goDotEnvVariable("EXPIRATION_CRON_SPEC"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustOpenDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	if err := gormDB.AutoMigrate(&orderrepo.OrderDTO{}); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(nethttp.StatusOK, "Healthy")
	})

	server := http.NewServer(http.ServerParams{
		CreateOrderHandler:           app.CreateCreateOrderCommandHandler(),
		AcceptOrderHandler:           app.CreateAcceptOrderCommandHandler(),
		StartTransitHandler:          app.CreateStartTransitCommandHandler(),
		CompleteOrderHandler:         app.CreateCompleteOrderCommandHandler(),
		CancelByCustomerHandler:      app.CreateCancelOrderByCustomerCommandHandler(),
		CancelByContractorHandler:    app.CreateCancelOrderByContractorCommandHandler(),
		AdjustContractorPriceHandler: app.CreateAdjustContractorPriceCommandHandler(),
		GetUnmatchedOrdersHandler:    app.CreateGetUnmatchedOrdersQueryHandler(),
		GetOrderHandler:              app.CreateGetOrderQueryHandler(),
		Resolver:                     app.Resolver(),
		RouteEngine:                  app.RouteEngine(),
		Calculator:                   app.Calculator(),
	})
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
