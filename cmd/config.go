package cmd

// Config carries the raw environment configuration of the service.
// Values are kept as strings and parsed where they are consumed.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	GoogleMapsAPIKey string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUser     string
	SMTPPassword string

	PricePerKm string
	HourlyRate string
	StartFee   string

	GeocodeCacheCapacity string
	GeocodeCacheTTL      string
	GeocodeMinInterval   string

	ExpirationGrace    string
	ExpirationCronSpec string
}
