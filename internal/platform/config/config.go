package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// Upstream asset/transaction CRUD API (consumed, not implemented here)
	PortfolioAPIURL string

	// Exchange rate provider: GET {RatesAPIURL}/{pivot}
	RatesAPIURL string

	// Quote provider: GET {QuoteAPIURL}?function=GLOBAL_QUOTE&symbol=&apikey=
	QuoteAPIURL string
	QuoteAPIKey string

	// Pivot/base currency all values are normalized to by default
	BaseCurrency string

	// Minimum spacing between consecutive quote-provider calls
	QuoteMinInterval time.Duration

	// Cache TTLs
	QuoteCacheTTL   time.Duration
	RateCacheTTL    time.Duration
	TxnCacheTTL     time.Duration
	ReturnsCacheTTL time.Duration

	// Annual risk-free rate in percent, for the Sharpe proxy
	RiskFreeRatePercent float64

	// Timeout applied to all outbound HTTP calls
	HTTPTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("PORTFOLIO_API_URL", "http://localhost:9000")
	viper.SetDefault("RATES_API_URL", "https://api.exchangerate-api.com/v4/latest")
	viper.SetDefault("QUOTE_API_URL", "https://www.alphavantage.co/query")
	viper.SetDefault("QUOTE_API_KEY", "demo")
	viper.SetDefault("BASE_CURRENCY", "USD")
	viper.SetDefault("QUOTE_MIN_INTERVAL", "12s")
	viper.SetDefault("QUOTE_CACHE_TTL", "5m")
	viper.SetDefault("RATE_CACHE_TTL", "1h")
	viper.SetDefault("TXN_CACHE_TTL", "10m")
	viper.SetDefault("RETURNS_CACHE_TTL", "5m")
	viper.SetDefault("RISK_FREE_RATE", 2.0)
	viper.SetDefault("HTTP_TIMEOUT", "10s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.PortfolioAPIURL = viper.GetString("PORTFOLIO_API_URL")
	cfg.RatesAPIURL = viper.GetString("RATES_API_URL")
	cfg.QuoteAPIURL = viper.GetString("QUOTE_API_URL")
	cfg.BaseCurrency = viper.GetString("BASE_CURRENCY")
	cfg.RiskFreeRatePercent = viper.GetFloat64("RISK_FREE_RATE")

	cfg.QuoteAPIKey = viper.GetString("QUOTE_API_KEY")
	if cfg.QuoteAPIKey == "demo" {
		log.Println("Warning: QUOTE_API_KEY not set. Using the provider's demo key; expect rate-limit notes.")
	}

	cfg.QuoteMinInterval = parseDurationOr("QUOTE_MIN_INTERVAL", 12*time.Second)
	cfg.QuoteCacheTTL = parseDurationOr("QUOTE_CACHE_TTL", 5*time.Minute)
	cfg.RateCacheTTL = parseDurationOr("RATE_CACHE_TTL", time.Hour)
	cfg.TxnCacheTTL = parseDurationOr("TXN_CACHE_TTL", 10*time.Minute)
	cfg.ReturnsCacheTTL = parseDurationOr("RETURNS_CACHE_TTL", 5*time.Minute)
	cfg.HTTPTimeout = parseDurationOr("HTTP_TIMEOUT", 10*time.Second)

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
