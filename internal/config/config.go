package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the bronze ingestion run.
type Config struct {
	// API keys and SEC identity
	AlphaVantageAPIKey  string `mapstructure:"alphavantage_api_key"`
	FredAPIKey          string `mapstructure:"fred_api_key"`
	SecEdgarCompanyName string `mapstructure:"sec_edgar_name"`
	SecEdgarEmail       string `mapstructure:"sec_edgar_email"`

	// Base URLs for API endpoints (configurable for testing)
	AlphaVantageBaseURL        string `mapstructure:"alphavantage_base_url"`
	FredBaseURL                string `mapstructure:"fred_base_url"`
	SecEdgarSubmissionsBaseURL string `mapstructure:"sec_edgar_submissions_base_url"`
	SecEdgarArchivesBaseURL    string `mapstructure:"sec_edgar_archives_base_url"`

	// Logging
	LoggingConfigPath string `mapstructure:"logging_config_path"`

	// Items to fetch
	StockSymbols []string `mapstructure:"stock_symbols"`
	FredSeries   []string `mapstructure:"fred_series"`

	// Optional FRED request modifiers, omitted from requests when empty
	FredObservationStart string `mapstructure:"fred_observation_start"`
	FredObservationEnd   string `mapstructure:"fred_observation_end"`
	FredFrequency        string `mapstructure:"fred_frequency"`

	// Filings
	FilingTickers    []string          `mapstructure:"filing_tickers"`
	FilingTypes      map[string]string `mapstructure:"filing_types"`
	FilingsPerTicker int               `mapstructure:"filings_per_ticker"`
	FilingsDir       string            `mapstructure:"filings_dir"`
}

// DefaultFilingTypes maps descriptive filing names to SEC form codes.
func DefaultFilingTypes() map[string]string {
	return map[string]string{
		"10-K":                       "10-K",
		"10-Q":                       "10-Q",
		"8-K":                        "8-K",
		"Form 4 (Insider Trading)":   "4",
		"Proxy Statements (DEF 14A)": "DEF 14A",
	}
}

// Load reads configuration from environment variables and an optional config
// file. A .env file in the working directory is loaded first; real
// environment variables take precedence over it and over config file values.
//
// Expected environment variables:
//   - ALPHAVANTAGE_API_KEY
//   - FRED_API_KEY
//   - SEC_EDGAR_NAME
//   - SEC_EDGAR_EMAIL
//   - LOGGING_CONFIG_PATH (optional)
//   - ALPHAVANTAGE_BASE_URL (optional, defaults to production)
//   - FRED_BASE_URL (optional, defaults to production)
//   - SEC_EDGAR_SUBMISSIONS_BASE_URL (optional, defaults to production)
//   - SEC_EDGAR_ARCHIVES_BASE_URL (optional, defaults to production)
func Load() (*Config, error) {
	// Missing .env is fine; the environment itself may carry everything.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	// Set defaults for base URLs and filings behavior
	v.SetDefault("alphavantage_base_url", "https://www.alphavantage.co/query")
	v.SetDefault("fred_base_url", "https://api.stlouisfed.org/fred/series/observations")
	v.SetDefault("sec_edgar_submissions_base_url", "https://data.sec.gov")
	v.SetDefault("sec_edgar_archives_base_url", "https://www.sec.gov")
	v.SetDefault("filing_tickers", []string{"AAPL", "MSFT", "GOOG", "AMZN", "FB"})
	v.SetDefault("filings_per_ticker", 5)
	v.SetDefault("filings_dir", "sec-filings")
	v.SetDefault("filing_types", DefaultFilingTypes())

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.bronzeingest")
	_ = v.ReadInConfig()

	// Bind environment variables for credentials
	v.BindEnv("alphavantage_api_key", "ALPHAVANTAGE_API_KEY")
	v.BindEnv("fred_api_key", "FRED_API_KEY")
	v.BindEnv("sec_edgar_name", "SEC_EDGAR_NAME")
	v.BindEnv("sec_edgar_email", "SEC_EDGAR_EMAIL")

	// Bind environment variables for base URLs and logging
	v.BindEnv("alphavantage_base_url", "ALPHAVANTAGE_BASE_URL")
	v.BindEnv("fred_base_url", "FRED_BASE_URL")
	v.BindEnv("sec_edgar_submissions_base_url", "SEC_EDGAR_SUBMISSIONS_BASE_URL")
	v.BindEnv("sec_edgar_archives_base_url", "SEC_EDGAR_ARCHIVES_BASE_URL")
	v.BindEnv("logging_config_path", "LOGGING_CONFIG_PATH")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	var missing []string
	if config.AlphaVantageAPIKey == "" {
		missing = append(missing, "ALPHAVANTAGE_API_KEY")
	}
	if config.FredAPIKey == "" {
		missing = append(missing, "FRED_API_KEY")
	}
	if config.SecEdgarCompanyName == "" {
		missing = append(missing, "SEC_EDGAR_NAME")
	}
	if config.SecEdgarEmail == "" {
		missing = append(missing, "SEC_EDGAR_EMAIL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return config, nil
}
