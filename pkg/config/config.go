// Package config provides configuration management for shopify-wave-sync.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDummyAccountName is used when WAVE_DUMMY_ACCOUNT_NAME is unset.
const DefaultDummyAccountName = "Cash on Hand"

// AmountSource selects what amount is posted on each line item.
type AmountSource string

const (
	// AmountSourceZero posts a zero-amount placeholder transaction per product.
	AmountSourceZero AmountSource = "zero"
	// AmountSourceCost posts the product's extracted cost.
	AmountSourceCost AmountSource = "cost"
)

// Config represents the application configuration.
type Config struct {
	Shopify ShopifyConfig
	Wave    WaveConfig
	Sync    SyncConfig
	Debug   bool
}

// ShopifyConfig represents storefront API configuration.
type ShopifyConfig struct {
	ShopName    string
	APIKey      string
	Password    string
	AccessToken string
	APIVersion  string
	BaseURL     string
}

// UsesBasicAuth reports whether the key+password pair is configured.
// The pair takes precedence over an access token.
func (s ShopifyConfig) UsesBasicAuth() bool {
	return s.APIKey != "" && s.Password != ""
}

// WaveConfig represents accounting API configuration.
type WaveConfig struct {
	AccessToken       string
	APIURL            string
	BusinessName      string
	DebitAccountName  string
	CreditAccountName string
	DummyAccountName  string
	AmountSource      AmountSource
}

// SyncConfig represents run-level settings.
type SyncConfig struct {
	HistoryDBPath string
	HTTPTimeout   time.Duration
}

// ConfigurationError reports required settings that are absent.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s\nPlease check your .env file or environment variables",
		strings.Join(e.Missing, ", "))
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path, which must exist.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	timeout, err := parseDurationEnv("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	amountSource := AmountSource(getEnvOrDefault("WAVE_AMOUNT_SOURCE", string(AmountSourceZero)))
	if amountSource != AmountSourceZero && amountSource != AmountSourceCost {
		return nil, fmt.Errorf("invalid WAVE_AMOUNT_SOURCE: %q (expected %q or %q)",
			amountSource, AmountSourceZero, AmountSourceCost)
	}

	shopName := os.Getenv("SHOPIFY_SHOP_NAME")

	config := &Config{
		Shopify: ShopifyConfig{
			ShopName:    shopName,
			APIKey:      os.Getenv("SHOPIFY_API_KEY"),
			Password:    os.Getenv("SHOPIFY_PASSWORD"),
			AccessToken: os.Getenv("SHOPIFY_ACCESS_TOKEN"),
			APIVersion:  getEnvOrDefault("SHOPIFY_API_VERSION", "2022-04"),
			BaseURL:     os.Getenv("SHOPIFY_BASE_URL"),
		},
		Wave: WaveConfig{
			AccessToken:       os.Getenv("WAVE_ACCESS_TOKEN"),
			APIURL:            getEnvOrDefault("WAVE_API_URL", "https://gql.waveapps.com/graphql/public"),
			BusinessName:      os.Getenv("WAVE_BUSINESS_NAME"),
			DebitAccountName:  os.Getenv("WAVE_DEBIT_ACCOUNT_NAME"),
			CreditAccountName: os.Getenv("WAVE_CREDIT_ACCOUNT_NAME"),
			DummyAccountName:  getEnvOrDefault("WAVE_DUMMY_ACCOUNT_NAME", DefaultDummyAccountName),
			AmountSource:      amountSource,
		},
		Sync: SyncConfig{
			HistoryDBPath: os.Getenv("SYNC_DB_PATH"),
			HTTPTimeout:   timeout,
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	if config.Shopify.BaseURL == "" && shopName != "" {
		config.Shopify.BaseURL = fmt.Sprintf("https://%s.myshopify.com", shopName)
	}

	return config, nil
}

// Validate checks that every required setting is present.
// Missing settings are reported in a fixed order so operators see the same
// message on every run.
func (c *Config) Validate() error {
	var missing []string

	required := []struct {
		name  string
		value string
	}{
		{"SHOPIFY_SHOP_NAME", c.Shopify.ShopName},
		{"WAVE_ACCESS_TOKEN", c.Wave.AccessToken},
		{"WAVE_BUSINESS_NAME", c.Wave.BusinessName},
		{"WAVE_DEBIT_ACCOUNT_NAME", c.Wave.DebitAccountName},
		{"WAVE_CREDIT_ACCOUNT_NAME", c.Wave.CreditAccountName},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}

	if !c.Shopify.UsesBasicAuth() && c.Shopify.AccessToken == "" {
		missing = append(missing, "SHOPIFY_ACCESS_TOKEN (or SHOPIFY_API_KEY + SHOPIFY_PASSWORD)")
	}

	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}

	return nil
}

// ValidateWave checks only the accounting settings needed to query businesses.
func (c *Config) ValidateWave() error {
	if c.Wave.AccessToken == "" {
		return &ConfigurationError{Missing: []string{"WAVE_ACCESS_TOKEN"}}
	}
	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDurationEnv parses a time.Duration from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value for %s: %s", key, value)
	}

	return parsed, nil
}
