package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Market   Market   `mapstructure:"market"`
	Ranker   Ranker   `mapstructure:"ranker"`
	Logger   Logger   `mapstructure:"logger"`
	Database Database `mapstructure:"database"`
}

// Market holds the configuration for the external price API client.
type Market struct {
	BaseURL        string  `mapstructure:"base_url"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	TimeoutSecs    int     `mapstructure:"timeout_seconds"`
	CatalogTTLMins int     `mapstructure:"catalog_ttl_minutes"`
	SearchLimit    int     `mapstructure:"search_limit"`
}

// Timeout returns the per-request timeout for outbound market API calls.
func (m Market) Timeout() time.Duration {
	return time.Duration(m.TimeoutSecs) * time.Second
}

// CatalogTTL returns how long the bulk catalog cache stays fresh.
func (m Market) CatalogTTL() time.Duration {
	return time.Duration(m.CatalogTTLMins) * time.Minute
}

// Ranker holds the configuration for the external reasoning service used to
// rank personalized recommendations.
type Ranker struct {
	Enabled     bool   `mapstructure:"enabled"`
	ApiKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_seconds"`
}

// Timeout returns the timeout applied to a single ranking call.
func (r Ranker) Timeout() time.Duration {
	return time.Duration(r.TimeoutSecs) * time.Second
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("market.base_url", "https://prices.runescape.wiki/api/v1/osrs")
	viper.SetDefault("market.rate_limit", 10) // requests per second
	viper.SetDefault("market.rate_limit_burst", 5)
	viper.SetDefault("market.timeout_seconds", 10)
	viper.SetDefault("market.catalog_ttl_minutes", 30)
	viper.SetDefault("market.search_limit", 10)
	viper.SetDefault("ranker.model", "gpt-4o-mini")
	viper.SetDefault("ranker.timeout_seconds", 20)
	viper.SetDefault("database.dsn", "flips.db")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
