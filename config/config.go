// Package config loads and validates the bot's YAML configuration. API
// credentials are never stored in the file; they come from the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables overriding / supplying API settings.
const (
	EnvAPIKey      = "GMO_API_KEY"
	EnvAPISecret   = "GMO_API_SECRET"
	EnvAPIEndpoint = "GMO_API_ENDPOINT"
)

// Config is the complete bot configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Trading TradingConfig `yaml:"trading"`
	Risk    RiskConfig    `yaml:"risk_management"`
	Journal JournalConfig `yaml:"journal"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig holds the exchange connection settings. Key and Secret are
// populated from the environment by Load, never from the file.
type APIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Key      string `yaml:"-"`
	Secret   string `yaml:"-"`
}

// TradingConfig holds the symbol, order, and strategy parameters.
type TradingConfig struct {
	Symbol        string              `yaml:"symbol"`
	OrderType     string              `yaml:"order_type"` // MARKET or LIMIT
	Amount        float64             `yaml:"amount"`
	MovingAverage MovingAverageConfig `yaml:"moving_average"`
}

// MovingAverageConfig holds the crossover strategy windows.
type MovingAverageConfig struct {
	ShortPeriod int    `yaml:"short_period"`
	LongPeriod  int    `yaml:"long_period"`
	Timeframe   string `yaml:"timeframe"`
	// FetchExtra is the headroom of candles requested beyond the long window
	// so the previous-window pair has data to shift into.
	FetchExtra int `yaml:"fetch_extra"`
}

// RiskConfig holds the fixed risk limits, amounts in JPY.
type RiskConfig struct {
	StopLoss             float64 `yaml:"stop_loss"`
	TakeProfit           float64 `yaml:"take_profit"`
	MaxPositionSize      float64 `yaml:"max_position_size"`
	MaxReversalCount     int     `yaml:"max_reversal_count"`
	MaxConsecutiveErrors int     `yaml:"max_consecutive_errors"`
}

// JournalConfig selects the trade-history backend.
type JournalConfig struct {
	Type   string `yaml:"type"` // "csv" or "sqlite"
	Dir    string `yaml:"dir"`
	DBPath string `yaml:"db_path,omitempty"`
}

// LoggingConfig configures the zap logger and its rotating file sink. An
// empty Dir disables file output.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Dir        string `yaml:"dir"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Load reads path, applies defaults and environment overrides, and validates
// the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.setDefaults()
	cfg.loadEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Trading.Symbol == "" {
		c.Trading.Symbol = "BTC_JPY"
	}
	if c.Trading.OrderType == "" {
		c.Trading.OrderType = "MARKET"
	}
	if c.Trading.Amount == 0 {
		c.Trading.Amount = 0.001
	}
	if c.Trading.MovingAverage.ShortPeriod == 0 {
		c.Trading.MovingAverage.ShortPeriod = 20
	}
	if c.Trading.MovingAverage.LongPeriod == 0 {
		c.Trading.MovingAverage.LongPeriod = 50
	}
	if c.Trading.MovingAverage.Timeframe == "" {
		c.Trading.MovingAverage.Timeframe = "5min"
	}
	if c.Trading.MovingAverage.FetchExtra == 0 {
		c.Trading.MovingAverage.FetchExtra = 20
	}

	if c.Risk.StopLoss == 0 {
		c.Risk.StopLoss = 10_000
	}
	if c.Risk.TakeProfit == 0 {
		c.Risk.TakeProfit = 20_000
	}
	if c.Risk.MaxPositionSize == 0 {
		c.Risk.MaxPositionSize = 0.01
	}
	if c.Risk.MaxReversalCount == 0 {
		c.Risk.MaxReversalCount = 5
	}
	if c.Risk.MaxConsecutiveErrors == 0 {
		c.Risk.MaxConsecutiveErrors = 3
	}

	if c.Journal.Type == "" {
		c.Journal.Type = "csv"
	}
	if c.Journal.Dir == "" {
		c.Journal.Dir = "data"
	}
	if c.Journal.DBPath == "" {
		c.Journal.DBPath = "data/journal.db"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 5
	}
}

func (c *Config) loadEnv() {
	c.API.Key = os.Getenv(EnvAPIKey)
	c.API.Secret = os.Getenv(EnvAPISecret)
	if ep := os.Getenv(EnvAPIEndpoint); ep != "" {
		c.API.Endpoint = ep
	}
}

// Validate checks everything that does not require credentials, so read-only
// commands can share it. Credential presence is checked by RequireCredentials.
func (c *Config) Validate() error {
	var errs []string

	if c.Trading.Symbol == "" {
		errs = append(errs, "trading.symbol is required")
	}
	if c.Trading.OrderType != "MARKET" && c.Trading.OrderType != "LIMIT" {
		errs = append(errs, fmt.Sprintf("trading.order_type must be MARKET or LIMIT, got %q", c.Trading.OrderType))
	}
	if c.Trading.Amount <= 0 {
		errs = append(errs, "trading.amount must be positive")
	}

	ma := c.Trading.MovingAverage
	if ma.ShortPeriod <= 0 || ma.LongPeriod <= 0 {
		errs = append(errs, "moving_average periods must be positive")
	}
	if ma.ShortPeriod >= ma.LongPeriod {
		errs = append(errs, fmt.Sprintf("moving_average.short_period (%d) must be less than long_period (%d)", ma.ShortPeriod, ma.LongPeriod))
	}
	if ma.FetchExtra < 0 {
		errs = append(errs, "moving_average.fetch_extra cannot be negative")
	}

	if c.Risk.StopLoss < 0 || c.Risk.TakeProfit < 0 {
		errs = append(errs, "risk thresholds cannot be negative")
	}
	if c.Risk.MaxPositionSize <= 0 {
		errs = append(errs, "risk_management.max_position_size must be positive")
	}
	if c.Risk.MaxReversalCount <= 0 {
		errs = append(errs, "risk_management.max_reversal_count must be positive")
	}
	if c.Risk.MaxConsecutiveErrors <= 0 {
		errs = append(errs, "risk_management.max_consecutive_errors must be positive")
	}

	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		errs = append(errs, fmt.Sprintf("journal.type must be csv or sqlite, got %q", c.Journal.Type))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// RequireCredentials fails unless both API key and secret are present.
// Trading commands call this; public read-only commands do not.
func (c *Config) RequireCredentials() error {
	if c.API.Key == "" || c.API.Secret == "" {
		return fmt.Errorf("API credentials not configured: set %s and %s", EnvAPIKey, EnvAPISecret)
	}
	return nil
}

// Default returns the configuration the bot ships with.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
