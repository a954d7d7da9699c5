package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"labquote/go_backend/internal/domain/i18n"
	"labquote/go_backend/internal/domain/quote"
)

type Config struct {
	HTTPAddr          string        `envconfig:"HTTP_ADDR" default:":8080"`
	ReadHeaderTimeout time.Duration `envconfig:"HTTP_READ_HEADER_TIMEOUT" default:"10s"`
	ShutdownTimeout   time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	DatabaseURL       string        `envconfig:"DATABASE_URL"`
	InternalToken     string        `envconfig:"INTERNAL_TOKEN" required:"true"`
	CORSAllowOrigin   string        `envconfig:"CORS_ALLOW_ORIGIN" default:"*"`
	QuoteRateLimit    int           `envconfig:"QUOTE_RATE_LIMIT" default:"30"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	LabName         string `envconfig:"LAB_NAME" default:"Clinical Research Laboratory"`
	Currency        string `envconfig:"QUOTE_CURRENCY" default:"INR"`
	GSTPercent      string `envconfig:"QUOTE_GST_PERCENT" default:"18"`
	ValidityDays    int    `envconfig:"QUOTE_VALIDITY_DAYS" default:"30"`
	FallbackNumber  string `envconfig:"QUOTE_FALLBACK_NUMBER" default:"QT-0001"`
	GenerateNumbers bool   `envconfig:"QUOTE_GENERATE_NUMBERS" default:"false"`
	FontDir         string `envconfig:"QUOTE_FONT_DIR"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if cfg.InternalToken == "" {
		return Config{}, errors.New("config: INTERNAL_TOKEN must be provided")
	}
	if _, err := cfg.GST(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.CurrencyUnit(); err != nil {
		return Config{}, err
	}
	if cfg.ValidityDays <= 0 {
		return Config{}, fmt.Errorf("config: QUOTE_VALIDITY_DAYS must be positive, got %d", cfg.ValidityDays)
	}
	return cfg, nil
}

func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config: load failed")
	}
	return cfg
}

func (c Config) GST() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.GSTPercent)
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: QUOTE_GST_PERCENT: %w", err)
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, fmt.Errorf("config: QUOTE_GST_PERCENT must be between 0 and 100, got %s", c.GSTPercent)
	}
	return d, nil
}

func (c Config) CurrencyUnit() (currency.Unit, error) {
	u, err := i18n.ParseCurrency(c.Currency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("config: QUOTE_CURRENCY: %w", err)
	}
	return u, nil
}

// QuoteDefaults returns the builder fallbacks with the configured overrides applied.
func (c Config) QuoteDefaults() quote.Defaults {
	d := quote.StandardDefaults()
	if gst, err := c.GST(); err == nil {
		d.GSTPercent = gst
	}
	if c.ValidityDays > 0 {
		d.ValidityDays = c.ValidityDays
	}
	if c.FallbackNumber != "" {
		d.Number = c.FallbackNumber
	}
	if c.GenerateNumbers {
		d.NewNumber = func() string {
			return "QT-" + strings.ToUpper(uuid.NewString()[:8])
		}
	}
	return d
}
