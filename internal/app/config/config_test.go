package config

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("INTERNAL_TOKEN", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ReadHeaderTimeout)
	assert.Equal(t, "secret", cfg.InternalToken)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 30, cfg.ValidityDays)

	unit, err := cfg.CurrencyUnit()
	require.NoError(t, err)
	assert.Equal(t, currency.INR, unit)

	d := cfg.QuoteDefaults()
	assert.True(t, decimal.NewFromInt(18).Equal(d.GSTPercent))
	assert.Equal(t, "QT-0001", d.Number)
	assert.Nil(t, d.NewNumber)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("INTERNAL_TOKEN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadQuoteSettings(t *testing.T) {
	for name, env := range map[string][2]string{
		"gst not a number":    {"QUOTE_GST_PERCENT", "eighteen"},
		"gst above hundred":   {"QUOTE_GST_PERCENT", "101"},
		"unknown currency":    {"QUOTE_CURRENCY", "RUPEES"},
		"non-positive expiry": {"QUOTE_VALIDITY_DAYS", "0"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv("INTERNAL_TOKEN", "secret")
			t.Setenv(env[0], env[1])

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestQuoteDefaultsOverrides(t *testing.T) {
	t.Setenv("INTERNAL_TOKEN", "secret")
	t.Setenv("QUOTE_GST_PERCENT", "12.5")
	t.Setenv("QUOTE_VALIDITY_DAYS", "45")
	t.Setenv("QUOTE_GENERATE_NUMBERS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	d := cfg.QuoteDefaults()
	assert.True(t, decimal.RequireFromString("12.5").Equal(d.GSTPercent))
	assert.Equal(t, 45, d.ValidityDays)
	require.NotNil(t, d.NewNumber)

	a, b := d.NewNumber(), d.NewNumber()
	assert.True(t, strings.HasPrefix(a, "QT-"))
	assert.Len(t, a, 11)
	assert.NotEqual(t, a, b)
}
