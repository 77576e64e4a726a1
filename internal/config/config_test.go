package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("STORE_STATE", "")
	t.Setenv("TAX_RATE", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "Madhya Pradesh", cfg.Tax.StoreState)
	assert.True(t, cfg.Tax.Rate.Equal(decimal.RequireFromString("0.18")))
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "INR", cfg.Currency)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STORE_STATE", "Karnataka")
	t.Setenv("TAX_RATE", "0.12")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SHIPPING_FEE", "49.50")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")

	cfg := FromEnv()
	assert.Equal(t, "Karnataka", cfg.Tax.StoreState)
	assert.True(t, cfg.Tax.Rate.Equal(decimal.RequireFromString("0.12")))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.ShippingFee.Equal(decimal.RequireFromString("49.5")))
	assert.Equal(t, "3s", cfg.ShutdownTimeout.String())
}

func TestValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("LOG_LEVEL", "info")
	cfg := FromEnv()
	require.NoError(t, cfg.Validate())

	cfg.JWTSecret = ""
	assert.EqualError(t, cfg.Validate(), "JWT_SECRET required")

	cfg.JWTSecret = "secret"
	cfg.LogLevel = "verbose"
	assert.Error(t, cfg.Validate())

	cfg.LogLevel = "debug"
	cfg.Tax.Rate = decimal.NewFromInt(2)
	assert.Error(t, cfg.Validate())
}

func TestCheckoutValidate(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("LOG_LEVEL", "")
	cfg := CheckoutFromEnv()
	require.NoError(t, cfg.Validate())

	cfg.APIBaseURL = " "
	assert.EqualError(t, cfg.Validate(), "API_BASE_URL required")
}
