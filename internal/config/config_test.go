package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BUSINESS_TIMEZONE", "")
	t.Setenv("BUSINESS_DEFAULT_KM_RATE", "0,5")
	t.Setenv("RATE_LIMIT_ENABLED", "yes")

	cfg := Load()

	assert.Equal(t, DefaultTimezone, cfg.Business.Timezone)
	assert.Equal(t, DefaultRoutePrefix, cfg.Business.RoutePrefix)
	assert.Equal(t, 0.5, cfg.Business.DefaultKmRate)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadObservabilityPrefersOtelVariables(t *testing.T) {
	t.Setenv("DEPLOYMENT_ENV", "production")
	t.Setenv("OTLP_ENDPOINT", "collector:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "HTTP")
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("LOG_LEVEL", " DEBUG ")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Observability.OtelEnabled)
	assert.Equal(t, "otel:4318", cfg.Observability.OTLPEndpoint)
	assert.Equal(t, "http", cfg.Observability.OTLPProtocol)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}

func TestBusinessProfileFallsBackToConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := Config{Business: BusinessConfig{Name: "Studio Rossi", DefaultKmRate: 0.4}}
	holder, err := NewBusinessProfileHolder(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	profile := holder.Get()
	assert.Equal(t, "Studio Rossi", profile.Name)
	assert.Equal(t, 0.4, profile.DefaultKmRate)
}

func TestBusinessProfileRejectsEmptyName(t *testing.T) {
	assert.Error(t, validateBusinessProfile(BusinessProfile{}))
	assert.Error(t, validateBusinessProfile(BusinessProfile{Name: "x", DefaultKmRate: -1}))
	assert.NoError(t, validateBusinessProfile(BusinessProfile{Name: "x"}))
}
