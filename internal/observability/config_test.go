package observability

import (
	"testing"

	"github.com/smallbiznis/gestionale/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigResolvesDefaults(t *testing.T) {
	cfg := LoadConfig(config.Config{
		Environment: "production",
		AppVersion:  " 1.2.0 ",
		Observability: config.ObservabilityConfig{
			LogLevel:      "info",
			OtelEnabled:   true,
			OTLPProtocol:  "http",
			SamplingRatio: 4,
		},
	})

	assert.Equal(t, "gestionale", cfg.ServiceName)
	assert.Equal(t, "1.2.0", cfg.Version)
	assert.Equal(t, 1.0, cfg.OtelSamplingRatio)
	assert.False(t, cfg.Debug())
	assert.Equal(t, "http", cfg.tracingConfig().ExporterProtocol)
	assert.True(t, cfg.metricsConfig().Enabled)
}

func TestDebugFollowsLevelAndEnvironment(t *testing.T) {
	assert.True(t, Config{LogLevel: "debug", Environment: "production"}.Debug())
	assert.True(t, Config{Environment: "Local"}.Debug())
	assert.False(t, Config{Environment: "staging"}.Debug())
}
