package observability

import (
	"github.com/smallbiznis/gestionale/internal/observability/logger"
	"github.com/smallbiznis/gestionale/internal/observability/metrics"
	"github.com/smallbiznis/gestionale/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

// Module wires the logger, the tracer provider and the metric instruments
// used by the CRM services and the HTTP layer.
var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		Config.loggerConfig,
		Config.tracingConfig,
		Config.metricsConfig,
		logger.New,
		tracing.NewProvider,
		metrics.NewProvider,
		metrics.New,
		metrics.NewHTTPMetrics,
	),
	// The tracer provider registers itself globally on construction.
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)
