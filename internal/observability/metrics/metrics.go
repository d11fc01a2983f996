package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes the CRM domain instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	snapshotBuilds   metric.Int64Counter
	snapshotDuration metric.Float64Histogram
	importRecords    metric.Int64Counter
	importRejected   metric.Int64Counter
	quoteEmails      metric.Int64Counter
	rateLimitDenied  metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("shutting down meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)
	return provider, nil
}

// New registers the domain instruments on provider.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "gestionale"
	}
	meter := provider.Meter(name)

	var (
		m   Metrics
		err error
	)
	if m.snapshotBuilds, err = meter.Int64Counter("gestionale_snapshot_builds_total"); err != nil {
		return nil, err
	}
	if m.snapshotDuration, err = meter.Float64Histogram("gestionale_snapshot_build_seconds", metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.importRecords, err = meter.Int64Counter("gestionale_invoice_import_records_total"); err != nil {
		return nil, err
	}
	if m.importRejected, err = meter.Int64Counter("gestionale_invoice_import_rejected_total"); err != nil {
		return nil, err
	}
	if m.quoteEmails, err = meter.Int64Counter("gestionale_quote_status_emails_total"); err != nil {
		return nil, err
	}
	if m.rateLimitDenied, err = meter.Int64Counter("gestionale_rate_limit_denied_total"); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Metrics) RecordSnapshotBuild(ctx context.Context, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.snapshotBuilds.Add(ctx, 1)
	m.snapshotDuration.Record(ctx, elapsed.Seconds())
}

// RecordImportRecord counts a confirmed invoice-import record by resource.
func (m *Metrics) RecordImportRecord(ctx context.Context, resource string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("resource", strings.TrimSpace(resource)))
	m.importRecords.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordImportRejected counts an aborted confirm batch by reason.
func (m *Metrics) RecordImportRejected(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.importRejected.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordQuoteEmail counts quote status email outcomes.
func (m *Metrics) RecordQuoteEmail(ctx context.Context, status, mode, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("quote_status", strings.TrimSpace(status)),
		attribute.String("mode", strings.TrimSpace(mode)),
		attribute.String("outcome", strings.TrimSpace(outcome)),
	)
	m.quoteEmails.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("endpoint", strings.TrimSpace(endpoint)))
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"endpoint":     {},
	"status_code":  {},
	"resource":     {},
	"reason":       {},
	"quote_status": {},
	"mode":         {},
	"outcome":      {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
