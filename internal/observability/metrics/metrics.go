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

// Metrics exposes application-level instruments.
type Metrics struct {
	usageChecks   metric.Int64Counter
	eventsTracked metric.Int64Counter
	queueAdds     metric.Int64Counter
	digestRuns    metric.Int64Counter
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

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "neurostream"
	}
	meter := provider.Meter(name)

	usageChecks, err := meter.Int64Counter("neurostream_usage_checks_total")
	if err != nil {
		return nil, err
	}
	eventsTracked, err := meter.Int64Counter("neurostream_events_tracked_total")
	if err != nil {
		return nil, err
	}
	queueAdds, err := meter.Int64Counter("neurostream_queue_adds_total")
	if err != nil {
		return nil, err
	}
	digestRuns, err := meter.Int64Counter("neurostream_digest_runs_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		usageChecks:   usageChecks,
		eventsTracked: eventsTracked,
		queueAdds:     queueAdds,
		digestRuns:    digestRuns,
	}, nil
}

// RecordUsageCheck counts a quota decision for a feature.
func (m *Metrics) RecordUsageCheck(ctx context.Context, feature string, allowed bool) {
	if m == nil || m.usageChecks == nil {
		return
	}
	m.usageChecks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("feature", feature),
		attribute.Bool("allowed", allowed),
	))
}

// RecordEventTracked counts an appended behavior or mood event.
func (m *Metrics) RecordEventTracked(ctx context.Context, kind string) {
	if m == nil || m.eventsTracked == nil {
		return
	}
	m.eventsTracked.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordQueueAdd counts a queue insertion attempt.
func (m *Metrics) RecordQueueAdd(ctx context.Context, added bool) {
	if m == nil || m.queueAdds == nil {
		return
	}
	m.queueAdds.Add(ctx, 1, metric.WithAttributes(attribute.Bool("added", added)))
}

// RecordDigestRun counts a scheduler digest execution.
func (m *Metrics) RecordDigestRun(ctx context.Context, job string) {
	if m == nil || m.digestRuns == nil {
		return
	}
	m.digestRuns.Add(ctx, 1, metric.WithAttributes(attribute.String("job", job)))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp metrics protocol %q", protocol)
	}
}
