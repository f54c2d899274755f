package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/adapters/logger"
)

// Instrument names.
const (
	MetricRequests           = "http.server.requests"
	MetricRequestDuration    = "http.server.request.duration"
	MetricActiveRequests     = "http.server.active_requests"
	MetricValidations        = "dag.validations"
	MetricValidationDuration = "dag.validation.duration"
	MetricErrors             = "dag.errors"
)

// MeterConfig configures metric export.
type MeterConfig struct {
	Collector
	// Interval between pushes. Zero keeps the SDK default of one minute.
	Interval time.Duration
}

// DefaultMeterConfig pushes to a local collector every 15 seconds.
func DefaultMeterConfig(serviceName string) *MeterConfig {
	return &MeterConfig{Collector: localCollector(serviceName), Interval: 15 * time.Second}
}

// InitMeter installs a periodic OTLP/HTTP meter provider as the otel global.
// The caller shuts the provider down on exit.
func InitMeter(ctx context.Context, cfg *MeterConfig) (*sdkmetric.MeterProvider, error) {
	res, err := cfg.resource()
	if err != nil {
		return nil, err
	}

	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("observability: metric exporter: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
	)
	otel.SetMeterProvider(mp)

	fields := cfg.fields()
	fields["interval"] = cfg.Interval.String()
	logger.Info("metrics enabled", fields)
	return mp, nil
}

// Meter returns a meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments for HTTP requests and node validations.
type Metrics struct {
	requests           metric.Int64Counter
	requestDuration    metric.Float64Histogram
	activeRequests     metric.Int64UpDownCounter
	validations        metric.Int64Counter
	validationDuration metric.Float64Histogram
	errors             metric.Int64Counter
}

// instruments creates instruments on one meter and keeps the first error.
type instruments struct {
	meter metric.Meter
	err   error
}

func (b *instruments) fail(name string, err error) {
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("observability: instrument %s: %w", name, err)
	}
}

func (b *instruments) counter(name, desc string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc))
	b.fail(name, err)
	return c
}

func (b *instruments) upDown(name, desc string) metric.Int64UpDownCounter {
	c, err := b.meter.Int64UpDownCounter(name, metric.WithDescription(desc))
	b.fail(name, err)
	return c
}

func (b *instruments) seconds(name, desc string) metric.Float64Histogram {
	h, err := b.meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
	b.fail(name, err)
	return h
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	b := &instruments{meter: meter}
	m := &Metrics{
		requests:           b.counter(MetricRequests, "Completed HTTP requests by route and status"),
		requestDuration:    b.seconds(MetricRequestDuration, "HTTP request latency"),
		activeRequests:     b.upDown(MetricActiveRequests, "HTTP requests in flight"),
		validations:        b.counter(MetricValidations, "Node validations by outcome"),
		validationDuration: b.seconds(MetricValidationDuration, "Node validation latency"),
		errors:             b.counter(MetricErrors, "Failed node validations by error type"),
	}
	if b.err != nil {
		return nil, b.err
	}
	return m, nil
}

// RecordRequestStart marks a request in flight.
func (m *Metrics) RecordRequestStart(ctx context.Context) {
	m.activeRequests.Add(ctx, 1)
}

// RecordRequestEnd closes a request opened with RecordRequestStart.
func (m *Metrics) RecordRequestEnd(ctx context.Context, service, route, status string, duration time.Duration) {
	where := attribute.NewSet(
		attribute.String("service", service),
		attribute.String("route", route),
	)
	m.activeRequests.Add(ctx, -1)
	m.requests.Add(ctx, 1, metric.WithAttributeSet(where), metric.WithAttributes(attribute.String("status", status)))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributeSet(where))
}

// RecordValidation records one Validate call of a node. Status is "ok",
// "missing_input" or "error".
func (m *Metrics) RecordValidation(ctx context.Context, node, status string, duration time.Duration) {
	nodeAttr := attribute.String("node", node)
	m.validations.Add(ctx, 1, metric.WithAttributes(nodeAttr, attribute.String("status", status)))
	m.validationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(nodeAttr))
}

// RecordError counts a failure of the given type raised by component.
func (m *Metrics) RecordError(ctx context.Context, errType, component string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("component", component),
	))
}
