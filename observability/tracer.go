package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/adapters/logger"
)

const instrumentationName = "github.com/kbukum/adapters"

// Span names.
const (
	SpanHTTPRequest = "http.request"
	SpanValidate    = "dag.validate"
)

// Attribute keys.
const (
	AttrServiceName  = "service.name"
	AttrRoute        = "http.route"
	AttrRequestID    = "request.id"
	AttrNode         = "dag.node"
	AttrValidators   = "dag.validators"
	AttrMissing      = "dag.missing_fields"
	AttrDurationMs   = "duration_ms"
	AttrStatus       = "status"
	AttrErrorMessage = "error.message"
)

// TracerConfig configures trace export.
type TracerConfig struct {
	Collector
	// SampleRate is the fraction of root traces kept, 0 to 1. Child spans
	// follow their parent's decision.
	SampleRate float64
}

// DefaultTracerConfig samples everything into a local collector.
func DefaultTracerConfig(serviceName string) *TracerConfig {
	return &TracerConfig{Collector: localCollector(serviceName), SampleRate: 1}
}

// Sampler maps a sample rate to a parent-based sampler.
func Sampler(rate float64) sdktrace.Sampler {
	root := sdktrace.TraceIDRatioBased(rate)
	if rate >= 1 {
		root = sdktrace.AlwaysSample()
	} else if rate <= 0 {
		root = sdktrace.NeverSample()
	}
	return sdktrace.ParentBased(root)
}

// InitTracer installs a batching OTLP/HTTP tracer provider and the W3C
// trace-context and baggage propagators as the otel globals. The caller
// shuts the provider down on exit.
func InitTracer(ctx context.Context, cfg *TracerConfig) (*sdktrace.TracerProvider, error) {
	res, err := cfg.resource()
	if err != nil {
		return nil, err
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("observability: trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(Sampler(cfg.SampleRate)),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	fields := cfg.fields()
	fields["sample_rate"] = cfg.SampleRate
	logger.Info("tracing enabled", fields)
	return tp, nil
}

// Tracer returns a tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// StartSpan starts a span on the module's tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer(instrumentationName).Start(ctx, name, opts...)
}

// SpanFromContext returns the span carried by ctx, or a no-op span.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// SetSpanAttribute sets key on the recording span in ctx. Values of a type
// with no attribute representation are dropped.
func SetSpanAttribute(ctx context.Context, key string, value any) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if kv, ok := toAttribute(key, value); ok {
		span.SetAttributes(kv)
	}
}

func toAttribute(key string, value any) (attribute.KeyValue, bool) {
	k := attribute.Key(key)
	switch v := value.(type) {
	case string:
		return k.String(v), true
	case bool:
		return k.Bool(v), true
	case int:
		return k.Int(v), true
	case int64:
		return k.Int64(v), true
	case float64:
		return k.Float64(v), true
	case []string:
		return k.StringSlice(v), true
	case []int:
		return k.IntSlice(v), true
	case fmt.Stringer:
		return k.String(v.String()), true
	}
	return attribute.KeyValue{}, false
}

// SetSpanError records err on the recording span in ctx and marks the span
// failed. A nil err is ignored.
func SetSpanError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if err == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
