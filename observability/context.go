package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RequestContext follows one HTTP request from Start to End: its server
// span and, when Metrics is set, the request instruments.
type RequestContext struct {
	ServiceName string
	Route       string
	RequestID   string
	StartTime   time.Time
	Metrics     *Metrics

	ctx  context.Context
	span trace.Span
}

// NewRequestContext describes a request. A nil metrics records spans only.
func NewRequestContext(serviceName, route, requestID string, metrics *Metrics) *RequestContext {
	return &RequestContext{
		ServiceName: serviceName,
		Route:       route,
		RequestID:   requestID,
		StartTime:   time.Now(),
		Metrics:     metrics,
		ctx:         context.Background(),
		span:        trace.SpanFromContext(context.Background()),
	}
}

type requestContextKey struct{}

// Start opens the server span and returns ctx carrying both the span and
// rc, so handlers can reach rc through RequestContextFromContext.
func (rc *RequestContext) Start(ctx context.Context, spanName string) context.Context {
	ctx, rc.span = StartSpan(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String(AttrServiceName, rc.ServiceName),
			attribute.String(AttrRoute, rc.Route),
			attribute.String(AttrRequestID, rc.RequestID),
		),
	)
	rc.ctx = context.WithValue(ctx, requestContextKey{}, rc)
	if rc.Metrics != nil {
		rc.Metrics.RecordRequestStart(rc.ctx)
	}
	return rc.ctx
}

// Span returns the request span, a no-op span before Start.
func (rc *RequestContext) Span() trace.Span {
	return rc.span
}

// End closes the span with the response status and err, if any, and
// records the request metrics.
func (rc *RequestContext) End(status string, err error) {
	elapsed := rc.Duration()
	if err != nil {
		rc.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
		SetSpanError(rc.ctx, err)
	}
	rc.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, elapsed.Milliseconds()),
	)
	rc.span.End()

	if rc.Metrics != nil {
		rc.Metrics.RecordRequestEnd(rc.ctx, rc.ServiceName, rc.Route, status, elapsed)
	}
}

// Duration is the time since the request started.
func (rc *RequestContext) Duration() time.Duration {
	return time.Since(rc.StartTime)
}

// RequestContextFromContext returns the RequestContext started on ctx, or nil.
func RequestContextFromContext(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(requestContextKey{}).(*RequestContext)
	return rc
}
