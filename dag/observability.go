package dag

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/adapters/errors"
	"github.com/kbukum/adapters/logger"
	"github.com/kbukum/adapters/observability"
)

// hooks instruments Validate without changing its result.
type hooks struct {
	log        *logger.Logger
	spanPrefix string
	tracing    bool
	metrics    *observability.Metrics
}

func (h hooks) enabled() bool {
	return h.log != nil || h.tracing || h.metrics != nil
}

// WithLogger logs every validation: failures at warn level, successes at debug.
func WithLogger(log *logger.Logger) Option {
	return func(n *ValidatorNode) { n.hooks.log = log }
}

// WithTracing wraps every validation in an OpenTelemetry span named
// "{prefix}.{nodeName}".
func WithTracing(prefix string) Option {
	return func(n *ValidatorNode) {
		n.hooks.tracing = true
		n.hooks.spanPrefix = prefix
	}
}

// WithMetrics records validation count, duration and errors.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(n *ValidatorNode) { n.hooks.metrics = metrics }
}

func (h hooks) around(ctx context.Context, n *ValidatorNode, run func(context.Context) (Record, error)) (Record, error) {
	if h.tracing {
		var span trace.Span
		ctx, span = observability.StartSpan(ctx, h.spanPrefix+"."+n.Name())
		defer span.End()
		observability.SetSpanAttribute(ctx, observability.AttrNode, n.Name())
		observability.SetSpanAttribute(ctx, observability.AttrValidators, len(n.validators))
	}

	start := time.Now()
	out, err := run(ctx)
	duration := time.Since(start)

	status := statusOf(err)
	if err != nil && h.tracing {
		observability.SetSpanError(ctx, err)
	}
	if h.metrics != nil {
		if err != nil {
			h.metrics.RecordError(ctx, status, n.Name())
		}
		h.metrics.RecordValidation(ctx, n.Name(), status, duration)
	}
	if h.log != nil {
		fields := map[string]interface{}{
			logger.FieldNode:     n.Name(),
			logger.FieldStatus:   status,
			logger.FieldDuration: duration.Milliseconds(),
		}
		if err != nil {
			if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code == apperrors.ErrCodeMissingInput {
				fields[logger.FieldMissing] = appErr.Details["fields"]
			}
			h.log.WithContext(ctx).Warn("node validation failed", logger.MergeWithError(fields, err))
		} else {
			h.log.WithContext(ctx).Debug("node validated", fields)
		}
	}
	return out, err
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case apperrors.IsMissingInput(err):
		return "missing_input"
	default:
		return "error"
	}
}
