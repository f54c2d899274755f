// Package observability provides OpenTelemetry tracing and metrics for node
// validations and the HTTP API.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("adapters"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanValidate)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("adapters"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("adapters"))
//	metrics.RecordValidation(ctx, "users.identity", "ok", duration)
//
// Health Checks:
//
//	health := observability.Check(ctx, "adapters", "1.0.0", registryChecker, catalogChecker)
//	if health.Status == observability.HealthStatusDown { ... }
//
// OpenTelemetry's own diagnostics go to the service logger after
// SetOTelLogger.
package observability
