package observability

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Collector names the OTLP/HTTP collector signals are pushed to and the
// service that pushes them. TracerConfig and MeterConfig embed it.
type Collector struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is host:port, e.g. "localhost:4318".
	Endpoint string
	// Insecure disables TLS towards the collector.
	Insecure bool
}

func localCollector(serviceName string) Collector {
	return Collector{
		ServiceName:    serviceName,
		ServiceVersion: "0.0.0-dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
	}
}

// resource builds the resource shared by the tracer and meter providers.
// It is not merged with resource.Default: the merge fails whenever the
// SDK's schema URL differs from the semconv package in use.
func (c Collector) resource() (*resource.Resource, error) {
	if c.ServiceName == "" {
		return nil, fmt.Errorf("observability: service name is required")
	}
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(c.ServiceName),
		semconv.ServiceVersion(c.ServiceVersion),
		attribute.String("environment", c.Environment),
	), nil
}

func (c Collector) fields() map[string]interface{} {
	return map[string]interface{}{
		"service":  c.ServiceName,
		"endpoint": c.Endpoint,
		"insecure": c.Insecure,
	}
}
