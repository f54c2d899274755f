package observability

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// HealthStatus represents the health state of a component or service.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

var severity = map[HealthStatus]int{
	HealthStatusUp:       0,
	HealthStatusDegraded: 1,
	HealthStatusDown:     2,
}

// Worse returns the more severe of a and b. Unknown statuses count as down.
func Worse(a, b HealthStatus) HealthStatus {
	sa, ok := severity[a]
	if !ok {
		return HealthStatusDown
	}
	sb, ok := severity[b]
	if !ok {
		return HealthStatusDown
	}
	if sb > sa {
		return b
	}
	return a
}

// Health describes the health of an individual component.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ServiceHealth describes the overall health of a service and its components.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// HealthChecker is implemented by components that can report their health,
// such as the node registry behind the HTTP API.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// HealthCheckFunc adapts a function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) Health

// CheckHealth calls f.
func (f HealthCheckFunc) CheckHealth(ctx context.Context) Health { return f(ctx) }

// NewServiceHealth creates a ServiceHealth with status up.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{
		Service: service,
		Status:  HealthStatusUp,
		Version: version,
	}
}

// AddComponent records ch and lowers the overall status to match it.
func (sh *ServiceHealth) AddComponent(ch Health) {
	sh.Components = append(sh.Components, ch)
	sh.Status = Worse(sh.Status, ch.Status)
}

// Check runs every checker concurrently and reports them in argument order.
// A checker that panics is reported down instead of crashing the probe.
func Check(ctx context.Context, service, version string, checkers ...HealthChecker) *ServiceHealth {
	results := make([]Health, len(checkers))

	var g errgroup.Group
	for i, c := range checkers {
		g.Go(func() error {
			results[i] = safeCheck(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	sh := NewServiceHealth(service, version)
	for _, h := range results {
		sh.AddComponent(h)
	}
	return sh
}

func safeCheck(ctx context.Context, c HealthChecker) (h Health) {
	defer func() {
		if r := recover(); r != nil {
			h = Health{
				Name:    fmt.Sprintf("%T", c),
				Status:  HealthStatusDown,
				Message: fmt.Sprintf("health check panicked: %v", r),
			}
		}
	}()
	return c.CheckHealth(ctx)
}
