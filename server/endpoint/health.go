package endpoint

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/adapters/observability"
	"github.com/kbukum/adapters/version"
)

func collect(ctx context.Context, serviceName string, checkers []observability.HealthChecker) *observability.ServiceHealth {
	return observability.Check(ctx, serviceName, version.Get().Short(), checkers...)
}

// Health returns a handler that reports service health including component
// statuses. A down component turns the response into a 503.
func Health(serviceName string, checkers ...observability.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := collect(c.Request.Context(), serviceName, checkers)
		status := http.StatusOK
		if sh.Status == observability.HealthStatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, sh)
	}
}
