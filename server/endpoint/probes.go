package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/adapters/observability"
	"github.com/kbukum/adapters/version"
)

var startedAt = time.Now()

// ProbeResponse is the body of /alive and /ready.
type ProbeResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

func probe(c *gin.Context, code int, status, service string) {
	c.JSON(code, ProbeResponse{
		Status:    status,
		Service:   service,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Liveness answers as long as the process serves HTTP.
func Liveness(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		probe(c, http.StatusOK, "alive", serviceName)
	}
}

// Readiness fails with 503 only when a checker reports down. A degraded
// service, such as one with no compiled nodes, still takes traffic.
func Readiness(serviceName string, checkers ...observability.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if collect(c.Request.Context(), serviceName, checkers).Status == observability.HealthStatusDown {
			probe(c, http.StatusServiceUnavailable, "not_ready", serviceName)
			return
		}
		probe(c, http.StatusOK, "ready", serviceName)
	}
}

// InfoResponse is the body of /info.
type InfoResponse struct {
	Service string       `json:"service"`
	Build   version.Info `json:"build"`
	Uptime  string       `json:"uptime"`
}

// Info reports build metadata and uptime.
func Info(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, InfoResponse{
			Service: serviceName,
			Build:   version.Get(),
			Uptime:  time.Since(startedAt).Round(time.Second).String(),
		})
	}
}
