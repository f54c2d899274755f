package middleware

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/adapters/observability"
)

// Tracing returns a Gin middleware that opens one span per request and
// records request metrics. It runs inside the engine because the route label
// must be the matched pattern (/nodes/:name), not the raw path.
// A nil metrics skips metric recording.
func Tracing(serviceName string, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rc := observability.NewRequestContext(serviceName, route, c.GetHeader(HeaderRequestID), metrics)

		c.Request = c.Request.WithContext(rc.Start(c.Request.Context(), c.Request.Method+" "+route))

		c.Next()

		status := c.Writer.Status()
		var err error
		if status >= 500 {
			err = fmt.Errorf("http status %d", status)
			if len(c.Errors) > 0 {
				err = c.Errors.Last()
			}
		}
		rc.End(strconv.Itoa(status), err)
	}
}
