package observability

import (
	"github.com/go-logr/zerologr"
	"go.opentelemetry.io/otel"

	"github.com/kbukum/adapters/logger"
)

// SetOTelLogger routes the OpenTelemetry SDK's internal diagnostics and
// export errors through log. A nil log uses the global logger.
func SetOTelLogger(log *logger.Logger) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	log = log.WithComponent("otel")

	zl := log.GetLogger()
	otel.SetLogger(zerologr.New(&zl))
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		log.Warn("opentelemetry error", logger.Fields(logger.FieldError, err.Error()))
	}))
}
