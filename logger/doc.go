// Package logger provides structured logging on top of zerolog.
//
// Loggers write JSON lines tagged with the service name, or colored console
// lines where the component becomes a message prefix. Derived loggers add
// components, fields, errors, or the request and span IDs found in a context.
//
// # Configuration
//
//	logging:
//	  level: info
//	  format: json      # or console
//	  output: stdout    # or stderr
//
// # Usage
//
//	logger.Init(&cfg.Logging)
//	log := logger.WithComponent("dag")
//	log.WithContext(ctx).Debug("node validated", logger.Fields(logger.FieldNode, "contact"))
package logger
