package bootstrap

import (
	"time"

	"github.com/kbukum/adapters/logger"
)

// Option customizes an App in New.
type Option func(*App)

// WithLogger replaces the global logger. A nil l is ignored.
func WithLogger(l *logger.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.Logger = l
		}
	}
}

// WithGracefulTimeout bounds the whole shutdown: OnStop hooks and component
// Stop calls share it. Non-positive values keep the default.
func WithGracefulTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.gracefulTimeout = d
		}
	}
}
