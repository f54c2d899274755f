package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

// Hook is a lifecycle callback that runs during application startup or shutdown.
type Hook func(ctx context.Context) error

// OnStart registers a hook that runs after all components are started.
func (a *App) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnReady registers a hook that runs once startup has completed, right
// before the application waits for work.
func (a *App) OnReady(hooks ...Hook) {
	a.onReady = append(a.onReady, hooks...)
}

// OnStop registers a hook that runs during graceful shutdown before components
// are stopped, such as flushing telemetry exporters.
func (a *App) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

// runHooks executes hooks sequentially, returning the first error.
func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}

// runAllHooks executes every hook even when some fail.
func runAllHooks(ctx context.Context, hooks []Hook) error {
	var err error
	for i, h := range hooks {
		if hookErr := h(ctx); hookErr != nil {
			err = multierr.Append(err, fmt.Errorf("hook %d failed: %w", i, hookErr))
		}
	}
	return err
}
