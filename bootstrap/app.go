package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/adapters/logger"
)

// Component is a long-lived part of the application started before the
// hooks run and stopped in reverse order on shutdown.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Task is a finite unit of work run by RunTask.
type Task func(ctx context.Context) error

// App owns the lifecycle of a service process: components, hooks and
// graceful shutdown.
//
// Example:
//
//	app := bootstrap.New("adapters", version.Version)
//	app.Register(srv)
//	app.OnStop(shutdownTracer)
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
type App struct {
	Name    string
	Version string
	Logger  *logger.Logger

	gracefulTimeout time.Duration
	components      []Component
	started         []Component

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// DefaultGracefulTimeout bounds shutdown unless WithGracefulTimeout says
// otherwise.
const DefaultGracefulTimeout = 15 * time.Second

// New creates an application. Without WithLogger it uses the global logger.
func New(name, version string, opts ...Option) *App {
	app := &App{
		Name:            name,
		Version:         version,
		Logger:          logger.GetGlobalLogger(),
		gracefulTimeout: DefaultGracefulTimeout,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Register adds components in start order.
func (a *App) Register(components ...Component) {
	a.components = append(a.components, components...)
}

// Run starts the application and blocks until SIGINT, SIGTERM or ctx is
// done, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return multierr.Append(err, a.stop())
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask starts the application, runs tasks concurrently and shuts down
// once they all return. The first failing task cancels the others. SIGINT
// and SIGTERM cancel the tasks as well.
func (a *App) RunTask(ctx context.Context, tasks ...Task) error {
	if err := a.startup(ctx); err != nil {
		return multierr.Append(err, a.stop())
	}

	sigCtx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	g, gctx := errgroup.WithContext(sigCtx)
	for _, task := range tasks {
		g.Go(func() error {
			return task(gctx)
		})
	}
	taskErr := g.Wait()

	return multierr.Append(taskErr, a.stop())
}

// startup starts components, then runs OnStart and OnReady hooks.
func (a *App) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("Starting application", map[string]interface{}{
		"name":    a.Name,
		"version": a.Version,
	})

	for _, c := range a.components {
		if err := c.Start(ctx); err != nil {
			return fmt.Errorf("starting %s: %w", c.Name(), err)
		}
		a.started = append(a.started, c)
		a.Logger.Debug("Component started", map[string]interface{}{
			logger.FieldComponent: c.Name(),
		})
	}

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Logger.Info("Application started", map[string]interface{}{
		"components": len(a.started),
		"startup":    time.Since(start).String(),
	})
	return nil
}

// WaitForSignal blocks until an OS interrupt/term signal or context cancellation.
func (a *App) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal, graceful shutdown starting", map[string]interface{}{
			"signal": sig.String(),
		})
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
func (a *App) Shutdown() error {
	return a.stop()
}

// stop runs every OnStop hook, then stops the started components in reverse
// order, all within the graceful timeout. Errors are combined.
func (a *App) stop() error {
	a.Logger.Info("Shutting down application", map[string]interface{}{
		"timeout": a.gracefulTimeout.String(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	err := runAllHooks(ctx, a.onStop)

	for i := len(a.started) - 1; i >= 0; i-- {
		c := a.started[i]
		if stopErr := c.Stop(ctx); stopErr != nil {
			err = multierr.Append(err, fmt.Errorf("stopping %s: %w", c.Name(), stopErr))
		}
	}
	a.started = nil

	if err != nil {
		a.Logger.Error("Shutdown completed with errors", map[string]interface{}{
			logger.FieldError: err.Error(),
		})
		return err
	}
	a.Logger.Info("Application shutdown complete")
	return nil
}
