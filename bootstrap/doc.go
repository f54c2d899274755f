// Package bootstrap runs a service process: it starts registered
// components in order, runs lifecycle hooks, waits for SIGINT or SIGTERM
// and shuts everything down within a graceful timeout.
//
// # Quick Start
//
//	app := bootstrap.New("adapters", version.Version,
//	    bootstrap.WithLogger(log),
//	    bootstrap.WithGracefulTimeout(10*time.Second),
//	)
//	app.Register(srv)
//	app.OnStop(shutdownTracer)
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// RunTask replaces Run for one-shot work such as checking declaration
// files: the tasks run concurrently and the application shuts down when
// they return.
package bootstrap
