// Command adapters compiles declaration files into validation nodes and
// serves them over HTTP.
//
//	adapters --config ./config.yml
//	adapters --check            # compile, print the graph and exit
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/kbukum/adapters/bootstrap"
	"github.com/kbukum/adapters/config"
	"github.com/kbukum/adapters/dag"
	"github.com/kbukum/adapters/logger"
	"github.com/kbukum/adapters/observability"
	"github.com/kbukum/adapters/server"
	"github.com/kbukum/adapters/util"
	"github.com/kbukum/adapters/validation"
	"github.com/kbukum/adapters/version"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	configFile  string
	envFile     string
	check       bool
	showVersion bool
}

func parseFlags(args []string, out io.Writer) (options, error) {
	var o options
	fs := pflag.NewFlagSet("adapters", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVarP(&o.configFile, "config", "c", "", "path to config.yml (default: searched next to the binary)")
	fs.StringVar(&o.envFile, "env", "", "path to a .env file")
	fs.BoolVar(&o.check, "check", false, "compile the declarations, print the graph and exit")
	fs.BoolVarP(&o.showVersion, "version", "v", false, "print build information and exit")
	return o, fs.Parse(args)
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseFlags(args, out)
	if err != nil {
		return err
	}
	if opts.showVersion {
		fmt.Fprintln(out, version.Get().String())
		return nil
	}

	var loadOpts []config.LoaderOption
	if opts.configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loadOpts = append(loadOpts, config.WithEnvFile(opts.envFile))
	}
	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return err
	}

	logger.Init(&cfg.Logging)
	log := logger.GetGlobalLogger()
	observability.SetOTelLogger(log)
	log.Info("Starting adapters", version.Get().Fields())

	app := bootstrap.New(cfg.Name, version.Version,
		bootstrap.WithLogger(log),
		bootstrap.WithGracefulTimeout(time.Duration(cfg.Server.WriteTimeout)*time.Second),
	)

	metrics, err := setupTelemetry(ctx, cfg, app)
	if err != nil {
		return err
	}

	registry, err := compileDeclarations(cfg, log, metrics)
	if err != nil {
		return err
	}

	if opts.check {
		return app.RunTask(ctx, func(context.Context) error {
			return printGraph(out, registry)
		})
	}

	srv := server.New(cfg.Server, log)
	srv.RegisterRoutes(registry, server.RouteOptions{
		ServiceName: cfg.Name,
		Metrics:     metrics,
	})
	srv.LogRoutes()
	app.Register(srv)

	return app.Run(ctx)
}

// setupTelemetry starts the configured exporters and registers their
// shutdown. Metrics is nil when metric export is disabled.
func setupTelemetry(ctx context.Context, cfg *config.Config, app *bootstrap.App) (*observability.Metrics, error) {
	if cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, cfg.TracerConfig())
		if err != nil {
			return nil, fmt.Errorf("tracing: %w", err)
		}
		app.OnStop(tp.Shutdown)
	}

	if !cfg.Metrics.Enabled {
		return nil, nil
	}
	mp, err := observability.InitMeter(ctx, cfg.MeterConfig())
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	app.OnStop(mp.Shutdown)

	metrics, err := observability.NewMetrics(observability.Meter(cfg.Name))
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	return metrics, nil
}

// compileDeclarations builds a registry from the configured declaration
// files, or from every file found in the declaration directories.
func compileDeclarations(cfg *config.Config, log *logger.Logger, metrics *observability.Metrics) (*dag.Registry, error) {
	catalog := dag.NewCatalog()
	validation.RegisterDefaults(catalog)

	nodeOpts := []dag.Option{dag.WithLogger(log.WithComponent("dag"))}
	if cfg.Tracing.Enabled {
		nodeOpts = append(nodeOpts, dag.WithTracing("validate"))
	}
	if metrics != nil {
		nodeOpts = append(nodeOpts, dag.WithMetrics(metrics))
	}

	c := &dag.Compiler{
		Registry:    dag.NewRegistry(),
		Catalog:     catalog,
		Loader:      dag.NewFileDeclarationLoader(cfg.Declarations.Dirs...),
		NodeOptions: nodeOpts,
		Log:         log.WithComponent("compiler"),
	}

	files := cfg.Declarations.Files
	if len(files) == 0 {
		files = discoverFiles(cfg.Declarations.Dirs)
	}
	if _, err := c.CompileNamed(files...); err != nil {
		return nil, err
	}

	log.Info("Declarations compiled", map[string]interface{}{
		"files": len(files),
		"nodes": c.Registry.Len(),
	})
	return c.Registry, nil
}

// discoverFiles returns the sorted names of declaration files directly
// inside dirs. Shared files are compiled once through includes.
func discoverFiles(dirs []string) []string {
	var names []string
	for _, dir := range dirs {
		for _, pattern := range []string{"*.yaml", "*.yml", "*.hcl"} {
			matches, _ := filepath.Glob(filepath.Join(dir, pattern))
			for _, m := range matches {
				base := filepath.Base(m)
				names = append(names, strings.TrimSuffix(base, filepath.Ext(base)))
			}
		}
	}
	names = util.Unique(names)
	sort.Strings(names)
	return names
}

func printGraph(out io.Writer, registry *dag.Registry) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tINPUTS\tOUTPUTS\tDEPENDS ON")
	for _, name := range registry.List() {
		n, err := registry.Lookup(name)
		if err != nil {
			return err
		}
		info := dag.Describe(n)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			info.Name,
			joinOrDash(info.Inputs),
			joinOrDash(info.Outputs),
			joinOrDash(info.DependsOn),
		)
	}
	return tw.Flush()
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}
