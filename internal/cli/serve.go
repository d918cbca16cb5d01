package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/taskplan/pkg/api"
	"github.com/matzehuels/taskplan/pkg/cache"
	"github.com/matzehuels/taskplan/pkg/config"
	"github.com/matzehuels/taskplan/pkg/observability"
	"github.com/matzehuels/taskplan/pkg/pipeline"
	"github.com/matzehuels/taskplan/pkg/session"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags   config.Server
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API. Results are cached in Redis when --redis-url is set, else
in the local cache directory. Workspaces live in MongoDB when --mongo-uri is
set, else in memory. Prometheus metrics are served on /metrics unless
disabled.`,
		Example: `  taskplan serve --addr :8080
  taskplan serve --redis-url redis://localhost:6379/0 --mongo-uri mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, c.serverConfig(cmd, flags), noCache)
		},
	}

	cmd.Flags().StringVar(&flags.Addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&flags.RedisURL, "redis-url", "", "Redis URL for the result cache")
	cmd.Flags().StringVar(&flags.MongoURI, "mongo-uri", "", "MongoDB URI for workspaces")
	cmd.Flags().StringVar(&flags.MongoDatabase, "mongo-db", "", "MongoDB database name (default from config)")
	cmd.Flags().BoolVar(&flags.Metrics, "metrics", true, "serve Prometheus metrics on /metrics")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, cfg config.Server, noCache bool) error {
	ctx := cmd.Context()

	var ch cache.Cache
	if cfg.RedisURL != "" && !noCache {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, appName+":")
		if err != nil {
			return err
		}
		ch = rc
		c.Logger.Info("using redis cache")
	} else {
		fc, err := c.newCache(noCache)
		if err != nil {
			return err
		}
		ch = fc
	}

	runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api"), c.Logger)
	c.configure(runner)
	defer runner.Close()

	var store session.Store = session.NewMemoryStore()
	if cfg.MongoURI != "" {
		ms, err := session.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return err
		}
		store = ms
		c.Logger.Info("using mongodb workspace store", "database", cfg.MongoDatabase)
	}
	defer store.Close()

	opts := []api.Option{api.WithLogger(c.Logger)}
	if cfg.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		hooks := observability.NewPrometheusHooks(reg)
		observability.SetSolverHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		defer observability.Reset()
		opts = append(opts, api.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	return api.New(runner, store, opts...).ListenAndServe(ctx, cfg.Addr)
}

// serverConfig overlays the serve flags the user set onto the configured
// server settings.
func (c *CLI) serverConfig(cmd *cobra.Command, flags config.Server) config.Server {
	cfg := c.Config.Server
	fs := cmd.Flags()
	if fs.Changed("addr") {
		cfg.Addr = flags.Addr
	}
	if fs.Changed("redis-url") {
		cfg.RedisURL = flags.RedisURL
	}
	if fs.Changed("mongo-uri") {
		cfg.MongoURI = flags.MongoURI
	}
	if fs.Changed("mongo-db") {
		cfg.MongoDatabase = flags.MongoDatabase
	}
	if fs.Changed("metrics") {
		cfg.Metrics = flags.Metrics
	}
	return cfg
}
