// Package cli implements the taskplan command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/taskplan/pkg/buildinfo"
	"github.com/matzehuels/taskplan/pkg/cache"
	"github.com/matzehuels/taskplan/pkg/config"
	"github.com/matzehuels/taskplan/pkg/pipeline"
	"github.com/matzehuels/taskplan/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "taskplan"

	// defaultWorkspace is the workspace used when --workspace is not given.
	defaultWorkspace = "default"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config config.Config

	configPath   string
	workspaceID  string
	workspaceDir string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "taskplan picks the most valuable set of tasks under a budget",
		Long:         `taskplan selects a subset of tasks that maximizes total value under cost and hours ceilings and per-category coverage minima, using one of six strategies.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			c.Logger.Debug("loaded config", "path", c.configPath, "strategy", cfg.Solve.Strategy)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/taskplan/config.toml)")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.estimateCommand())
	root.AddCommand(c.strategiesCommand())
	root.AddCommand(c.workspaceCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use, configured from c.Config.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	c.configure(r)
	return r, nil
}

// configure applies the loaded config to a runner.
func (c *CLI) configure(r *pipeline.Runner) {
	r.Engine = c.Config.Engine()
	r.Timeout = c.Config.Solve.Timeout.Duration
	if c.Config.Cache.TTL.Duration > 0 {
		r.TTL = c.Config.Cache.TTL.Duration
	}
	if c.Config.Solve.Strategy != "" {
		r.DefaultStrategy = c.Config.Solve.Strategy
	}
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || !c.Config.Cache.Enabled {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// workspaceStore opens the file store holding CLI workspaces.
func (c *CLI) workspaceStore() (*session.FileStore, error) {
	return session.NewFileStore(c.workspaceDir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/taskplan/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
