// Package cli implements the tallyprint command-line interface.
//
// Commands classify observation records, render them into paged reports,
// check narrative catalogs and templates, explore shapes interactively and
// manage the artifact cache. The CLI is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - classify: Print the dominant and secondary category and the shape key
//   - render: Render a payload to SVG, PNG, PDF or JSON
//   - catalog: Check narrative coverage and list shape keys
//   - template: Validate report templates
//   - explore: Adjust counts interactively and watch the shape change
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// routes pipeline and cache hooks to the log. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tallyprint/pkg/buildinfo"
	"github.com/matzehuels/tallyprint/pkg/cache"
	"github.com/matzehuels/tallyprint/pkg/narrative"
	"github.com/matzehuels/tallyprint/pkg/observability"
	"github.com/matzehuels/tallyprint/pkg/pipeline"
	"github.com/matzehuels/tallyprint/pkg/report"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "tallyprint"

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

	configPath   string
	noCache      bool
	cacheBackend string
	config       *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Tallyprint turns category tallies into printed reports",
		Long:         `Tallyprint classifies four-category observation tallies into a shape and lays out matching narrative copy on fixed-size pages.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/tallyprint/config.toml)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the artifact cache")
	flags.StringVar(&c.cacheBackend, "cache-backend", "", "cache backend: file, redis, mongo, none (overrides config)")

	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.templateCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command
// context. It runs before every subcommand.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.cacheBackend != "" {
		cfg.Cache.Backend = c.cacheBackend
		if err := cfg.validate(); err != nil {
			return err
		}
	}
	c.config = cfg

	if c.Logger.GetLevel() <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// cfg returns the loaded configuration, or defaults when setup did not run.
func (c *CLI) cfg() *Config {
	if c.config == nil {
		return defaultConfig()
	}
	return c.config
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Empty paths fall back to
// the configured template and catalog, then to the embedded defaults. The
// returned close function releases the cache.
func (c *CLI) newRunner(ctx context.Context, templatePath, catalogPath string, noCache bool) (*pipeline.Runner, func(), error) {
	asm, err := c.newAssembler(templatePath, catalogPath)
	if err != nil {
		return nil, nil, err
	}
	store := c.openCache(ctx, noCache)
	closeFn := func() {
		if err := store.Close(); err != nil {
			c.Logger.Warn("close cache", "err", err)
		}
	}
	return pipeline.NewRunner(store, nil, asm, c.Logger), closeFn, nil
}

// newAssembler loads the template and catalog for a run.
func (c *CLI) newAssembler(templatePath, catalogPath string) (*report.Assembler, error) {
	cfg := c.cfg()
	if templatePath == "" {
		templatePath = cfg.Render.Template
	}
	if catalogPath == "" {
		catalogPath = cfg.Render.Catalog
	}

	var (
		tpl *report.Template
		cat *narrative.Catalog
		err error
	)
	if templatePath != "" {
		if tpl, err = report.LoadTemplate(templatePath); err != nil {
			return nil, err
		}
	}
	if catalogPath != "" {
		if cat, err = loadCatalog(catalogPath); err != nil {
			return nil, err
		}
	}
	return report.NewAssembler(tpl, cat, c.Logger), nil
}

// loadCatalog loads and validates a catalog file.
func loadCatalog(path string) (*narrative.Catalog, error) {
	cat, err := narrative.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// openCache opens the configured cache backend. Backends that cannot be
// reached degrade to no caching with a warning.
func (c *CLI) openCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache || c.noCache {
		return cache.NewNullCache()
	}
	cfg := c.cfg().Cache

	switch cfg.Backend {
	case backendNone:
		return cache.NewNullCache()
	case backendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "addr", cfg.Redis.Addr, "err", err)
			return cache.NewNullCache()
		}
		return rc
	case backendMongo:
		mc, err := cache.NewMongoCache(ctx, cache.MongoOptions{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			c.Logger.Warn("mongo cache unavailable, caching disabled", "uri", cfg.Mongo.URI, "err", err)
			return cache.NewNullCache()
		}
		return mc
	}

	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/tallyprint/).
func (c *CLI) cacheDir() (string, error) {
	if dir := c.cfg().Cache.Dir; dir != "" {
		return dir, nil
	}
	return cache.DefaultDir()
}
