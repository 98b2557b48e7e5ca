// Package cli implements the labyrinth command-line interface.
//
// # Commands
//
//   - generate: carve a maze and write it in one or more formats
//   - render: re-render a maze document exported with --format json
//   - serve: expose generation over HTTP
//   - history: list recent generation runs (needs the mongo archive)
//   - cache: clear or locate the artifact cache
//   - config: show the effective configuration or its file path
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs pipeline, cache and HTTP events.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/internal/config"
	"github.com/matzehuels/labyrinth/pkg/archive"
	"github.com/matzehuels/labyrinth/pkg/buildinfo"
	"github.com/matzehuels/labyrinth/pkg/cache"
	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/observability"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = config.AppName

	// envFile is read from the working directory for LABYRINTH_* variables.
	envFile = ".env"
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

	configPath string
	config     *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
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
		Short:        "Labyrinth generates perfect mazes",
		Long:         `Labyrinth carves perfect mazes with a randomized depth-first backtracker and renders them as images, SVG, text, JSON or a spanning-tree diagram. The cell where the carving path reached its greatest depth is highlighted alongside the origin.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/labyrinth/config.toml)")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and environment once.
func (c *CLI) loadConfig() error {
	if c.config != nil {
		return nil
	}
	path := c.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			c.Logger.Debug("no config dir", "error", err)
		}
		path = p
	}
	cfg, err := config.Load(path, envFile)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded config", "path", path, "cache", cfg.Cache.Backend, "archive", cfg.Archive.Backend)
	c.config = cfg
	return nil
}

// cfg returns the loaded config, falling back to defaults when a command
// runs without the root pre-run (as in tests).
func (c *CLI) cfg() *config.Config {
	if c.config == nil {
		c.config = config.Default()
	}
	return c.config
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Log hooks are installed
// so --verbose traces cache and pipeline events.
func (c *CLI) newRunner(ctx context.Context, noCache bool, withHistory bool) (*pipeline.Runner, error) {
	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)

	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}

	var store archive.Store
	if withHistory {
		store, err = c.newArchive(ctx)
		if err != nil {
			_ = cc.Close()
			return nil, err
		}
	}
	// Cached mazes and artifacts are only reused by the build that drew them.
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	return pipeline.NewRunner(cc, keyer, store, c.Logger), nil
}

// newCache builds the configured cache backend. A redis cache that cannot
// be reached degrades to no caching with a warning.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.cfg().Cache
	if noCache {
		return cache.NewNullCache(), nil
	}

	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "addr", cfg.RedisAddr, "error", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	default:
		dir, err := c.cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// newArchive builds the configured history store. The CLI only keeps
// history in MongoDB; the memory backend is useful only to a long-running
// server.
func (c *CLI) newArchive(ctx context.Context) (archive.Store, error) {
	cfg := c.cfg().Archive
	if cfg.Backend != config.ArchiveMongo {
		return archive.NewNullStore(), nil
	}
	return archive.NewMongoStore(ctx, archive.MongoOptions{
		URI:        cfg.MongoURI,
		Database:   cfg.Database,
		Collection: cfg.Collection,
	})
}

// cacheDir returns the file cache directory from config or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if dir := c.cfg().Cache.Dir; dir != "" {
		return dir, nil
	}
	return config.CacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// Empty entries are dropped and duplicates collapsed.
func parseFormats(s string) []string {
	var formats []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats
}

// errNoHistory is returned by history commands without a mongo archive.
var errNoHistory = errors.New(errors.ErrCodeUnsupported,
	"history needs the mongo archive: set [archive] backend = \"mongo\" or LABYRINTH_ARCHIVE_BACKEND=mongo")
