package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/internal/config"
	"github.com/matzehuels/labyrinth/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the maze and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached mazes and renderings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cc, err := c.newCache(ctx, false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				printWarning("Cache backend %q cannot be cleared", c.cfg().Cache.Backend)
				return nil
			}

			count, err := clearer.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("%s", c.cacheLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := c.cacheLocation()
			if loc == "" {
				return fmt.Errorf("cache directory unknown")
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		},
	}
}

// cacheLocation describes where the configured cache lives.
func (c *CLI) cacheLocation() string {
	cfg := c.cfg().Cache
	switch cfg.Backend {
	case config.CacheRedis:
		return fmt.Sprintf("redis://%s/%d (prefix %q)", cfg.RedisAddr, cfg.RedisDB, cfg.RedisPrefix)
	case config.CacheNone:
		return "none"
	}
	dir, err := c.cacheDir()
	if err != nil {
		return ""
	}
	return dir
}
