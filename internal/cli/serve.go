package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/internal/config"
	"github.com/matzehuels/labyrinth/internal/server"
	"github.com/matzehuels/labyrinth/pkg/archive"
	"github.com/matzehuels/labyrinth/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		maxCells int
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve mazes over HTTP",
		Long: `Serve mazes over HTTP until interrupted.

  GET /maze.png?width=20&height=12&seed=42
  GET /maze.svg?resolution=24&accent=00aa88
  GET /history
  GET /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg()
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}
			if !cmd.Flags().Changed("max-cells") {
				maxCells = cfg.Server.MaxCells
			}
			return c.runServe(cmd.Context(), addr, maxCells, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&maxCells, "max-cells", 0, "largest width*height a request may ask for")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, maxCells int, noCache bool) error {
	cfg := c.cfg()

	runner, err := c.newRunner(ctx, noCache, true)
	if err != nil {
		return err
	}
	defer runner.Close(context.WithoutCancel(ctx))

	// A server keeps history in memory unless mongo is configured.
	if cfg.Archive.Backend == config.ArchiveMemory {
		runner.Archive = archive.NewMemoryStore(cfg.Archive.Capacity)
	}
	observability.SetHTTPHooks(observability.NewLogHooks(c.Logger))

	defaults := cfg.PipelineOptions()
	defaults.Formats = nil
	srv := server.New(server.Options{
		Runner:   runner,
		Defaults: defaults,
		MaxCells: maxCells,
		Logger:   c.Logger,
	})

	printInfo("Serving on %s", addr)
	printDetail("cache: %s, history: %s", cfg.Cache.Backend, cfg.Archive.Backend)
	printNextStep("Try", "curl -o maze.png "+localURL(addr)+"/maze.png?seed=42")
	return srv.ListenAndServe(ctx, addr)
}

// localURL turns a listen address into a URL for the hint line.
func localURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
