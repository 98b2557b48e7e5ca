package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	mazeio "github.com/matzehuels/labyrinth/pkg/io"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
)

// renderCommand creates the render command for re-rendering exported mazes.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		gen     generateOpts
	)

	cmd := &cobra.Command{
		Use:   "render [maze.json]",
		Short: "Render a maze document in other formats",
		Long: `Render a maze previously exported with "generate --format json".

The document is checked to be a perfect maze before rendering.`,
		Example: `  labyrinth render maze-42.json -f svg,tree
  labyrinth render maze-42.json -f png -r 32 --accent "#3366ff" -o big.png`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeMazeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.generateOptions(cmd, &gen)
			fallback := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			return c.runRender(cmd.Context(), args[0], output, fallback, noCache, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVarP(&gen.formats, "format", "f", "", "output format(s), comma-separated")
	f.IntVarP(&gen.resolution, "resolution", "r", 0, "pixels per cell edge")
	f.IntVar(&gen.scale, "scale", 0, "integer upscaling of raster output")
	f.StringVar(&gen.background, "background", "", "background color (hex)")
	f.StringVar(&gen.wall, "wall", "", "wall color (hex)")
	f.StringVar(&gen.accent, "accent", "", "accent color (hex)")
	f.BoolVar(&gen.noOriginMark, "no-origin-mark", false, "do not highlight the origin cell")
	f.BoolVar(&gen.noDeepestMark, "no-deepest-mark", false, "do not highlight the deepest cell")
	f.BoolVar(&noCache, "no-cache", false, "disable caching")
	registerRenderCompletions(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output, fallback string, noCache bool, opts pipeline.Options) error {
	m, err := mazeio.ImportJSON(input)
	if err != nil {
		return fmt.Errorf("import %s: %w", input, err)
	}
	c.Logger.Debug("imported maze", "path", input, "width", m.Width(), "height", m.Height())

	runner, err := c.newRunner(ctx, noCache, false)
	if err != nil {
		return err
	}
	defer runner.Close(context.WithoutCancel(ctx))

	spinner := newSpinnerWithContext(ctx, "Rendering maze...")
	spinner.Start()
	artifacts, cached, err := runner.RenderSnapshot(ctx, m, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %dx%d maze", m.Width(), m.Height()))
	if cached {
		printDetail("from cache")
	}

	formats := opts.Formats
	if len(formats) == 0 {
		formats = []string{pipeline.FormatPNG}
	}
	paths, err := writeArtifacts(output, fallback, artifacts, formats)
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
