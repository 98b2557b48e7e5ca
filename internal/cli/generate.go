package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/pkg/maze"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
// Zero values mean "use the configured default".
type generateOpts struct {
	output        string // output file (single format) or base path (multiple)
	formats       string // comma-separated output formats
	width         int
	height        int
	seed          uint64
	resolution    int
	scale         int
	background    string
	wall          string
	accent        string
	noOriginMark  bool
	noDeepestMark bool
	noCache       bool // disable the artifact cache entirely
	refresh       bool // ignore cached results but store fresh ones
	verify        bool // check the perfect-maze invariants after carving
	print         bool // also print the ASCII drawing to stdout
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a maze and write it to disk",
		Long: `Generate a perfect maze with a randomized depth-first backtracker.

Without --seed a random seed is chosen and printed, so any maze can be
reproduced later. Seeded mazes and their renderings are cached.`,
		Example: `  labyrinth generate --width 20 --height 12
  labyrinth generate --seed 42 -f png,svg,txt -o out/maze
  labyrinth generate --seed 7 --resolution 24 --scale 2 --accent "#00aa88"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			popts := c.generateOptions(cmd, &opts)
			return c.runGenerate(cmd.Context(), popts, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s), comma-separated: "+strings.Join(pipeline.SupportedFormats(), ", "))
	f.IntVar(&opts.width, "width", 0, fmt.Sprintf("maze width in cells (default %d)", pipeline.DefaultWidth))
	f.IntVar(&opts.height, "height", 0, fmt.Sprintf("maze height in cells (default %d)", pipeline.DefaultHeight))
	f.Uint64Var(&opts.seed, "seed", 0, "random seed (0 picks one)")
	f.IntVarP(&opts.resolution, "resolution", "r", 0, fmt.Sprintf("pixels per cell edge (default %d)", pipeline.DefaultResolution))
	f.IntVar(&opts.scale, "scale", 0, "integer upscaling of raster output")
	f.StringVar(&opts.background, "background", "", "background color (hex)")
	f.StringVar(&opts.wall, "wall", "", "wall color (hex)")
	f.StringVar(&opts.accent, "accent", "", "accent color for the origin and deepest cell (hex)")
	f.BoolVar(&opts.noOriginMark, "no-origin-mark", false, "do not highlight the origin cell")
	f.BoolVar(&opts.noDeepestMark, "no-deepest-mark", false, "do not highlight the deepest cell")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	f.BoolVar(&opts.verify, "verify", false, "verify the maze is perfect after carving")
	f.BoolVarP(&opts.print, "print", "p", false, "print the maze as text to stdout")
	registerRenderCompletions(cmd)

	return cmd
}

// generateOptions merges configured defaults with the flags the user set.
func (c *CLI) generateOptions(cmd *cobra.Command, opts *generateOpts) pipeline.Options {
	p := c.cfg().PipelineOptions()
	f := cmd.Flags()

	if f.Changed("width") {
		p.Width = opts.width
	}
	if f.Changed("height") {
		p.Height = opts.height
	}
	if f.Changed("resolution") {
		p.Resolution = opts.resolution
	}
	if f.Changed("scale") {
		p.Scale = opts.scale
	}
	if f.Changed("format") {
		p.Formats = parseFormats(opts.formats)
	}
	if f.Changed("background") {
		p.Background = opts.background
	}
	if f.Changed("wall") {
		p.Wall = opts.wall
	}
	if f.Changed("accent") {
		p.Accent = opts.accent
	}
	if f.Changed("no-origin-mark") {
		p.NoOriginMark = opts.noOriginMark
	}
	if f.Changed("no-deepest-mark") {
		p.NoDeepestMark = opts.noDeepestMark
	}

	p.Seed = opts.seed
	p.Verify = opts.verify
	p.Refresh = opts.refresh
	p.Origin = "cli"
	p.Logger = c.Logger
	return p
}

func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, flags *generateOpts) error {
	prog := newProgress(c.Logger)

	runner, err := c.newRunner(ctx, flags.noCache, true)
	if err != nil {
		return err
	}
	defer runner.Close(context.WithoutCancel(ctx))

	spinner := newSpinnerWithContext(ctx, "Carving maze...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	m := result.Maze
	printSuccess("Generated %dx%d maze", m.Width(), m.Height())
	printKeyValue("seed", fmt.Sprint(result.Seed))
	printKeyValue("deepest", fmt.Sprintf("%s at depth %d", m.Deepest(), m.DeepestLen()))
	if result.ID != "" {
		printKeyValue("id", result.ID)
	}
	printStats(result.Stats, result.CacheInfo.MazeHit && result.CacheInfo.RenderHit)

	paths, err := writeArtifacts(flags.output, fmt.Sprintf("maze-%d", result.Seed), result.Artifacts, formatsOf(opts, result))
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}

	if flags.print {
		text, ok := result.Artifacts[pipeline.FormatText]
		if !ok {
			text = []byte(maze.Text(m))
		}
		fmt.Print(string(text))
	}

	prog.done("Generation complete")
	return nil
}

// formatsOf returns the requested formats in the order they were asked for.
func formatsOf(opts pipeline.Options, result *pipeline.Result) []string {
	if len(opts.Formats) > 0 {
		return opts.Formats
	}
	formats := make([]string, 0, len(result.Artifacts))
	for f := range result.Artifacts {
		formats = append(formats, f)
	}
	return formats
}

// =============================================================================
// Output Files
// =============================================================================

// outputPath returns where an artifact is written. A single format with
// an explicit file name is written as-is; otherwise the base path gets the
// format's extension.
func outputPath(output, fallback, format string, multiple bool) string {
	if output == "" {
		output = fallback
	}
	if !multiple && filepath.Ext(output) != "" {
		return output
	}
	base := strings.TrimSuffix(output, filepath.Ext(output))
	return base + "." + pipeline.Extension(format)
}

// writeArtifacts writes each artifact and returns the paths written.
func writeArtifacts(output, fallback string, artifacts map[string][]byte, formats []string) ([]string, error) {
	multiple := len(formats) > 1
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(output, fallback, format, multiple)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
