// Package pipeline provides the generate → render pipeline for labyrinth.
//
// The CLI and the HTTP server both go through this package so that
// defaults, validation, caching and history behave the same everywhere.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Generate: carve a perfect maze with the backtracker
//  2. Render: encode it in one or more formats (PNG, SVG, text, JSON, DOT...)
//
// A maze built from an explicit seed is reproducible, so both its document
// and its rendered files are cached. Unseeded runs pick a random seed and
// skip the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, archive, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Width:   20,
//	    Height:  12,
//	    Seed:    42,
//	    Formats: []string{"png", "svg"},
//	})
//	png := result.Artifacts["png"]
//
// Run stages individually:
//
//	m, err := runner.Generate(ctx, opts)
//	artifacts, err := runner.Render(ctx, m, "", opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labyrinth/pkg/cache"
	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/maze"
	"github.com/matzehuels/labyrinth/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default number of columns.
	DefaultWidth = 16

	// DefaultHeight is the default number of rows.
	DefaultHeight = 16

	// DefaultResolution is the default cell edge in pixels.
	DefaultResolution = 16

	// DefaultScale is the default raster upscaling factor.
	DefaultScale = 1
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpg"
	FormatGIF  = "gif"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
	FormatSVG  = "svg"
	FormatText = "txt"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatTree = "tree"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJPEG: true,
	FormatGIF:  true,
	FormatBMP:  true,
	FormatTIFF: true,
	FormatSVG:  true,
	FormatText: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatTree: true,
}

var contentTypes = map[string]string{
	FormatPNG:  "image/png",
	FormatJPEG: "image/jpeg",
	FormatGIF:  "image/gif",
	FormatBMP:  "image/bmp",
	FormatTIFF: "image/tiff",
	FormatSVG:  "image/svg+xml",
	FormatText: "text/plain; charset=utf-8",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	FormatTree: "image/svg+xml",
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Extension returns the file extension for a format, without the dot.
// The tree diagram is SVG and gets "tree.svg" so it does not collide with
// the maze SVG.
func Extension(format string) string {
	if format == FormatTree {
		return "tree.svg"
	}
	return format
}

// SupportedFormats returns the valid formats in sorted order.
func SupportedFormats() []string {
	formats := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generate options
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Seed     uint64 `json:"seed,omitempty"` // 0 picks a random seed
	MaxCells int    `json:"-"`              // 0 is unlimited
	Verify   bool   `json:"verify,omitempty"`

	// Render options
	Resolution    int      `json:"resolution,omitempty"`
	Scale         int      `json:"scale,omitempty"`
	Formats       []string `json:"formats,omitempty"`
	Background    string   `json:"background,omitempty"`
	Wall          string   `json:"wall,omitempty"`
	Accent        string   `json:"accent,omitempty"`
	NoOriginMark  bool     `json:"no_origin_mark,omitempty"`
	NoDeepestMark bool     `json:"no_deepest_mark,omitempty"`

	Refresh bool `json:"refresh,omitempty"` // bypass cached results

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	Origin string      `json:"-"` // recorded in history: "cli" or "http"
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies the run in the history archive.
	ID string

	// Maze is the generated maze.
	Maze *maze.Snapshot

	// Seed is the seed the maze was generated from.
	Seed uint64

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Cells        int
	Steps        int
	Backtracks   int
	MaxStack     int
	DeepestLen   int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	MazeHit   bool // Whether the maze document came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(SupportedFormats(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and validates every stage.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	return o.ValidateImage(o.Width, o.Height)
}

// SetGenerateDefaults sets default values for generation.
func (o *Options) SetGenerateDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForGenerate validates and sets defaults for generation.
// Negative dimensions are refused rather than defaulted.
func (o *Options) ValidateForGenerate() error {
	o.SetGenerateDefaults()
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if o.MaxCells > 0 {
		return errors.ValidateCellLimit(o.Width, o.Height, o.MaxCells)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.Resolution == 0 {
		o.Resolution = DefaultResolution
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := errors.ValidateResolution(o.Resolution); err != nil {
		return err
	}
	if err := errors.ValidateScale(o.Scale); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	_, err := o.Palette()
	return err
}

// ValidateImage holds the rendering of a width x height maze to
// errors.MaxPixels, counting the scale factor, whenever a cell limit is set.
// Call it after ValidateForRender.
func (o *Options) ValidateImage(width, height int) error {
	if o.MaxCells <= 0 {
		return nil
	}
	return errors.ValidatePixelLimit(width, height, o.Resolution, o.Scale, errors.MaxPixels)
}

// Palette parses the configured colors.
func (o *Options) Palette() (render.Palette, error) {
	return render.ParsePalette(o.Background, o.Wall, o.Accent)
}

// RenderOptions converts the options into renderer options.
func (o *Options) RenderOptions() ([]render.Option, error) {
	p, err := o.Palette()
	if err != nil {
		return nil, err
	}
	opts := []render.Option{render.WithPalette(p)}
	if o.NoOriginMark {
		opts = append(opts, render.WithoutOriginMark())
	}
	if o.NoDeepestMark {
		opts = append(opts, render.WithoutDeepestMark())
	}
	return opts, nil
}

// MazeKeyOpts returns cache key options for a maze generated from seed.
func (o *Options) MazeKeyOpts(seed uint64) cache.MazeKeyOpts {
	return cache.MazeKeyOpts{Width: o.Width, Height: o.Height, Seed: seed}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Colors are normalized so "#FFF" and "#ffffff" share a key.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:      format,
		Resolution:  o.Resolution,
		Scale:       o.Scale,
		MarkOrigin:  !o.NoOriginMark,
		MarkDeepest: !o.NoDeepestMark,
	}
	if p, err := o.Palette(); err == nil {
		k.Background, k.Wall, k.Accent = p.Hex()
	}
	return k
}
