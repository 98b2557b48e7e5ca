package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labyrinth/pkg/archive"
	"github.com/matzehuels/labyrinth/pkg/cache"
	mazeio "github.com/matzehuels/labyrinth/pkg/io"
	"github.com/matzehuels/labyrinth/pkg/maze"
	"github.com/matzehuels/labyrinth/pkg/observability"
)

// ctxCheckInterval is how many generator steps run between context checks.
const ctxCheckInterval = 1024

// Runner encapsulates pipeline execution with caching and history.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its cache, archive and logger. It
// doesn't store pipeline results, so multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Archive archive.Store
	Logger  *log.Logger
}

// NewRunner creates a runner with the given cache, keyer and archive.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If store is nil, a NullStore is used (history disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, store archive.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if store == nil {
		store = archive.NewNullStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Archive: store,
		Logger:  logger,
	}
}

// Execute runs the complete generate → render pipeline with caching and
// records the run in the archive.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Only seeded mazes are reproducible, so only they get cache keys.
	var mazeKey string
	if opts.Seed != 0 {
		mazeKey = r.Keyer.MazeKey(opts.MazeKeyOpts(opts.Seed))
	}

	// Stage 1: Generate
	genStart := time.Now()
	m, mazeHit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result := &Result{
		Maze: m,
		Seed: m.Seed(),
	}
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.Cells = m.Width() * m.Height()
	result.Stats.Steps = m.Stats().Steps()
	result.Stats.Backtracks = m.Stats().Backtracks
	result.Stats.MaxStack = m.Stats().MaxStack
	result.Stats.DeepestLen = m.DeepestLen()
	result.CacheInfo.MazeHit = mazeHit

	r.Logger.Info("generated maze",
		"width", m.Width(),
		"height", m.Height(),
		"seed", m.Seed(),
		"deepest", m.Deepest(),
		"duration", result.Stats.GenerateTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, m, mazeKey, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	// History is best effort: a failing archive never fails the run.
	rec := archive.NewRecord(m, opts.Formats, opts.Origin)
	rec.CacheHit = mazeHit && renderHit
	rec.Duration = time.Since(start)
	if err := r.Archive.Save(ctx, rec); err != nil {
		r.Logger.Warn("failed to archive run", "id", rec.ID, "error", err)
	} else {
		result.ID = rec.ID
	}

	return result, nil
}

// GenerateWithCacheInfo carves a maze and reports whether it came from the
// cache. A zero seed picks a random one and bypasses the cache.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*maze.Snapshot, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, false, err
	}

	if opts.Seed == 0 {
		m, err := r.generate(ctx, opts, randomSeed())
		return m, false, err
	}

	cacheKey := r.Keyer.MazeKey(opts.MazeKeyOpts(opts.Seed))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			m, err := mazeio.ReadJSON(bytes.NewReader(data))
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "maze")
				return m, true, nil // Cache hit
			}
			opts.Logger.Warn("discarding unreadable cached maze", "key", cacheKey, "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "maze")
	}

	m, err := r.generate(ctx, opts, opts.Seed)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := mazeio.WriteJSON(m, &buf); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), cache.TTLMaze); err != nil {
			opts.Logger.Debug("cache write failed", "key", cacheKey, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "maze", buf.Len())
		}
	}

	return m, false, nil // Cache miss
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options) (*maze.Snapshot, error) {
	m, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return m, err
}

// generate runs the backtracker to completion, checking ctx between steps.
func (r *Runner) generate(ctx context.Context, opts Options, seed uint64) (*maze.Snapshot, error) {
	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.Width, opts.Height)
	start := time.Now()

	m, err := maze.New(opts.Width, opts.Height, maze.WithSeed(seed))
	if err != nil {
		hooks.OnGenerateComplete(ctx, opts.Width, opts.Height, 0, time.Since(start), err)
		return nil, err
	}

	for i := 0; ; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				hooks.OnGenerateComplete(ctx, opts.Width, opts.Height, m.Stats().Steps(), time.Since(start), err)
				return nil, err
			}
		}
		if m.Step() == maze.Done {
			break
		}
	}

	if opts.Verify {
		if err := m.Verify(); err != nil {
			hooks.OnGenerateComplete(ctx, opts.Width, opts.Height, m.Stats().Steps(), time.Since(start), err)
			return nil, err
		}
	}

	opts.Logger.Debug("carved maze",
		"seed", seed,
		"steps", m.Stats().Steps(),
		"backtracks", m.Stats().Backtracks,
		"max_stack", m.Stats().MaxStack)
	hooks.OnGenerateComplete(ctx, opts.Width, opts.Height, m.Stats().Steps(), time.Since(start), nil)
	return m.Snapshot(), nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// Artifacts are cached under mazeKey; an empty mazeKey disables caching.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, m *maze.Snapshot, mazeKey string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	if err := opts.ValidateImage(m.Width(), m.Height()); err != nil {
		return nil, false, err
	}

	// Try to get all formats from cache
	if mazeKey != "" && !opts.Refresh {
		artifacts := make(map[string][]byte)
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(mazeKey, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil // All artifacts from cache
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderArtifacts(ctx, m, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if mazeKey != "" {
		for format, data := range rendered {
			cacheKey := r.Keyer.ArtifactKey(mazeKey, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
				opts.Logger.Debug("cache write failed", "key", cacheKey, "error", err)
				continue
			}
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, m *maze.Snapshot, mazeKey string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, m, mazeKey, opts)
	return artifacts, err
}

// RenderSnapshot renders an imported maze. Its artifacts are cached under
// a key derived from the maze document, so re-rendering the same file with
// the same settings is a cache hit.
func (r *Runner) RenderSnapshot(ctx context.Context, m *maze.Snapshot, opts Options) (map[string][]byte, bool, error) {
	var buf bytes.Buffer
	if err := mazeio.WriteJSON(m, &buf); err != nil {
		return nil, false, fmt.Errorf("serialize maze for cache key: %w", err)
	}
	return r.RenderWithCacheInfo(ctx, m, "doc:"+cache.Hash(buf.Bytes()), opts)
}

// Close releases resources held by the runner.
func (r *Runner) Close(ctx context.Context) error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Archive != nil {
		if err := r.Archive.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// randomSeed returns a non-zero seed.
func randomSeed() uint64 {
	for {
		if s := rand.Uint64(); s != 0 {
			return s
		}
	}
}
