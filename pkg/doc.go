// Package pkg provides the core libraries for Labyrinth maze generation.
//
// # Overview
//
// Labyrinth carves perfect mazes (every cell reachable, exactly one path
// between any two cells) with a randomized depth-first backtracker, and
// renders them with the cell where the carving path reached its greatest
// depth highlighted next to the origin. The pkg directory is organized into
// three areas:
//
//  1. Domain logic: [maze] (generation) and [render] (rasterization)
//  2. Formats: [render/sink] (PNG, SVG, text, DOT) and [io] (JSON documents)
//  3. Infrastructure: [pipeline], [cache], [archive], [observability], [errors]
//
// # Architecture
//
// The typical data flow through Labyrinth:
//
//	width, height, seed
//	         ↓
//	    [maze] package (carve passages, track the deepest cell)
//	         ↓
//	    [maze.Snapshot] (immutable, safe to share)
//	         ↓
//	    [render] + [render/sink] packages (image, SVG, text, DOT)
//	         ↓
//	    PNG/JPEG/GIF/BMP/TIFF/SVG/TXT/JSON output
//
// # Quick Start
//
// Generate a maze and write it as a PNG:
//
//	import (
//	    "github.com/matzehuels/labyrinth/pkg/maze"
//	    "github.com/matzehuels/labyrinth/pkg/render"
//	    "github.com/matzehuels/labyrinth/pkg/render/sink"
//	)
//
//	// 1. Carve the maze
//	m, _ := maze.New(20, 12, maze.WithSeed(42))
//	m.Generate()
//
//	// 2. Rasterize it at 16 pixels per cell
//	img, _ := render.Render(m, 16)
//
//	// 3. Encode
//	png, _ := sink.RasterBytes(img, "png")
//
// # Main Packages
//
// [maze] - The grid of cells and the backtracker. [maze.Maze.Step] advances
// one move at a time so callers can animate or cancel generation;
// [maze.Maze.Generate] runs to completion. [maze.Maze.Verify] checks that the
// result is a perfect maze.
//
// [render] - Rasterization: walls as one-pixel lines, and a striped accent
// overlay on the deepest cell and the origin. [render.Palette] holds the
// three colors.
//
// [render/sink] - Output formats built on the same geometry: encoded
// rasters, SVG, ASCII text, and a Graphviz diagram of the spanning tree.
//
// [io] - JSON documents for exporting a maze and importing it again for
// re-rendering.
//
// ## Infrastructure
//
// [pipeline] - Complete generate → render pipeline used by the CLI and the
// HTTP server. Ensures consistent behavior across both entry points.
//
// [cache] - Content-addressed caching of mazes and artifacts, with file,
// Redis and no-op backends.
//
// [archive] - History of generation runs in memory or MongoDB.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Coded errors and input validation shared by every package.
//
// # Common Workflows
//
// Step through generation:
//
//	m := maze.MustNew(8, 8, maze.WithSeed(7))
//	for m.Step() != maze.Done {
//	    fmt.Println(m.Current(), m.StackDepth())
//	}
//
// Re-render an exported maze:
//
//	s, _ := io.ImportJSON("maze-42.json")
//	svg, _ := sink.RenderSVG(s, 24, render.WithAccent(color.RGBA{0, 170, 136, 255}))
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/maze/...               # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [maze]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/maze
// [maze.Snapshot]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/maze#Snapshot
// [maze.Maze.Step]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/maze#Maze.Step
// [maze.Maze.Generate]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/maze#Maze.Generate
// [maze.Maze.Verify]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/maze#Maze.Verify
// [render]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/render
// [render.Palette]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/render#Palette
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/render/sink
// [io]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/cache
// [archive]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/archive
// [observability]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/labyrinth/pkg/errors
package pkg
