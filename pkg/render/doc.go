// Package render rasterizes a generated maze.
//
// # Overview
//
// Every cell becomes a resolution x resolution block of pixels. The picture
// is built in three passes over a [maze.View]:
//
//  1. The whole area is filled with the background color.
//  2. Each walled side of each cell is painted as a one-pixel line along
//     the matching edge of its block. Passages are left unpainted, so two
//     open neighbors read as one corridor.
//  3. The accent overlay, a diagonal stripe pattern on the block's interior,
//     is applied to the deepest cell and to the origin.
//
// The overlay runs last, after all walls are known, and never touches the
// block's outer ring of pixels, so walls stay visible underneath it.
//
// # Options
//
// [Render] and [Draw] take the same functional options. [WithPalette] or the
// per-color options change the colors; [WithoutOriginMark] and
// [WithoutDeepestMark] drop either overlay.
//
//	img, err := render.Render(m, 8)
//	img, err := render.Render(m, 8, render.WithoutOriginMark())
//
// Colors are usually read from configuration with [ParsePalette]:
//
//	p, err := render.ParsePalette("#ffffff", "#000000", "")
//
// # Geometry
//
// [WallRects] and [AccentPixels] expose the geometry of the raster so the
// vector sinks in [sink] produce exactly the same picture.
//
// Rendering only reads the maze. It is not safe to render a [maze.Maze]
// while another goroutine is generating it; render a [maze.Snapshot]
// instead.
//
// [sink]: github.com/matzehuels/labyrinth/pkg/render/sink
package render
