// Package sink encodes mazes into output formats.
//
// Raster formats go through [render.Render] and then [EncodeRaster], which
// uses disintegration/imaging for PNG, JPEG, GIF, BMP and TIFF and for the
// optional integer upscaling:
//
//	img, _ := render.Render(m, 8)
//	data, err := sink.RasterBytes(img, "png", sink.WithScale(4))
//
// [RenderSVG] emits the same picture as vector rects. [RenderText] is an
// ASCII drawing. [ToDOT] and [RenderTreeSVG] show the maze as the spanning
// tree it is, rooted at the origin and ranked by path distance, laid out by
// Graphviz.
//
// [render.Render]: github.com/matzehuels/labyrinth/pkg/render.Render
package sink
