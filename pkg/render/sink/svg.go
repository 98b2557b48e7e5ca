package sink

import (
	"bytes"
	"fmt"
	"image"

	"github.com/matzehuels/labyrinth/pkg/maze"
	"github.com/matzehuels/labyrinth/pkg/render"
)

// RenderSVG draws src as an SVG document with the same geometry and colors
// as [render.Render]: one unit per pixel, walls and accent pixels as rects.
func RenderSVG(src maze.View, resolution int, opts ...render.Option) ([]byte, error) {
	if err := render.Validate(src, resolution); err != nil {
		return nil, err
	}
	s := render.NewSettings(opts...)
	bg, wall, accent := s.Palette.Hex()
	size := render.Size(src, resolution)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" shape-rendering="crispEdges">`+"\n",
		size.X, size.Y, size.X, size.Y)
	fmt.Fprintf(&buf, `  <rect class="background" x="0" y="0" width="%d" height="%d" fill="%s"/>`+"\n", size.X, size.Y, bg)

	fmt.Fprintf(&buf, `  <g class="walls" fill="%s">`+"\n", wall)
	for _, r := range render.WallRects(src, resolution) {
		writeRect(&buf, r)
	}
	buf.WriteString("  </g>\n")

	if marks := s.Marks(src); len(marks) > 0 {
		fmt.Fprintf(&buf, `  <g class="accent" fill="%s">`+"\n", accent)
		pixels := render.AccentPixels(resolution)
		for _, p := range marks {
			corner := image.Pt(p.Col*resolution, p.Row*resolution)
			for _, px := range pixels {
				pt := corner.Add(px)
				writeRect(&buf, image.Rect(pt.X, pt.Y, pt.X+1, pt.Y+1))
			}
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func writeRect(buf *bytes.Buffer, r image.Rectangle) {
	fmt.Fprintf(buf, `    <rect x="%d" y="%d" width="%d" height="%d"/>`+"\n", r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}
