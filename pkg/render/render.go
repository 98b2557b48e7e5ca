package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/maze"
)

// Option configures rendering.
type Option func(*Settings)

// Settings is the resolved set of rendering options. Raster and vector
// sinks share it so both draw the same picture.
type Settings struct {
	Palette     Palette
	MarkOrigin  bool
	MarkDeepest bool
}

func WithPalette(p Palette) Option { return func(s *Settings) { s.Palette = p } }
func WithBackground(c color.Color) Option {
	return func(s *Settings) { s.Palette.Background = toRGBA(c) }
}
func WithWall(c color.Color) Option   { return func(s *Settings) { s.Palette.Wall = toRGBA(c) } }
func WithAccent(c color.Color) Option { return func(s *Settings) { s.Palette.Accent = toRGBA(c) } }
func WithoutOriginMark() Option       { return func(s *Settings) { s.MarkOrigin = false } }
func WithoutDeepestMark() Option      { return func(s *Settings) { s.MarkDeepest = false } }

// NewSettings applies opts over the defaults: the default palette with both
// marks enabled.
func NewSettings(opts ...Option) Settings {
	s := Settings{Palette: DefaultPalette(), MarkOrigin: true, MarkDeepest: true}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Marks returns the cells that receive the accent overlay, deepest first.
// A cell is listed once even when it is both origin and deepest.
func (s Settings) Marks(src maze.View) []maze.Position {
	var marks []maze.Position
	if s.MarkDeepest {
		marks = append(marks, src.Deepest())
	}
	if s.MarkOrigin && (len(marks) == 0 || marks[0] != (maze.Position{})) {
		marks = append(marks, maze.Position{})
	}
	return marks
}

// Size returns the pixel dimensions of src drawn at resolution. It does not
// guard against overflow; [Validate] does.
func Size(src maze.View, resolution int) image.Point {
	return image.Pt(src.Width()*resolution, src.Height()*resolution)
}

// Validate checks that src can be drawn at resolution: the resolution leaves
// room for walls and an accent, and the pixel size fits an RGBA image.
func Validate(src maze.View, resolution int) error {
	if err := errors.ValidateResolution(resolution); err != nil {
		return err
	}
	return errors.ValidateImageSize(src.Width(), src.Height(), resolution)
}

// Render rasterizes src into a new image of width*resolution by
// height*resolution pixels. Pixel x runs along columns, y along rows.
func Render(src maze.View, resolution int, opts ...Option) (*image.RGBA, error) {
	if err := Validate(src, resolution); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rectangle{Max: Size(src, resolution)})
	if err := Draw(img, src, resolution, opts...); err != nil {
		return nil, err
	}
	return img, nil
}

// Draw paints src onto dst starting at dst.Bounds().Min. dst must be at
// least as large as [Size]. The maze is only read.
func Draw(dst draw.Image, src maze.View, resolution int, opts ...Option) error {
	if err := Validate(src, resolution); err != nil {
		return err
	}
	size := Size(src, resolution)
	b := dst.Bounds()
	if b.Dx() < size.X || b.Dy() < size.Y {
		return errors.New(errors.ErrCodeInvalidInput,
			"destination is %dx%d pixels, need at least %dx%d", b.Dx(), b.Dy(), size.X, size.Y)
	}
	s := NewSettings(opts...)
	origin := b.Min

	fill(dst, image.Rectangle{Min: origin, Max: origin.Add(size)}, s.Palette.Background)

	wall := image.NewUniform(s.Palette.Wall)
	for _, r := range WallRects(src, resolution) {
		draw.Draw(dst, r.Add(origin), wall, image.Point{}, draw.Src)
	}

	for _, p := range s.Marks(src) {
		corner := origin.Add(image.Pt(p.Col*resolution, p.Row*resolution))
		for _, px := range AccentPixels(resolution) {
			pt := corner.Add(px)
			dst.Set(pt.X, pt.Y, s.Palette.Accent)
		}
	}
	return nil
}

// WallRects returns one rectangle per walled side of every cell, in pixel
// space with the maze's top-left corner at (0,0). Each rectangle is a full
// resolution-long line one pixel thick along the edge of the cell block.
// Shared walls appear once per side.
func WallRects(src maze.View, resolution int) []image.Rectangle {
	var rects []image.Rectangle
	last := resolution - 1
	for row := 0; row < src.Height(); row++ {
		for col := 0; col < src.Width(); col++ {
			c := src.Cell(row, col)
			x0, y0 := col*resolution, row*resolution
			for _, d := range maze.Directions {
				if !c.IsWall(d) {
					continue
				}
				var r image.Rectangle
				switch d {
				case maze.Up:
					r = image.Rect(x0, y0, x0+resolution, y0+1)
				case maze.Down:
					r = image.Rect(x0, y0+last, x0+resolution, y0+resolution)
				case maze.Left:
					r = image.Rect(x0, y0, x0+1, y0+resolution)
				case maze.Right:
					r = image.Rect(x0+last, y0, x0+resolution, y0+resolution)
				}
				rects = append(rects, r)
			}
		}
	}
	return rects
}

// AccentPixels returns the offsets, relative to a cell block's top-left
// corner, that the accent overlay colors: interior pixels (r, c) in
// [1, resolution-2] where (r+c)%4 is 0 or 3. The result is a diagonal
// stripe pattern. Resolutions below 3 have no interior and yield nothing.
func AccentPixels(resolution int) []image.Point {
	var pts []image.Point
	for r := 1; r <= resolution-2; r++ {
		for c := 1; c <= resolution-2; c++ {
			if (r+c)%4 == 0 || (r+c+1)%4 == 0 {
				pts = append(pts, image.Pt(c, r))
			}
		}
	}
	return pts
}

func fill(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}
