package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/maze"
)

func generated(t *testing.T, w, h int, seed uint64) *maze.Maze {
	t.Helper()
	m, err := maze.New(w, h, maze.WithSeed(seed))
	require.NoError(t, err)
	m.Generate()
	return m
}

func TestRenderInvalidResolution(t *testing.T) {
	m := generated(t, 2, 2, 1)
	for _, res := range []int{-1, 0, 1} {
		img, err := Render(m, res)
		require.Error(t, err, "resolution %d", res)
		assert.Nil(t, img)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidResolution))
	}
}

func TestRenderOverflowingResolution(t *testing.T) {
	m := generated(t, 2, 1, 1)
	for _, res := range []int{1 << 62, 1 << 31} {
		var img *image.RGBA
		var err error
		require.NotPanics(t, func() { img, err = Render(m, res) }, "resolution %d", res)
		require.Error(t, err, "resolution %d", res)
		assert.Nil(t, img)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidResolution), "resolution %d: %v", res, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, 8, 4))
	err := Draw(dst, m, 1<<62)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidResolution))
}

func TestRenderSize(t *testing.T) {
	m := generated(t, 7, 3, 1)
	img, err := Render(m, 5)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 35, 15), img.Bounds())
}

func TestRenderOneByOne(t *testing.T) {
	m := generated(t, 1, 1, 1)
	img, err := Render(m, 4)
	require.NoError(t, err)

	// Every edge pixel is wall.
	for i := 0; i < 4; i++ {
		assert.Equal(t, DefaultWall, img.RGBAAt(i, 0), "top %d", i)
		assert.Equal(t, DefaultWall, img.RGBAAt(i, 3), "bottom %d", i)
		assert.Equal(t, DefaultWall, img.RGBAAt(0, i), "left %d", i)
		assert.Equal(t, DefaultWall, img.RGBAAt(3, i), "right %d", i)
	}

	// Interior: (r+c) = 2 stays background, 3 and 4 are accent.
	assert.Equal(t, DefaultBackground, img.RGBAAt(1, 1))
	assert.Equal(t, DefaultAccent, img.RGBAAt(2, 1))
	assert.Equal(t, DefaultAccent, img.RGBAAt(1, 2))
	assert.Equal(t, DefaultAccent, img.RGBAAt(2, 2))
}

func TestRenderTwoByOne(t *testing.T) {
	m := generated(t, 2, 1, 1)
	img, err := Render(m, 4)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())

	for x := 0; x < 8; x++ {
		assert.Equal(t, DefaultWall, img.RGBAAt(x, 0), "top x=%d", x)
		assert.Equal(t, DefaultWall, img.RGBAAt(x, 3), "bottom x=%d", x)
	}
	for y := 0; y < 4; y++ {
		assert.Equal(t, DefaultWall, img.RGBAAt(0, y), "left y=%d", y)
		assert.Equal(t, DefaultWall, img.RGBAAt(7, y), "right y=%d", y)
	}

	// No wall along the shared boundary between the two cells.
	for y := 1; y <= 2; y++ {
		assert.Equal(t, DefaultBackground, img.RGBAAt(3, y), "x=3 y=%d", y)
		assert.Equal(t, DefaultBackground, img.RGBAAt(4, y), "x=4 y=%d", y)
	}

	// Origin and deepest cell both carry the overlay.
	assert.Equal(t, DefaultAccent, img.RGBAAt(2, 2))
	assert.Equal(t, DefaultAccent, img.RGBAAt(6, 2))
}

func TestRenderDeterministic(t *testing.T) {
	m := generated(t, 9, 6, 42)
	before := m.String()

	a, err := Render(m, 6)
	require.NoError(t, err)
	b, err := Render(m, 6)
	require.NoError(t, err)

	assert.Equal(t, a.Pix, b.Pix)
	assert.Equal(t, before, m.String(), "rendering must not mutate the maze")
	require.NoError(t, m.Verify())
}

func TestRenderSnapshotMatchesMaze(t *testing.T) {
	m := generated(t, 5, 5, 8)
	fromMaze, err := Render(m, 4)
	require.NoError(t, err)
	fromSnap, err := Render(m.Snapshot(), 4)
	require.NoError(t, err)
	assert.Equal(t, fromMaze.Pix, fromSnap.Pix)
}

func TestRenderWithoutMarks(t *testing.T) {
	m := generated(t, 4, 4, 3)
	img, err := Render(m, 6, WithoutOriginMark(), WithoutDeepestMark())
	require.NoError(t, err)

	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			require.NotEqual(t, DefaultAccent, img.RGBAAt(x, y), "accent at (%d,%d)", x, y)
		}
	}
}

func TestRenderOnlyDeepestMark(t *testing.T) {
	m := generated(t, 2, 1, 1)
	img, err := Render(m, 4, WithoutOriginMark())
	require.NoError(t, err)
	assert.Equal(t, DefaultBackground, img.RGBAAt(2, 2), "origin overlay disabled")
	assert.Equal(t, DefaultAccent, img.RGBAAt(6, 2))
}

func TestRenderPalette(t *testing.T) {
	m := generated(t, 1, 1, 1)
	black := color.RGBA{A: 0xff}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	img, err := Render(m, 4, WithWall(black), WithBackground(white))
	require.NoError(t, err)
	assert.Equal(t, black, img.RGBAAt(0, 0))
	assert.Equal(t, white, img.RGBAAt(1, 1))
	assert.Equal(t, DefaultAccent, img.RGBAAt(2, 2))
}

func TestDrawOffsetDestination(t *testing.T) {
	m := generated(t, 2, 1, 1)
	dst := image.NewRGBA(image.Rect(10, 20, 30, 30))
	require.NoError(t, Draw(dst, m, 4))

	assert.Equal(t, DefaultWall, dst.RGBAAt(10, 20))
	assert.Equal(t, DefaultAccent, dst.RGBAAt(12, 22))
	// Outside the maze area is untouched.
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(25, 25))
}

func TestDrawTooSmall(t *testing.T) {
	m := generated(t, 3, 3, 1)
	dst := image.NewRGBA(image.Rect(0, 0, 8, 9))
	err := Draw(dst, m, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestAccentPixels(t *testing.T) {
	tests := []struct {
		resolution int
		want       int
	}{
		{2, 0},
		{3, 0}, // single interior pixel with r+c=2
		{4, 3},
		{6, 8},
	}
	for _, tt := range tests {
		got := AccentPixels(tt.resolution)
		assert.Len(t, got, tt.want, "resolution %d", tt.resolution)
		for _, p := range got {
			assert.True(t, p.X >= 1 && p.X <= tt.resolution-2)
			assert.True(t, p.Y >= 1 && p.Y <= tt.resolution-2)
		}
	}
}

func TestSettingsMarks(t *testing.T) {
	single := generated(t, 1, 1, 1)
	assert.Equal(t, []maze.Position{{}}, NewSettings().Marks(single))

	pair := generated(t, 2, 1, 1)
	assert.Equal(t, []maze.Position{{Row: 0, Col: 1}, {}}, NewSettings().Marks(pair))
	assert.Empty(t, NewSettings(WithoutOriginMark(), WithoutDeepestMark()).Marks(pair))
}

func TestParsePalette(t *testing.T) {
	p, err := ParsePalette("", "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultPalette(), p)

	p, err = ParsePalette("#ffffff", "#000", "")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, p.Background)
	assert.Equal(t, color.RGBA{A: 0xff}, p.Wall)
	assert.Equal(t, DefaultAccent, p.Accent)

	bg, wall, accent := DefaultPalette().Hex()
	assert.Equal(t, "#f8f8f8", bg)
	assert.Equal(t, "#808080", wall)
	assert.Equal(t, "#fc035e", accent)

	_, err = ParsePalette("", "nope", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidColor))
}
