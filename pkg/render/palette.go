package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/labyrinth/pkg/errors"
)

// Default colors.
var (
	DefaultBackground = color.RGBA{R: 0xf8, G: 0xf8, B: 0xf8, A: 0xff}
	DefaultWall       = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	DefaultAccent     = color.RGBA{R: 0xfc, G: 0x03, B: 0x5e, A: 0xff}
)

// Palette holds the three colors a maze is drawn with.
type Palette struct {
	Background color.RGBA
	Wall       color.RGBA
	Accent     color.RGBA
}

// DefaultPalette returns light grey walls on an off-white background with a
// pink accent.
func DefaultPalette() Palette {
	return Palette{
		Background: DefaultBackground,
		Wall:       DefaultWall,
		Accent:     DefaultAccent,
	}
}

// ParsePalette builds a palette from hex strings such as "#f8f8f8" or
// "#fff". Empty strings keep the default for that slot.
func ParsePalette(background, wall, accent string) (Palette, error) {
	p := DefaultPalette()
	for _, slot := range []struct {
		name string
		hex  string
		dst  *color.RGBA
	}{
		{"background", background, &p.Background},
		{"wall", wall, &p.Wall},
		{"accent", accent, &p.Accent},
	} {
		if slot.hex == "" {
			continue
		}
		c, err := ParseColor(slot.hex)
		if err != nil {
			return Palette{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "%s color", slot.name)
		}
		*slot.dst = c
	}
	return p, nil
}

// ParseColor parses a "#rrggbb" or "#rgb" hex color.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidColor, "invalid hex color %q", hex)
	}
	return toRGBA(c), nil
}

// Hex returns the palette as three "#rrggbb" strings.
func (p Palette) Hex() (background, wall, accent string) {
	return HexString(p.Background), HexString(p.Wall), HexString(p.Accent)
}

// HexString formats c as "#rrggbb". Fully transparent colors format as
// "none".
func HexString(c color.Color) string {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return "none"
	}
	return cc.Clamped().Hex()
}

func toRGBA(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}
