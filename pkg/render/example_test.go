package render_test

import (
	"fmt"

	"github.com/matzehuels/labyrinth/pkg/maze"
	"github.com/matzehuels/labyrinth/pkg/render"
)

func Example() {
	m := maze.MustNew(4, 3, maze.WithSeed(7))
	m.Generate()

	img, err := render.Render(m, 10)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(img.Bounds().Dx(), img.Bounds().Dy())
	// Output:
	// 40 30
}

func ExampleParsePalette() {
	p, err := render.ParsePalette("#ffffff", "#222222", "")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(p.Hex())
	// Output:
	// #ffffff #222222 #fc035e
}
