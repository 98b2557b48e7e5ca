package sink

import "github.com/matzehuels/labyrinth/pkg/maze"

// RenderText draws src as ASCII art. See [maze.Text].
func RenderText(src maze.View) []byte {
	return []byte(maze.Text(src))
}
