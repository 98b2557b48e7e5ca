package maze

import "fmt"

// Cell is a single grid unit. Borders is indexed by [Direction].
// Row and Col are for addressing only.
type Cell struct {
	Borders [4]BorderType
	Visited bool
	Row     int
	Col     int
}

// Border returns the state of side d.
func (c Cell) Border(d Direction) BorderType {
	return c.Borders[d]
}

// IsWall reports whether side d is a wall.
func (c Cell) IsWall(d Direction) bool {
	return c.Borders[d] == Wall
}

// Walls counts the walled sides of the cell.
func (c Cell) Walls() int {
	n := 0
	for _, b := range c.Borders {
		if b == Wall {
			n++
		}
	}
	return n
}

// Position returns the cell's coordinates.
func (c Cell) Position() Position {
	return Position{Row: c.Row, Col: c.Col}
}

// grid is a row-major width x height array of cells.
type grid struct {
	width  int
	height int
	cells  []Cell
}

// newGrid allocates a fully walled, unvisited grid. The origin starts visited.
// Dimensions must already be validated.
func newGrid(width, height int) *grid {
	g := &grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			c := &g.cells[row*width+col]
			c.Row = row
			c.Col = col
		}
	}
	g.cells[0].Visited = true
	return g
}

func (g *grid) inBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.height && p.Col >= 0 && p.Col < g.width
}

// at returns a pointer to the cell at p. Out-of-range access is a
// programming error and panics.
func (g *grid) at(p Position) *Cell {
	if !g.inBounds(p) {
		panic(fmt.Sprintf("maze: cell %s out of range for %dx%d grid", p, g.width, g.height))
	}
	return &g.cells[p.Row*g.width+p.Col]
}

// open turns the border between p and its neighbor in direction d into a
// passage on both sides.
func (g *grid) open(p Position, d Direction) Position {
	next := p.Step(d)
	g.at(p).Borders[d] = Passage
	g.at(next).Borders[d.Opposite()] = Passage
	return next
}
