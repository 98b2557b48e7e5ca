package maze

import "fmt"

// BorderType is the state of one edge of a cell.
type BorderType uint8

const (
	// Wall blocks movement and is drawn. It is the zero value.
	Wall BorderType = iota
	// Passage permits movement and is not drawn.
	Passage
)

func (b BorderType) String() string {
	switch b {
	case Wall:
		return "wall"
	case Passage:
		return "passage"
	}
	return fmt.Sprintf("BorderType(%d)", uint8(b))
}

// Direction names one side of a cell and the move across it.
type Direction uint8

const (
	Left Direction = iota
	Up
	Right
	Down
)

// Directions lists every direction in candidate order.
var Directions = [4]Direction{Left, Up, Right, Down}

var directionDeltas = [4]Position{
	Left:  {Row: 0, Col: -1},
	Up:    {Row: -1, Col: 0},
	Right: {Row: 0, Col: 1},
	Down:  {Row: 1, Col: 0},
}

// Opposite returns the side a neighbor shares with a cell across d.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Delta returns the row and column offset of a step in direction d.
func (d Direction) Delta() Position {
	return directionDeltas[d]
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Position addresses a cell by row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Step returns the position one cell away in direction d.
// The result may be out of bounds.
func (p Position) Step(d Direction) Position {
	delta := d.Delta()
	return Position{Row: p.Row + delta.Row, Col: p.Col + delta.Col}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}
