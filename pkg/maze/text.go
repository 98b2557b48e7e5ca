package maze

import "strings"

// View is read access to a completed maze. *Maze and *Snapshot satisfy it.
type View interface {
	Width() int
	Height() int
	Cell(row, col int) Cell
	Deepest() Position
}

var _ View = (*Maze)(nil)
var _ View = (*Snapshot)(nil)

// Text draws v with ASCII box characters, three columns per cell. The
// origin is marked "o" and the deepest cell "*" (the deepest wins when both
// are the same cell).
//
//	+---+---+
//	| o     |
//	+---+   +
//	| *     |
//	+---+---+
func Text(v View) string {
	var b strings.Builder
	w, h := v.Width(), v.Height()
	deepest := v.Deepest()

	b.WriteString("+")
	for col := 0; col < w; col++ {
		if v.Cell(0, col).IsWall(Up) {
			b.WriteString("---+")
		} else {
			b.WriteString("   +")
		}
	}
	b.WriteString("\n")

	for row := 0; row < h; row++ {
		if v.Cell(row, 0).IsWall(Left) {
			b.WriteString("|")
		} else {
			b.WriteString(" ")
		}
		for col := 0; col < w; col++ {
			c := v.Cell(row, col)
			switch {
			case row == deepest.Row && col == deepest.Col:
				b.WriteString(" * ")
			case row == 0 && col == 0:
				b.WriteString(" o ")
			default:
				b.WriteString("   ")
			}
			if c.IsWall(Right) {
				b.WriteString("|")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n+")
		for col := 0; col < w; col++ {
			if v.Cell(row, col).IsWall(Down) {
				b.WriteString("---+")
			} else {
				b.WriteString("   +")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// String draws the maze in its current state with [Text].
func (m *Maze) String() string {
	return Text(m)
}
