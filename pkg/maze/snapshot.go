package maze

import (
	"slices"

	"github.com/matzehuels/labyrinth/pkg/errors"
)

// Snapshot is an immutable copy of a maze's cells and deepest marker.
// It is safe for concurrent use and satisfies the same read interface as
// *Maze, so renderers and sinks accept either.
type Snapshot struct {
	grid       *grid
	deepest    Position
	deepestLen int
	seed       uint64
	stats      Stats
}

// Snapshot copies the maze's current state.
func (m *Maze) Snapshot() *Snapshot {
	return &Snapshot{
		grid: &grid{
			width:  m.grid.width,
			height: m.grid.height,
			cells:  slices.Clone(m.grid.cells),
		},
		deepest:    m.deepest,
		deepestLen: m.deepestLen,
		seed:       m.seed,
		stats:      m.stats,
	}
}

// SnapshotParams describes a maze restored from storage.
type SnapshotParams struct {
	Width      int
	Height     int
	Cells      []Cell // row-major, len Width*Height
	Deepest    Position
	DeepestLen int
	Seed       uint64
	Stats      Stats
}

// NewSnapshot rebuilds a completed maze from stored cells. Coordinates are
// taken from the cell's index and every cell is treated as visited. The
// result must pass the same checks as [Maze.Verify].
func NewSnapshot(p SnapshotParams) (*Snapshot, error) {
	if err := errors.ValidateDimensions(p.Width, p.Height); err != nil {
		return nil, err
	}
	if len(p.Cells) != p.Width*p.Height {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "expected %d cells, got %d", p.Width*p.Height, len(p.Cells))
	}
	g := &grid{width: p.Width, height: p.Height, cells: slices.Clone(p.Cells)}
	for i := range g.cells {
		g.cells[i].Row = i / p.Width
		g.cells[i].Col = i % p.Width
		g.cells[i].Visited = true
	}
	if err := verifyGrid(g, p.Deepest); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "stored maze is not a perfect maze")
	}
	return &Snapshot{
		grid:       g,
		deepest:    p.Deepest,
		deepestLen: p.DeepestLen,
		seed:       p.Seed,
		stats:      p.Stats,
	}, nil
}

// Width returns the number of columns.
func (s *Snapshot) Width() int { return s.grid.width }

// Height returns the number of rows.
func (s *Snapshot) Height() int { return s.grid.height }

// Cell returns a copy of the cell at (row, col). Out-of-range access panics.
func (s *Snapshot) Cell(row, col int) Cell {
	return *s.grid.at(Position{Row: row, Col: col})
}

// Deepest returns the deepest marker.
func (s *Snapshot) Deepest() Position { return s.deepest }

// DeepestLen returns the move-stack depth of the deepest marker.
func (s *Snapshot) DeepestLen() int { return s.deepestLen }

// Seed returns the seed the maze was generated from, if known.
func (s *Snapshot) Seed() uint64 { return s.seed }

// Stats returns the generator counters recorded with the maze.
func (s *Snapshot) Stats() Stats { return s.stats }

// Passages counts open borders between adjacent cells.
func (s *Snapshot) Passages() int { return countPassages(s.grid) }
