package maze

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/matzehuels/labyrinth/pkg/errors"
)

// Source picks an index in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns the PCG stream used for a given seed. Two mazes built
// from the same seed and dimensions are identical.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Option configures a Maze.
type Option func(*Maze)

// WithSeed seeds the generator's random source.
func WithSeed(seed uint64) Option {
	return func(m *Maze) {
		m.rng = NewSource(seed)
		m.seed = seed
	}
}

// WithSource replaces the random source. The maze's Seed is reported as 0.
func WithSource(src Source) Option {
	return func(m *Maze) {
		m.rng = src
		m.seed = 0
	}
}

// Phase is the generator state after one step.
type Phase uint8

const (
	// Advancing means the last step carved a passage to a new cell.
	Advancing Phase = iota
	// Backtracking means the last step retreated along the move stack.
	Backtracking
	// Done means every cell has been visited.
	Done
)

func (p Phase) String() string {
	switch p {
	case Advancing:
		return "advancing"
	case Backtracking:
		return "backtracking"
	case Done:
		return "done"
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// Stats counts generator activity.
type Stats struct {
	Advances   int `json:"advances"`
	Backtracks int `json:"backtracks"`
	MaxStack   int `json:"max_stack"`
}

// Steps is the total number of generator iterations.
func (s Stats) Steps() int {
	return s.Advances + s.Backtracks
}

// Maze owns a grid and the generator state that carves it.
type Maze struct {
	grid *grid

	current    Position
	moves      []Position
	visited    int
	deepest    Position
	deepestLen int

	rng   Source
	seed  uint64
	stats Stats
}

// New creates an ungenerated maze of width x height cells. Dimensions below
// 1 are refused with an INVALID_DIMENSIONS error and no grid is built.
func New(width, height int, opts ...Option) (*Maze, error) {
	if err := errors.ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	m := &Maze{
		grid:       newGrid(width, height),
		moves:      make([]Position, 1, width*height),
		visited:    1,
		deepestLen: 1,
		stats:      Stats{MaxStack: 1},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		WithSeed(uint64(time.Now().UnixNano()))(m)
	}
	return m, nil
}

// MustNew is like New but panics on invalid dimensions.
func MustNew(width, height int, opts ...Option) *Maze {
	m, err := New(width, height, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Generate runs the backtracker to completion.
func (m *Maze) Generate() {
	for m.Step() != Done {
	}
}

// Step performs one generator iteration and reports which state it was in.
// Once the maze is complete Step does nothing and returns Done.
func (m *Maze) Step() Phase {
	if m.Done() {
		return Done
	}

	var candidates [4]Direction
	n := m.candidates(&candidates)
	if n == 0 {
		m.backtrack()
		return Backtracking
	}

	d := candidates[0]
	if n > 1 {
		d = candidates[m.rng.IntN(n)]
	}
	m.advance(d)
	return Advancing
}

// candidates fills dst with the directions leading from the cursor to an
// in-bounds, unvisited neighbor and returns how many there are.
func (m *Maze) candidates(dst *[4]Direction) int {
	n := 0
	for _, d := range Directions {
		next := m.current.Step(d)
		if m.grid.inBounds(next) && !m.grid.at(next).Visited {
			dst[n] = d
			n++
		}
	}
	return n
}

func (m *Maze) advance(d Direction) {
	next := m.grid.open(m.current, d)
	m.grid.at(next).Visited = true
	m.visited++
	m.moves = append(m.moves, next)
	m.current = next

	if len(m.moves) > m.deepestLen {
		m.deepest = next
		m.deepestLen++
	}

	m.stats.Advances++
	m.stats.MaxStack = max(m.stats.MaxStack, len(m.moves))
}

// backtrack pops the top of the move stack and moves the cursor to the
// popped cell. Right after an advance the top is the cursor itself, so a
// dead end costs one extra pop before the cursor actually retreats.
func (m *Maze) backtrack() {
	if len(m.moves) == 0 {
		panic(fmt.Sprintf("maze: move stack exhausted with %d of %d cells visited", m.visited, m.Cells()))
	}
	top := m.moves[len(m.moves)-1]
	m.moves = m.moves[:len(m.moves)-1]
	m.current = top
	m.stats.Backtracks++
}

// Width returns the number of columns.
func (m *Maze) Width() int { return m.grid.width }

// Height returns the number of rows.
func (m *Maze) Height() int { return m.grid.height }

// Cells returns width*height.
func (m *Maze) Cells() int { return len(m.grid.cells) }

// Cell returns a copy of the cell at (row, col). Out-of-range access panics.
func (m *Maze) Cell(row, col int) Cell {
	return *m.grid.at(Position{Row: row, Col: col})
}

// InBounds reports whether p addresses a cell of this maze.
func (m *Maze) InBounds(p Position) bool { return m.grid.inBounds(p) }

// Current returns the generator's cursor.
func (m *Maze) Current() Position { return m.current }

// Deepest returns the cell recorded at the highest move-stack peak.
func (m *Maze) Deepest() Position { return m.deepest }

// DeepestLen returns the move-stack depth at which Deepest was recorded.
func (m *Maze) DeepestLen() int { return m.deepestLen }

// VisitedCount returns how many cells have been visited.
func (m *Maze) VisitedCount() int { return m.visited }

// StackDepth returns the current length of the move stack.
func (m *Maze) StackDepth() int { return len(m.moves) }

// Done reports whether every cell has been visited.
func (m *Maze) Done() bool { return m.visited == len(m.grid.cells) }

// Seed returns the seed passed to WithSeed, or the time-derived seed when no
// source was configured. It is 0 for mazes built WithSource.
func (m *Maze) Seed() uint64 { return m.seed }

// Stats returns generator counters.
func (m *Maze) Stats() Stats { return m.stats }

// Passages counts open borders between adjacent cells. A completed perfect
// maze has exactly Cells()-1.
func (m *Maze) Passages() int {
	return countPassages(m.grid)
}

func countPassages(g *grid) int {
	n := 0
	for i := range g.cells {
		c := &g.cells[i]
		// Right and Down cover every shared border exactly once.
		if c.Borders[Right] == Passage && c.Col+1 < g.width {
			n++
		}
		if c.Borders[Down] == Passage && c.Row+1 < g.height {
			n++
		}
	}
	return n
}
