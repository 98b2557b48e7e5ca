// Package maze generates perfect mazes with a randomized depth-first
// backtracker.
//
// A perfect maze is a spanning tree over a rectangular grid of cells: every
// cell is reachable from every other cell along exactly one path. The
// generator carves passages by walking from the origin (0,0) to a random
// unvisited neighbor, and retreats along an explicit move stack when a cell
// has no unvisited neighbors left. The result has the long, winding
// corridors typical of backtracker mazes.
//
// # Data Model
//
//   - [BorderType]: state of one cell edge, [Wall] or [Passage]
//   - [Direction]: Left, Up, Right, Down; indexes a cell's borders
//   - [Position]: (row, column) coordinates
//   - [Cell]: four borders plus a visited flag
//   - [Maze]: owns the grid, the cursor, the move stack and the deepest marker
//
// # Deepest Marker
//
// While generating, the maze records the cell at which the move stack first
// reached each new peak depth. The marker only moves when the stack grows
// past its previous maximum, so it freezes while the generator backtracks.
// Renderers highlight it together with the origin.
//
// # Usage
//
//	m, err := maze.New(16, 16, maze.WithSeed(42))
//	if err != nil {
//	    return err
//	}
//	m.Generate()
//	fmt.Println(m.Deepest(), m.DeepestLen())
//
// A Maze is not safe for concurrent use. Once [Maze.Generate] returns, the
// maze is only read; [Maze.Snapshot] produces an immutable copy that can be
// shared across goroutines.
package maze
