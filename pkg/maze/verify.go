package maze

import "github.com/matzehuels/labyrinth/pkg/errors"

// Verify checks that a completed maze is a perfect maze: every cell visited,
// shared borders symmetric, outer borders walled, exactly Cells()-1 passages,
// every cell reachable from the origin, and the deepest marker on a visited
// cell. Violations are reported as INTERNAL_ERROR.
func (m *Maze) Verify() error {
	return verifyGrid(m.grid, m.deepest)
}

func verifyGrid(g *grid, deepest Position) error {
	for i := range g.cells {
		c := &g.cells[i]
		p := c.Position()
		if !c.Visited {
			return errors.New(errors.ErrCodeInternal, "cell %s was never visited", p)
		}
		for _, d := range Directions {
			next := p.Step(d)
			if !g.inBounds(next) {
				if c.Borders[d] != Wall {
					return errors.New(errors.ErrCodeInternal, "cell %s has an open %s border on the maze edge", p, d)
				}
				continue
			}
			if c.Borders[d] != g.at(next).Borders[d.Opposite()] {
				return errors.New(errors.ErrCodeInternal, "border between %s and %s is asymmetric", p, next)
			}
		}
	}

	if want, got := len(g.cells)-1, countPassages(g); got != want {
		return errors.New(errors.ErrCodeInternal, "maze has %d passages, want %d", got, want)
	}
	if reached := reachable(g); reached != len(g.cells) {
		return errors.New(errors.ErrCodeInternal, "only %d of %d cells reachable from the origin", reached, len(g.cells))
	}
	if !g.inBounds(deepest) {
		return errors.New(errors.ErrCodeInternal, "deepest marker %s out of bounds", deepest)
	}
	if !g.at(deepest).Visited {
		return errors.New(errors.ErrCodeInternal, "deepest marker %s on an unvisited cell", deepest)
	}
	return nil
}

// reachable counts cells connected to the origin through passages.
func reachable(g *grid) int {
	seen := make([]bool, len(g.cells))
	seen[0] = true
	stack := []Position{{}}
	count := 1
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		c := g.at(p)
		for _, d := range Directions {
			if c.Borders[d] != Passage {
				continue
			}
			next := p.Step(d)
			if !g.inBounds(next) {
				continue
			}
			idx := next.Row*g.width + next.Col
			if seen[idx] {
				continue
			}
			seen[idx] = true
			count++
			stack = append(stack, next)
		}
	}
	return count
}
