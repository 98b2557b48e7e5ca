package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/labyrinth/pkg/maze"
	"github.com/matzehuels/labyrinth/pkg/render"
)

// TreeEdge is a passage seen as a parent-child link of the spanning tree
// rooted at the origin.
type TreeEdge struct {
	Parent maze.Position
	Child  maze.Position
}

// Tree walks the passages of src breadth-first from the origin and returns
// each cell's link to its parent, plus every cell's distance from the
// origin in row-major order. A perfect maze yields Width*Height-1 edges.
func Tree(src maze.View) ([]TreeEdge, []int) {
	w, h := src.Width(), src.Height()
	dist := make([]int, w*h)
	for i := range dist {
		dist[i] = -1
	}
	dist[0] = 0

	var edges []TreeEdge
	queue := []maze.Position{{}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		c := src.Cell(p.Row, p.Col)
		for _, d := range maze.Directions {
			if c.IsWall(d) {
				continue
			}
			next := p.Step(d)
			if next.Row < 0 || next.Row >= h || next.Col < 0 || next.Col >= w {
				continue
			}
			idx := next.Row*w + next.Col
			if dist[idx] >= 0 {
				continue
			}
			dist[idx] = dist[p.Row*w+p.Col] + 1
			edges = append(edges, TreeEdge{Parent: p, Child: next})
			queue = append(queue, next)
		}
	}
	return edges, dist
}

// ToDOT converts the spanning tree of src to Graphviz DOT. The origin is
// the root, so Graphviz ranks every cell by its path distance; the origin
// and deepest cell are filled with the accent color.
func ToDOT(src maze.View, opts ...render.Option) string {
	s := render.NewSettings(opts...)
	_, wall, accent := s.Palette.Hex()
	edges, dist := Tree(src)

	var buf bytes.Buffer
	buf.WriteString("digraph maze {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fillcolor=white, color=%q, fontsize=10, width=0.4, fixedsize=true];\n", wall)
	fmt.Fprintf(&buf, "  edge [arrowhead=none, color=%q];\n", wall)
	buf.WriteString("\n")

	marked := make(map[maze.Position]bool)
	for _, p := range s.Marks(src) {
		marked[p] = true
	}
	for row := 0; row < src.Height(); row++ {
		for col := 0; col < src.Width(); col++ {
			p := maze.Position{Row: row, Col: col}
			attrs := fmt.Sprintf("label=%q, tooltip=\"distance %d\"", nodeLabel(p), dist[row*src.Width()+col])
			if marked[p] {
				attrs += fmt.Sprintf(", fillcolor=%q, fontcolor=white", accent)
			}
			fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(p), attrs)
		}
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(e.Parent), nodeID(e.Child))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(p maze.Position) string {
	return "c" + strconv.Itoa(p.Row) + "_" + strconv.Itoa(p.Col)
}

func nodeLabel(p maze.Position) string {
	return strconv.Itoa(p.Row) + "," + strconv.Itoa(p.Col)
}

// RenderTreeSVG lays out the DOT graph from [ToDOT] with Graphviz and returns
// the SVG.
func RenderTreeSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// viewBox so the diagram scales with its container.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
