package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CellGrid maps terminal cells to canvas units.
type CellGrid struct {
	CellWidth  float64
	CellHeight float64
}

// ToCanvas returns the canvas point at the center of a cell.
func (g CellGrid) ToCanvas(col, row int) Point {
	return Point{
		X: (float64(col) + 0.5) * g.CellWidth,
		Y: (float64(row) + 0.5) * g.CellHeight,
	}
}

func (g CellGrid) ToCell(p Point) (int, int) {
	return int(math.Floor(p.X / g.CellWidth)), int(math.Floor(p.Y / g.CellHeight))
}

// Size is the canvas extent of cols x rows cells.
func (g CellGrid) Size(cols, rows int) (float64, float64) {
	return float64(cols) * g.CellWidth, float64(rows) * g.CellHeight
}

type cell struct {
	r      rune
	fg, bg uint32
}

// cellCanvas is the terminal rendering of a scene, one cell per rune.
type cellCanvas struct {
	grid  CellGrid
	cells [][]cell
}

func newCellCanvas(grid CellGrid, cols, rows int) *cellCanvas {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	cells := make([][]cell, rows)
	for i := range cells {
		cells[i] = make([]cell, cols)
		for j := range cells[i] {
			cells[i][j] = cell{r: ' '}
		}
	}
	return &cellCanvas{grid: grid, cells: cells}
}

func (c *cellCanvas) valid(col, row int) bool {
	return row >= 0 && row < len(c.cells) && col >= 0 && col < len(c.cells[0])
}

func (c *cellCanvas) set(col, row int, r rune, fg uint32) {
	if !c.valid(col, row) {
		return
	}
	c.cells[row][col].r = r
	c.cells[row][col].fg = fg
}

func (c *cellCanvas) text(col, row int, s string, fg uint32) {
	for i, r := range []rune(s) {
		c.set(col+i, row, r, fg)
	}
}

// renderCells draws the on-screen part of the scene into a cols x rows grid.
// The marked drawable, if any, gets a heavier outline.
func renderCells(scene *Scene, grid CellGrid, cols, rows int, marked Drawable) *cellCanvas {
	cc := newCellCanvas(grid, cols, rows)
	width, height := grid.Size(cols, rows)
	for _, d := range scene.Items() {
		if !d.OnScreen(width, height) {
			continue
		}
		switch v := d.(type) {
		case *Node:
			cc.drawNode(v, d == marked)
		case *Edge:
			cc.drawEdge(v, d == marked)
		}
	}
	return cc
}

func (c *cellCanvas) drawNode(n *Node, marked bool) {
	border := 'o'
	if marked {
		border = '#'
	}
	center := n.Center()
	r := n.Radius()
	minCol, minRow := c.grid.ToCell(Point{X: center.X - r, Y: center.Y - r})
	maxCol, maxRow := c.grid.ToCell(Point{X: center.X + r, Y: center.Y + r})

	inside := func(col, row int) bool {
		p := c.grid.ToCanvas(col, row)
		return n.Contains(p.X, p.Y)
	}
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			if !c.valid(col, row) || !inside(col, row) {
				continue
			}
			edge := !inside(col-1, row) || !inside(col+1, row) || !inside(col, row-1) || !inside(col, row+1)
			if edge {
				c.cells[row][col] = cell{r: border, fg: n.Color()}
			} else {
				c.cells[row][col] = cell{r: ' ', bg: n.Color()}
			}
		}
	}

	if n.Title() == "" {
		return
	}
	col, row := c.grid.ToCell(center)
	span := maxCol - minCol - 1
	if span < 1 {
		return
	}
	title := []rune(n.Title())
	if len(title) > span {
		title = title[:span]
	}
	start := col - len(title)/2
	for i, ch := range title {
		if c.valid(start+i, row) {
			c.cells[row][start+i].r = ch
			c.cells[row][start+i].fg = 0xFFFFFFFF
		}
	}
}

func (c *cellCanvas) drawEdge(e *Edge, marked bool) {
	c0, r0 := c.grid.ToCell(e.Start())
	c1, r1 := c.grid.ToCell(e.End())
	dc, dr := c1-c0, r1-r0

	glyph := lineGlyph(dc, dr)
	if marked {
		glyph = '='
	}

	// Cells inside a bound node stay the node's, so arrows meet the outline.
	covered := func(col, row int) bool {
		p := c.grid.ToCanvas(col, row)
		for _, n := range []*Node{e.FromNode(), e.ToNode()} {
			if n != nil && n.Contains(p.X, p.Y) {
				return true
			}
		}
		return false
	}
	var path [][2]int
	bresenham(c0, r0, c1, r1, func(col, row int) {
		if !e.Editable() && covered(col, row) {
			return
		}
		path = append(path, [2]int{col, row})
		c.set(col, row, glyph, e.Color())
	})

	if e.Editable() {
		c.set(c0, r0, 'o', e.Color())
		c.set(c1, r1, 'o', e.Color())
	}
	if len(path) > 0 && (dc != 0 || dr != 0) {
		first, last := path[0], path[len(path)-1]
		if e.ArrowShape() == ArrowStart || e.ArrowShape() == ArrowDouble {
			c.set(first[0], first[1], arrowGlyph(-dc, -dr), 0xFF000000)
		}
		if e.ArrowShape() == ArrowEnd || e.ArrowShape() == ArrowDouble {
			c.set(last[0], last[1], arrowGlyph(dc, dr), 0xFF000000)
		}
	}

	if e.Title() != "" {
		title := []rune(e.Title())
		c.text((c0+c1)/2-len(title)/2, (r0+r1)/2+1, string(title), defaultTitleColor)
	}
}

func lineGlyph(dc, dr int) rune {
	adc, adr := abs(dc), abs(dr)
	switch {
	case adr*2 < adc:
		return '-'
	case adc*2 < adr:
		return '|'
	case (dc > 0) == (dr > 0):
		return '\\'
	}
	return '/'
}

// arrowGlyph points along (dc, dr).
func arrowGlyph(dc, dr int) rune {
	if abs(dc) >= abs(dr) {
		if dc > 0 {
			return '>'
		}
		return '<'
	}
	if dr > 0 {
		return 'v'
	}
	return '^'
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Lines flattens the grid. With color off the output is plain text, which is
// what the TXT export writes.
func (c *cellCanvas) Lines(colored bool) []string {
	lines := make([]string, len(c.cells))
	for i, row := range c.cells {
		if !colored {
			var b strings.Builder
			for _, cl := range row {
				b.WriteRune(cl.r)
			}
			lines[i] = strings.TrimRight(b.String(), " ")
			continue
		}
		lines[i] = styledRow(row)
	}
	return lines
}

// styledRow renders runs of identically colored cells with one style each.
func styledRow(row []cell) string {
	var b strings.Builder
	start := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && row[i].fg == row[start].fg && row[i].bg == row[start].bg {
			continue
		}
		run := make([]rune, 0, i-start)
		for _, cl := range row[start:i] {
			run = append(run, cl.r)
		}
		style := lipgloss.NewStyle()
		if fg := row[start].fg; fg != 0 {
			style = style.Foreground(lipgloss.Color(hexColor(fg)))
		}
		if bg := row[start].bg; bg != 0 {
			style = style.Background(lipgloss.Color(hexColor(bg)))
		}
		b.WriteString(style.Render(string(run)))
		start = i
	}
	return b.String()
}
