package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGrid = CellGrid{CellWidth: 8, CellHeight: 16}

func TestCellGrid(t *testing.T) {
	t.Run("cells map to their centers", func(t *testing.T) {
		assert.Equal(t, Point{X: 4, Y: 8}, testGrid.ToCanvas(0, 0))
		assert.Equal(t, Point{X: 84, Y: 40}, testGrid.ToCanvas(10, 2))
	})

	t.Run("canvas points map back to their cell", func(t *testing.T) {
		col, row := testGrid.ToCell(testGrid.ToCanvas(7, 3))
		assert.Equal(t, 7, col)
		assert.Equal(t, 3, row)

		col, row = testGrid.ToCell(Point{X: -1, Y: -1})
		assert.Equal(t, -1, col)
		assert.Equal(t, -1, row)
	})

	t.Run("size covers the grid", func(t *testing.T) {
		w, h := testGrid.Size(80, 24)
		assert.Equal(t, 640.0, w)
		assert.Equal(t, 384.0, h)
	})
}

func TestRenderCells(t *testing.T) {
	t.Run("empty scene renders blank lines", func(t *testing.T) {
		lines := renderCells(NewScene(), testGrid, 10, 3, nil).Lines(false)
		assert.Equal(t, []string{"", "", ""}, lines)
	})

	t.Run("node draws an outline and its title", func(t *testing.T) {
		s := NewScene()
		n := NewNode(160, 160, 60, 1)
		n.SetTitle("hi")
		require.NoError(t, s.Add(n))

		out := strings.Join(renderCells(s, testGrid, 40, 20, nil).Lines(false), "\n")
		assert.Contains(t, out, "o")
		assert.Contains(t, out, "hi")
		assert.NotContains(t, out, "#")
	})

	t.Run("marked node uses a heavy outline", func(t *testing.T) {
		s := NewScene()
		n := NewNode(160, 160, 60, 1)
		require.NoError(t, s.Add(n))

		out := strings.Join(renderCells(s, testGrid, 40, 20, n).Lines(false), "\n")
		assert.Contains(t, out, "#")
	})

	t.Run("horizontal edge stops at the node outlines", func(t *testing.T) {
		s := NewScene()
		e := boundEdge(4, 8, 76, 8, 1)
		e.SetArrowShape(ArrowEnd)
		require.NoError(t, s.Add(e))

		lines := renderCells(s, testGrid, 12, 2, nil).Lines(false)
		assert.Equal(t, "  ----->", lines[0])
	})

	t.Run("vertical edge with arrows on both ends", func(t *testing.T) {
		s := NewScene()
		e := boundEdge(4, 8, 4, 88, 1)
		e.SetArrowShape(ArrowDouble)
		require.NoError(t, s.Add(e))

		lines := renderCells(s, testGrid, 3, 6, nil).Lines(false)
		assert.Equal(t, []string{"", "^", "|", "|", "v", ""}, lines)
	})

	t.Run("edge does not overwrite node titles", func(t *testing.T) {
		s, a, b, _ := twoNodeScene(t)
		a.SetTitle("alpha")
		b.SetTitle("beta")
		out := strings.Join(renderCells(s, testGrid, 80, 24, nil).Lines(false), "\n")
		assert.Contains(t, out, "alpha")
		assert.Contains(t, out, "beta")
		assert.Contains(t, out, "-")
	})

	t.Run("pending edge shows its handles", func(t *testing.T) {
		s := NewScene()
		anchor := NewNode(-500, -500, 1, 1)
		e := NewEdge(anchor, 1, 1)
		e.SetStart(4, 8)
		e.SetEnd(44, 8)
		require.NoError(t, s.Add(e))

		lines := renderCells(s, testGrid, 8, 1, nil).Lines(false)
		assert.Equal(t, "o----o", lines[0])
	})

	t.Run("off-screen drawables are skipped", func(t *testing.T) {
		s := NewScene()
		require.NoError(t, s.Add(NewNode(5000, 5000, 60, 1)))
		lines := renderCells(s, testGrid, 10, 2, nil).Lines(false)
		assert.Equal(t, []string{"", ""}, lines)
	})

	t.Run("colored lines keep the text", func(t *testing.T) {
		s := NewScene()
		n := NewNode(160, 160, 60, 1)
		n.SetTitle("hi")
		require.NoError(t, s.Add(n))
		out := strings.Join(renderCells(s, testGrid, 40, 20, nil).Lines(true), "\n")
		assert.Contains(t, out, "hi")
	})
}

func TestGlyphs(t *testing.T) {
	assert.Equal(t, '-', lineGlyph(10, 1))
	assert.Equal(t, '|', lineGlyph(1, 10))
	assert.Equal(t, '\\', lineGlyph(5, 5))
	assert.Equal(t, '/', lineGlyph(5, -5))
	assert.Equal(t, '>', arrowGlyph(3, 1))
	assert.Equal(t, '<', arrowGlyph(-3, 1))
	assert.Equal(t, 'v', arrowGlyph(0, 2))
	assert.Equal(t, '^', arrowGlyph(1, -2))
}

func TestBresenham(t *testing.T) {
	var pts [][2]int
	bresenham(0, 0, 3, 1, func(x, y int) { pts = append(pts, [2]int{x, y}) })
	require.NotEmpty(t, pts)
	assert.Equal(t, [2]int{0, 0}, pts[0])
	assert.Equal(t, [2]int{3, 1}, pts[len(pts)-1])
	assert.Len(t, pts, 4)
}
