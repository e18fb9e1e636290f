package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boundEdge(x0, y0, x1, y1, stroke float64) *Edge {
	from := NewNode(x0, y0, 10, 1)
	to := NewNode(x1, y1, 10, 1)
	return NewBoundEdge("e", from, to, stroke, 1)
}

func TestEdge(t *testing.T) {
	t.Run("new edge sits on the anchor and is editable", func(t *testing.T) {
		anchor := NewNode(30, 40, 60, 1)
		e := NewEdge(anchor, 12, 2)
		assert.Equal(t, anchor.Center(), e.Start())
		assert.Equal(t, anchor.Center(), e.End())
		assert.Equal(t, anchor, e.FromNode())
		assert.Nil(t, e.ToNode())
		assert.True(t, e.Editable())
		assert.Equal(t, 24.0, e.StrokeWidth())
		assert.Equal(t, ArrowNone, e.ArrowShape())
	})

	t.Run("bound edge snaps to both centers", func(t *testing.T) {
		e := boundEdge(0, 0, 100, 50, 12)
		assert.Equal(t, Point{X: 0, Y: 0}, e.Start())
		assert.Equal(t, Point{X: 100, Y: 50}, e.End())
		assert.False(t, e.Editable())
		assert.True(t, e.References(e.FromNode()))
		assert.True(t, e.References(e.ToNode()))
		assert.False(t, e.References(NewNode(0, 0, 10, 1)))
		assert.False(t, e.References(nil))
	})

	t.Run("binding does not move the ends", func(t *testing.T) {
		e := boundEdge(0, 0, 100, 0, 12)
		other := NewNode(500, 500, 10, 1)
		e.SetToNode(other)
		assert.Equal(t, Point{X: 100, Y: 0}, e.End())
		assert.Equal(t, other, e.ToNode())
	})
}

func TestEdgeContains(t *testing.T) {
	t.Run("tolerance is five stroke widths", func(t *testing.T) {
		e := boundEdge(0, 0, 100, 0, 12)
		assert.True(t, e.Contains(50, 0))
		assert.True(t, e.Contains(50, 60))
		assert.True(t, e.Contains(50, -60))
		assert.False(t, e.Contains(50, 61))
	})

	t.Run("points past either end near the extended line hit", func(t *testing.T) {
		e := boundEdge(0, 0, 100, 0, 12)
		assert.True(t, e.Contains(500, 10))
		assert.True(t, e.Contains(-300, -10))
	})

	t.Run("diagonal distance is perpendicular", func(t *testing.T) {
		e := boundEdge(0, 0, 100, 100, 2)
		// (20, 0) is 20/sqrt2 ~ 14.1 from y=x
		assert.False(t, e.Contains(20, 0))
		assert.True(t, e.Contains(14, 0))
	})

	t.Run("vertical edges measure horizontal distance on both sides", func(t *testing.T) {
		e := boundEdge(10, 0, 10, 100, 12)
		assert.True(t, e.Contains(10, 50))
		assert.True(t, e.Contains(70, 50))
		assert.True(t, e.Contains(-50, 50))
		assert.False(t, e.Contains(71, 50))
		assert.False(t, e.Contains(-51, 50))
	})

	t.Run("degenerate edge hits a vertical band", func(t *testing.T) {
		anchor := NewNode(10, 10, 60, 1)
		e := NewEdge(anchor, 12, 1)
		assert.True(t, e.Contains(10, 1000))
		assert.False(t, e.Contains(200, 10))
	})
}

func TestEdgeGeometry(t *testing.T) {
	t.Run("move translates both ends", func(t *testing.T) {
		e := boundEdge(0, 0, 10, 10, 1)
		e.Move(5, -5)
		assert.Equal(t, Point{X: 5, Y: -5}, e.Start())
		assert.Equal(t, Point{X: 15, Y: 5}, e.End())
	})

	t.Run("scale is absolute and repeatable", func(t *testing.T) {
		e := boundEdge(10, 10, 20, 30, 12)
		e.Scale(2)
		e.Scale(2)
		assert.Equal(t, Point{X: 20, Y: 20}, e.Start())
		assert.Equal(t, Point{X: 40, Y: 60}, e.End())
		assert.Equal(t, 24.0, e.StrokeWidth())
	})

	t.Run("on screen includes the stroke", func(t *testing.T) {
		assert.True(t, boundEdge(-50, -10, -5, -10, 12).OnScreen(100, 100))
		assert.False(t, boundEdge(-50, -20, -5, -20, 12).OnScreen(100, 100))
		assert.True(t, boundEdge(-50, 50, 150, 50, 1).OnScreen(100, 100))
	})
}

func TestArrowHeads(t *testing.T) {
	t.Run("direction points lie ten units inside each end", func(t *testing.T) {
		e := boundEdge(0, 0, 100, 0, 1)
		s, d := e.arrowDirections()
		assert.Equal(t, Point{X: 10, Y: 0}, s)
		assert.Equal(t, Point{X: 90, Y: 0}, d)

		e = boundEdge(100, 0, 0, 0, 1)
		s, d = e.arrowDirections()
		assert.Equal(t, Point{X: 90, Y: 0}, s)
		assert.Equal(t, Point{X: 10, Y: 0}, d)
	})

	t.Run("vertical edges step along y", func(t *testing.T) {
		e := boundEdge(0, 0, 0, 100, 1)
		s, d := e.arrowDirections()
		assert.Equal(t, Point{X: 0, Y: 10}, s)
		assert.Equal(t, Point{X: 0, Y: 90}, d)

		e = boundEdge(0, 100, 0, 0, 1)
		s, d = e.arrowDirections()
		assert.Equal(t, Point{X: 0, Y: 90}, s)
		assert.Equal(t, Point{X: 0, Y: 10}, d)
	})

	t.Run("wings open thirty degrees behind the tip", func(t *testing.T) {
		head := arrowHead(Point{X: 100, Y: 0}, Point{X: 90, Y: 0}, 48)
		wingX := 100 - 48*math.Cos(math.Pi/6)
		assert.Equal(t, Point{X: 100, Y: 0}, head[0])
		assert.InDelta(t, wingX, head[1].X, 1e-9)
		assert.InDelta(t, -24, head[1].Y, 1e-9)
		assert.InDelta(t, wingX, head[2].X, 1e-9)
		assert.InDelta(t, 24, head[2].Y, 1e-9)
	})

	t.Run("shape selects the ends", func(t *testing.T) {
		e := boundEdge(0, 0, 100, 0, 12)
		assert.Empty(t, e.arrowHeads())

		e.SetArrowShape(ArrowEnd)
		heads := e.arrowHeads()
		require.Len(t, heads, 1)
		assert.Equal(t, e.End(), heads[0][0])

		e.SetArrowShape(ArrowStart)
		heads = e.arrowHeads()
		require.Len(t, heads, 1)
		assert.Equal(t, e.Start(), heads[0][0])

		e.SetArrowShape(ArrowDouble)
		assert.Len(t, e.arrowHeads(), 2)
	})

	t.Run("arrow length is four strokes", func(t *testing.T) {
		e := boundEdge(0, 0, 100, 0, 12)
		e.SetArrowShape(ArrowEnd)
		head := e.arrowHeads()[0]
		assert.InDelta(t, 48, math.Hypot(head[1].X-head[0].X, head[1].Y-head[0].Y), 1e-9)
	})

	t.Run("shapes cycle through all four", func(t *testing.T) {
		a := ArrowNone
		seen := []ArrowShape{a}
		for i := 0; i < 4; i++ {
			a = a.Next()
			seen = append(seen, a)
		}
		assert.Equal(t, []ArrowShape{ArrowNone, ArrowEnd, ArrowStart, ArrowDouble, ArrowNone}, seen)
	})

	t.Run("unknown shape names fall back to none", func(t *testing.T) {
		assert.Equal(t, ArrowDouble, parseArrowShape("DOUBLE"))
		assert.Equal(t, ArrowNone, parseArrowShape("sideways"))
		assert.Equal(t, ArrowNone, parseArrowShape(""))
	})
}

func TestEdgeRecord(t *testing.T) {
	from := NewNode(0, 0, 10, 1)
	to := NewNode(100, 0, 10, 1)
	nodes := map[string]*Node{from.ID(): from, to.ID(): to}
	resolve := func(id string) (*Node, bool) {
		n, ok := nodes[id]
		return n, ok
	}

	t.Run("pending edge has no record", func(t *testing.T) {
		assert.Nil(t, NewEdge(from, 12, 1).ToRecord())
	})

	t.Run("record references nodes by id", func(t *testing.T) {
		e := NewBoundEdge("e1", from, to, 12, 1)
		e.SetTitle("because")
		e.SetArrowShape(ArrowEnd)
		rec := e.ToRecord()
		require.NotNil(t, rec)
		assert.Equal(t, from.ID(), rec[keyFrom])
		assert.Equal(t, to.ID(), rec[keyTo])
		assert.Equal(t, "END", rec[keyArrow])

		back, err := EdgeFromRecord(rec, resolve, 1)
		require.NoError(t, err)
		assert.Equal(t, "e1", back.ID())
		assert.Equal(t, from, back.FromNode())
		assert.Equal(t, to, back.ToNode())
		assert.Equal(t, ArrowEnd, back.ArrowShape())
		assert.Equal(t, "because", back.Title())
		assert.Equal(t, to.Center(), back.End())
	})

	t.Run("unknown peers are rejected", func(t *testing.T) {
		rec := Record{keyType: "edge", keyID: "e", keyFrom: from.ID(), keyTo: "gone", keyStrokeWidth: 12.0, keyColor: 1.0}
		_, err := EdgeFromRecord(rec, resolve, 1)
		assert.ErrorIs(t, err, ErrUnresolvedPeer)
	})

	t.Run("negative stroke is rejected", func(t *testing.T) {
		rec := Record{keyType: "edge", keyID: "e", keyFrom: from.ID(), keyTo: to.ID(), keyStrokeWidth: -3.0, keyColor: 1.0}
		_, err := EdgeFromRecord(rec, resolve, 1)
		assert.ErrorIs(t, err, ErrBadField)
	})

	t.Run("negative color is rejected", func(t *testing.T) {
		rec := Record{keyType: "edge", keyID: "e", keyFrom: from.ID(), keyTo: to.ID(), keyStrokeWidth: 12.0, keyColor: -1.0}
		_, err := EdgeFromRecord(rec, resolve, 1)
		assert.ErrorIs(t, err, ErrBadField)
	})

	t.Run("missing stroke is rejected", func(t *testing.T) {
		rec := Record{keyType: "edge", keyID: "e", keyFrom: from.ID(), keyTo: to.ID(), keyColor: 1.0}
		_, err := EdgeFromRecord(rec, resolve, 1)
		assert.ErrorIs(t, err, ErrMissingField)
	})
}
