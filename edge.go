package main

import (
	"math"

	"github.com/fogleman/gg"
)

// Edge connects two nodes. While it is being drawn the "to" node is nil and
// the free end follows the pointer.
type Edge struct {
	label
	id           string
	from, to     *Node
	start, end   Point
	strokeWidth  float64
	arrow        ArrowShape
	editable     bool
	currentScale float64
}

// NewEdge starts an interactive edge: both ends sit on the anchor's center
// and the edge stays editable until a target node is bound.
func NewEdge(anchor *Node, baseStroke, scale float64) *Edge {
	if scale <= 0 {
		scale = 1
	}
	c := anchor.Center()
	return &Edge{
		label:        label{color: defaultEdgeColor},
		id:           newID(),
		from:         anchor,
		start:        c,
		end:          c,
		strokeWidth:  baseStroke * scale,
		editable:     true,
		currentScale: scale,
	}
}

// NewBoundEdge rebuilds an edge between two resolved nodes.
func NewBoundEdge(id string, from, to *Node, strokeWidth, scale float64) *Edge {
	if scale <= 0 {
		scale = 1
	}
	return &Edge{
		label:        label{color: defaultEdgeColor},
		id:           id,
		from:         from,
		to:           to,
		start:        from.Center(),
		end:          to.Center(),
		strokeWidth:  strokeWidth,
		currentScale: scale,
	}
}

func (e *Edge) ID() string { return e.id }
func (e *Edge) Kind() DrawableKind { return KindEdge }

func (e *Edge) Start() Point { return e.start }
func (e *Edge) End() Point { return e.end }

func (e *Edge) SetStart(x, y float64) { e.start = Point{X: x, Y: y} }
func (e *Edge) SetEnd(x, y float64) { e.end = Point{X: x, Y: y} }

// SetFromNode and SetToNode only bind; callers snap coordinates themselves.
func (e *Edge) SetFromNode(n *Node) { e.from = n }
func (e *Edge) SetToNode(n *Node) { e.to = n }

func (e *Edge) FromNode() *Node { return e.from }
func (e *Edge) ToNode() *Node { return e.to }

// References reports whether n is either end of the edge.
func (e *Edge) References(n *Node) bool {
	return n != nil && (e.from == n || e.to == n)
}

func (e *Edge) Editable() bool { return e.editable }
func (e *Edge) SetEditable(state bool) { e.editable = state }

func (e *Edge) ArrowShape() ArrowShape { return e.arrow }
func (e *Edge) SetArrowShape(shape ArrowShape) { e.arrow = shape }

func (e *Edge) StrokeWidth() float64 { return e.strokeWidth }

// Contains measures the perpendicular distance to the infinite line through
// both ends, not to the segment: points beyond either end but close to the
// extended line still hit.
func (e *Edge) Contains(x, y float64) bool {
	tolerance := edgeHitStrokes * e.strokeWidth
	if e.start.X == e.end.X {
		return math.Abs(x-e.start.X) <= tolerance
	}
	slope := (e.end.Y - e.start.Y) / (e.end.X - e.start.X)
	dist := math.Abs(slope*x-y+e.start.Y-slope*e.start.X) / math.Sqrt(1+slope*slope)
	return dist <= tolerance
}

func (e *Edge) OnScreen(width, height float64) bool {
	left, right := math.Min(e.start.X, e.end.X), math.Max(e.start.X, e.end.X)
	top, bottom := math.Min(e.start.Y, e.end.Y), math.Max(e.start.Y, e.end.Y)
	w := e.strokeWidth
	return rectsIntersect(left-w, top-w, right+w, bottom+w, 0, 0, width, height)
}

func (e *Edge) Move(dx, dy float64) {
	e.start.X += dx
	e.start.Y += dy
	e.end.X += dx
	e.end.Y += dy
}

// Scale brings both ends and the stroke width to an absolute canvas scale.
func (e *Edge) Scale(scale float64) {
	if scale <= 0 {
		return
	}
	factor := scale / e.currentScale
	e.start.X *= factor
	e.start.Y *= factor
	e.end.X *= factor
	e.end.Y *= factor
	e.strokeWidth *= factor
	e.currentScale = scale
}

// arrowDirections returns, for each end, a point a short step inside the
// edge along its direction. Vertical edges have no slope and are handled on
// their own.
func (e *Edge) arrowDirections() (startDir, endDir Point) {
	s, t := e.start, e.end
	if s.X == t.X {
		step := arrowDirectionStep
		if t.Y <= s.Y {
			step = -step
		}
		return Point{X: s.X, Y: s.Y + step}, Point{X: t.X, Y: t.Y - step}
	}
	slope := (t.Y - s.Y) / (t.X - s.X)
	step := arrowDirectionStep
	if s.X > t.X {
		step = -step
	}
	return Point{X: s.X + step, Y: s.Y + slope*step}, Point{X: t.X - step, Y: t.Y - slope*step}
}

// arrowHead returns the triangle tip, wing, wing for an arrow at tip pointing
// away from dir. The wings open at 30 degrees either side of the edge.
func arrowHead(tip, dir Point, length float64) [3]Point {
	const wing = math.Pi / 6
	angle := math.Atan2(tip.Y-dir.Y, tip.X-dir.X)
	return [3]Point{
		tip,
		{X: tip.X - length*math.Cos(angle+wing), Y: tip.Y - length*math.Sin(angle+wing)},
		{X: tip.X - length*math.Cos(angle-wing), Y: tip.Y - length*math.Sin(angle-wing)},
	}
}

// arrowHeads lists the triangles to fill for the current arrow shape.
func (e *Edge) arrowHeads() [][3]Point {
	if e.arrow == ArrowNone {
		return nil
	}
	startDir, endDir := e.arrowDirections()
	length := arrowHeadStrokes * e.strokeWidth
	var heads [][3]Point
	if e.arrow == ArrowStart || e.arrow == ArrowDouble {
		heads = append(heads, arrowHead(e.start, startDir, length))
	}
	if e.arrow == ArrowEnd || e.arrow == ArrowDouble {
		heads = append(heads, arrowHead(e.end, endDir, length))
	}
	return heads
}

func (e *Edge) Draw(dc *gg.Context) {
	col := rgba(e.color)

	// The control point equals the start, so the curve renders as a line.
	dc.SetColor(col)
	dc.SetLineWidth(e.strokeWidth)
	dc.MoveTo(e.start.X, e.start.Y)
	dc.QuadraticTo(e.start.X, e.start.Y, e.end.X, e.end.Y)
	dc.Stroke()

	if e.title != "" {
		e.drawTitle(dc)
	}

	if e.editable {
		dc.SetColor(col)
		dc.SetLineWidth(handleStrokeWidth)
		dc.DrawCircle(e.start.X, e.start.Y, handleRadius)
		dc.Stroke()
		dc.DrawCircle(e.end.X, e.end.Y, handleRadius)
		dc.Stroke()
	}

	dc.SetColor(rgba(0xFF000000))
	for _, head := range e.arrowHeads() {
		dc.MoveTo(head[0].X, head[0].Y)
		dc.LineTo(head[1].X, head[1].Y)
		dc.LineTo(head[2].X, head[2].Y)
		dc.ClosePath()
		dc.Fill()
	}
}

// drawTitle centers the title along the edge, always reading left to right.
func (e *Edge) drawTitle(dc *gg.Context) {
	from, to := e.start, e.end
	if from.X > to.X {
		from, to = to, from
	}
	mx := (from.X + to.X) / 2
	my := (from.Y + to.Y) / 2
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)

	dc.Push()
	dc.RotateAbout(angle, mx, my)
	dc.SetColor(rgba(defaultTitleColor))
	dc.DrawStringAnchored(e.title, mx, my+labelOffsetStrokes*e.strokeWidth, 0.5, 0)
	dc.Pop()
}
