package main

import (
	"math"

	"github.com/fogleman/gg"
)

// Node is a circular mind-map entry. It knows nothing about the edges that
// reference it; the scene keeps those in sync.
type Node struct {
	label
	id           string
	x, y         float64
	radius       float64
	currentScale float64
}

// NewNode creates a node at (x, y) whose radius is baseRadius at the given
// canvas scale.
func NewNode(x, y, baseRadius, scale float64) *Node {
	if scale <= 0 {
		scale = 1
	}
	return &Node{
		label:        label{color: defaultNodeColor},
		id:           newID(),
		x:            x,
		y:            y,
		radius:       baseRadius * scale,
		currentScale: scale,
	}
}

func (n *Node) ID() string { return n.id }
func (n *Node) Kind() DrawableKind { return KindNode }

func (n *Node) Center() Point {
	return Point{X: n.x, Y: n.y}
}

func (n *Node) Radius() float64 {
	return n.radius
}

// MoveTo repositions the node unconditionally.
func (n *Node) MoveTo(x, y float64) {
	n.x = x
	n.y = y
}

func (n *Node) Move(dx, dy float64) {
	n.x += dx
	n.y += dy
}

// Scale brings the node to an absolute canvas scale. Position and radius are
// rescaled by scale/currentScale, so repeating the same scale is a no-op.
func (n *Node) Scale(scale float64) {
	if scale <= 0 {
		return
	}
	factor := scale / n.currentScale
	n.x *= factor
	n.y *= factor
	n.radius *= factor
	n.currentScale = scale
}

func (n *Node) Contains(x, y float64) bool {
	dx := x - n.x
	dy := y - n.y
	return dx*dx+dy*dy <= n.radius*n.radius
}

func (n *Node) OnScreen(width, height float64) bool {
	return rectsIntersect(n.x-n.radius, n.y-n.radius, n.x+n.radius, n.y+n.radius, 0, 0, width, height)
}

func (n *Node) Draw(dc *gg.Context) {
	dc.SetColor(rgba(n.color))
	dc.DrawCircle(n.x, n.y, n.radius)
	dc.Fill()

	if n.title == "" {
		return
	}
	dc.SetColor(rgba(0xFFFFFFFF))
	dc.DrawStringWrapped(n.title, n.x, n.y, 0.5, 0.5, n.radius*math.Sqrt2, 1.2, gg.AlignCenter)
}
