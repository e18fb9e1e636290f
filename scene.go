package main

import (
	"fmt"

	"github.com/fogleman/gg"
)

// Scene is the ordered list of drawables on the canvas. Insertion order is
// draw order; an edge under construction is always the last element.
type Scene struct {
	items []Drawable
	ids   map[string]Drawable
}

func NewScene() *Scene {
	return &Scene{
		items: make([]Drawable, 0),
		ids:   make(map[string]Drawable),
	}
}

// Add appends d on top of everything else.
func (s *Scene) Add(d Drawable) error {
	if _, ok := s.ids[d.ID()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, d.ID())
	}
	s.items = append(s.items, d)
	s.ids[d.ID()] = d
	return nil
}

func (s *Scene) Len() int {
	return len(s.items)
}

// Items returns the drawables in draw order. The slice is a copy.
func (s *Scene) Items() []Drawable {
	out := make([]Drawable, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Scene) Last() Drawable {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

func (s *Scene) Get(id string) (Drawable, bool) {
	d, ok := s.ids[id]
	return d, ok
}

func (s *Scene) Node(id string) (*Node, bool) {
	n, ok := s.ids[id].(*Node)
	return n, ok
}

func (s *Scene) Nodes() []*Node {
	var nodes []*Node
	for _, d := range s.items {
		if n, ok := d.(*Node); ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func (s *Scene) Edges() []*Edge {
	var edges []*Edge
	for _, d := range s.items {
		if e, ok := d.(*Edge); ok {
			edges = append(edges, e)
		}
	}
	return edges
}

// Remove drops d alone, without touching edges that reference it.
func (s *Scene) Remove(d Drawable) bool {
	for i, item := range s.items {
		if item == d {
			s.items = append(s.items[:i], s.items[i+1:]...)
			delete(s.ids, d.ID())
			return true
		}
	}
	return false
}

// RemoveLast pops the topmost drawable.
func (s *Scene) RemoveLast() Drawable {
	last := s.Last()
	if last != nil {
		s.items = s.items[:len(s.items)-1]
		delete(s.ids, last.ID())
	}
	return last
}

// Delete removes d. Deleting a node also removes every edge bound to it.
func (s *Scene) Delete(d Drawable) int {
	if d == nil {
		return 0
	}
	removed := 0
	if n, ok := d.(*Node); ok {
		kept := s.items[:0]
		for _, item := range s.items {
			if e, ok := item.(*Edge); ok && e.References(n) {
				delete(s.ids, e.ID())
				removed++
				continue
			}
			kept = append(kept, item)
		}
		for i := len(kept); i < len(s.items); i++ {
			s.items[i] = nil
		}
		s.items = kept
	}
	if s.Remove(d) {
		removed++
	}
	return removed
}

// Find returns the drawable under (x, y). Nodes win over edges.
func (s *Scene) Find(x, y float64) Drawable {
	if d := s.FindKind(x, y, KindNode); d != nil {
		return d
	}
	return s.FindKind(x, y, KindEdge)
}

// FindKind returns the first drawable of the given kind under (x, y).
func (s *Scene) FindKind(x, y float64, kind DrawableKind) Drawable {
	for _, d := range s.items {
		if d.Kind() == kind && d.Contains(x, y) {
			return d
		}
	}
	return nil
}

// FindNode is FindKind restricted to nodes, typed.
func (s *Scene) FindNode(x, y float64) *Node {
	n, _ := s.FindKind(x, y, KindNode).(*Node)
	return n
}

// MoveNode puts n's center at (x, y) and drags the bound ends of its edges
// along.
func (s *Scene) MoveNode(n *Node, x, y float64) {
	for _, e := range s.Edges() {
		if e.FromNode() == n {
			e.SetStart(x, y)
		}
		if e.ToNode() == n {
			e.SetEnd(x, y)
		}
	}
	n.MoveTo(x, y)
}

// Translate shifts every drawable, used for panning.
func (s *Scene) Translate(dx, dy float64) {
	for _, d := range s.items {
		d.Move(dx, dy)
	}
}

// Scale brings every drawable to the absolute canvas scale.
func (s *Scene) Scale(scale float64) {
	for _, d := range s.items {
		d.Scale(scale)
	}
}

// Render draws the drawables that intersect the width x height viewport.
func (s *Scene) Render(dc *gg.Context, width, height float64) int {
	drawn := 0
	for _, d := range s.items {
		if !d.OnScreen(width, height) {
			continue
		}
		d.Draw(dc)
		drawn++
	}
	return drawn
}
