package main

import (
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Controller owns the scene, the canvas scale and the gesture state. It is
// not safe for concurrent use: every call must come from the host's single
// event loop.
type Controller struct {
	scene  *Scene
	logger *slog.Logger

	state    State
	scale    float64
	minScale float64
	maxScale float64

	doubleTap   time.Duration
	slop        float64
	nodeRadius  float64
	strokeWidth float64
	nodeColor   uint32
	edgeColor   uint32

	// Current pointer sequence.
	pointerDown bool
	down        Point
	last        Point
	moved       bool
	longPressed bool
	noticed     bool
	selected    Drawable

	// Last tapped drawable, for double-tap detection.
	clicked   Drawable
	lastTapAt time.Time

	edge     *Edge
	menuItem Drawable
	dirty    bool

	effects []Effect
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithScaleBounds(lo, hi float64) ControllerOption {
	return func(c *Controller) {
		c.minScale = lo
		c.maxScale = hi
	}
}

// WithScale sets the canvas scale the scene's drawables are currently at.
func WithScale(scale float64) ControllerOption {
	return func(c *Controller) {
		c.scale = scale
	}
}

func WithDoubleTapWindow(d time.Duration) ControllerOption {
	return func(c *Controller) {
		c.doubleTap = d
	}
}

// WithTouchSlop sets how far a pointer may travel before a press stops
// counting as a tap.
func WithTouchSlop(slop float64) ControllerOption {
	return func(c *Controller) {
		c.slop = slop
	}
}

// WithShapeDefaults sets the unscaled radius of new nodes and stroke width of
// new edges.
func WithShapeDefaults(nodeRadius, strokeWidth float64) ControllerOption {
	return func(c *Controller) {
		c.nodeRadius = nodeRadius
		c.strokeWidth = strokeWidth
	}
}

// WithColors sets the color of new nodes and edges.
func WithColors(node, edge uint32) ControllerOption {
	return func(c *Controller) {
		c.nodeColor = node
		c.edgeColor = edge
	}
}

func NewController(scene *Scene, opts ...ControllerOption) *Controller {
	c := &Controller{
		scene:       scene,
		logger:      slog.Default(),
		state:       StateIdle,
		scale:       1,
		minScale:    defaultMinScale,
		maxScale:    defaultMaxScale,
		doubleTap:   defaultDoubleTapWindow,
		slop:        defaultTouchSlop,
		nodeRadius:  defaultNodeRadius,
		strokeWidth: defaultStrokeWidth,
		nodeColor:   defaultNodeColor,
		edgeColor:   defaultEdgeColor,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.scene == nil {
		c.scene = NewScene()
	}
	c.scale = clamp(c.scale, c.minScale, c.maxScale)
	return c
}

func (c *Controller) Scene() *Scene { return c.scene }
func (c *Controller) State() State { return c.state }
func (c *Controller) Scale() float64 { return c.scale }
func (c *Controller) MenuItem() Drawable { return c.menuItem }
func (c *Controller) Clicked() Drawable { return c.clicked }

// PendingEdge is the edge being drawn, if any.
func (c *Controller) PendingEdge() *Edge { return c.edge }

// Dirty reports whether the canvas changed since the last ClearDirty.
func (c *Controller) Dirty() bool { return c.dirty }
func (c *Controller) ClearDirty() { c.dirty = false }

// HandleEvent feeds one pointer event through the gesture state machine.
// It never panics; anything unexpected resets the controller to IDLE.
func (c *Controller) HandleEvent(ev Event) Transition {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	return c.dispatch(ev.Kind.String(), func() {
		switch ev.Kind {
		case EventPointerDown:
			c.press(ev)
		case EventSecondPointerDown:
			c.secondPress(ev)
		case EventPointerMove:
			c.drag(ev)
		case EventPointerUp:
			c.release(ev)
		case EventLongPress:
			c.longPress()
		case EventZoomBegin:
			c.zoomBegin()
		case EventZoomUpdate:
			c.zoomUpdate(ev.Factor)
		case EventZoomEnd:
			if c.state == StateZoomCanvas {
				c.state = StateIdle
			}
		}
	})
}

// Delete removes item, cascading to the edges of a node, and closes the menu.
func (c *Controller) Delete(item Drawable) Transition {
	return c.dispatch("delete", func() {
		if item == nil {
			return
		}
		removed := c.scene.Delete(item)
		c.forgetMissing()
		c.closeMenu()
		c.state = StateIdle
		c.logger.Debug("drawable deleted",
			slog.String("id", item.ID()),
			slog.String("kind", item.Kind().String()),
			slog.Int("removed", removed))
		c.redraw()
	})
}

// Open asks the host to show item's details and closes the menu.
func (c *Controller) Open(item Drawable) Transition {
	return c.dispatch("open", func() {
		c.closeMenu()
		c.state = StateIdle
		if item == nil {
			return
		}
		c.emit(Effect{Kind: EffectOpen, Item: item})
	})
}

// DismissMenu closes an open edit menu without acting on it.
func (c *Controller) DismissMenu() Transition {
	return c.dispatch("dismiss", func() {
		if c.state == StateEditNode || c.state == StateEditEdge {
			c.closeMenu()
			c.state = StateIdle
		}
	})
}

// AddNode creates a node centered at (x, y) at the current scale.
func (c *Controller) AddNode(x, y float64) *Node {
	n := NewNode(x, y, c.nodeRadius, c.scale)
	n.SetColor(c.nodeColor)
	if err := c.scene.Add(n); err != nil {
		c.logger.Warn("add node failed", slog.String("error", err.Error()))
		return nil
	}
	c.dirty = true
	return n
}

// Zoom runs a whole pinch of a single step.
func (c *Controller) Zoom(factor float64) Transition {
	return c.dispatch("zoom", func() {
		c.zoomBegin()
		c.zoomUpdate(factor)
		c.state = StateIdle
	})
}

// Pan translates the whole canvas outside of a pointer gesture.
func (c *Controller) Pan(dx, dy float64) Transition {
	return c.dispatch("pan", func() {
		if dx == 0 && dy == 0 {
			return
		}
		c.scene.Translate(dx, dy)
		c.redraw()
	})
}

// Invalidate marks the canvas dirty after the host edited a drawable.
func (c *Controller) Invalidate() {
	c.dirty = true
}

// Replace swaps in a freshly loaded scene whose drawables are at scale.
func (c *Controller) Replace(scene *Scene, scale float64) {
	c.reset()
	c.scene = scene
	c.scale = clamp(scale, c.minScale, c.maxScale)
	c.clicked = nil
	if c.scale != scale {
		c.scene.Scale(c.scale)
	}
	c.dirty = true
}

func (c *Controller) dispatch(name string, fn func()) (t Transition) {
	t.From = c.state
	c.effects = nil
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("gesture dispatch recovered",
				slog.String("op", name),
				slog.String("state", c.state.String()),
				slog.String("panic", fmt.Sprint(r)))
			c.reset()
			c.redraw()
		}
		t.To = c.state
		t.Effects = c.effects
		c.effects = nil
		if t.Changed() {
			c.logger.Debug("gesture transition",
				slog.String("op", name),
				slog.String("from", t.From.String()),
				slog.String("to", t.To.String()))
		}
	}()
	fn()
	return t
}

func (c *Controller) emit(e Effect) {
	c.effects = append(c.effects, e)
}

func (c *Controller) redraw() {
	c.dirty = true
	for _, e := range c.effects {
		if e.Kind == EffectRedraw {
			return
		}
	}
	c.emit(Effect{Kind: EffectRedraw})
}

// notice raises a transient message at most once per pointer sequence.
func (c *Controller) notice(msg string) {
	if c.noticed {
		return
	}
	c.noticed = true
	c.emit(Effect{Kind: EffectNotice, Message: msg})
}

func (c *Controller) closeMenu() {
	if c.menuItem == nil && c.state != StateEditNode && c.state != StateEditEdge {
		return
	}
	c.menuItem = nil
	c.emit(Effect{Kind: EffectDismissMenu})
}

func (c *Controller) reset() {
	c.cancelEdge()
	c.closeMenu()
	c.state = StateIdle
	c.pointerDown = false
	c.selected = nil
}

// forgetMissing drops references to drawables no longer in the scene.
func (c *Controller) forgetMissing() {
	inScene := func(d Drawable) bool {
		if d == nil {
			return false
		}
		_, ok := c.scene.Get(d.ID())
		return ok
	}
	if !inScene(c.clicked) {
		c.clicked = nil
	}
	if !inScene(c.selected) {
		c.selected = nil
	}
	if c.edge != nil && !inScene(c.edge) {
		c.edge = nil
	}
}

func (c *Controller) press(ev Event) {
	if c.state == StateEditNode || c.state == StateEditEdge {
		c.closeMenu()
		c.state = StateIdle
	}
	// A stale pan or zoom whose release never arrived.
	if c.state == StatePanCanvas || c.state == StateZoomCanvas {
		c.state = StateIdle
	}
	p := Point{X: ev.X, Y: ev.Y}
	c.pointerDown = true
	c.down = p
	c.last = p
	c.moved = false
	c.longPressed = false
	c.noticed = false
	c.selected = c.scene.Find(p.X, p.Y)
}

// secondPress preempts whatever the first pointer was doing.
func (c *Controller) secondPress(ev Event) {
	if c.state == StateMoveEdge {
		c.cancelEdge()
	}
	if c.state == StateEditNode || c.state == StateEditEdge {
		c.closeMenu()
	}
	c.state = StatePanCanvas
	c.pointerDown = true
	c.moved = true
	c.last = Point{X: ev.X, Y: ev.Y}
}

func (c *Controller) drag(ev Event) {
	p := Point{X: ev.X, Y: ev.Y}
	if c.state == StatePanCanvas {
		dx, dy := p.X-c.last.X, p.Y-c.last.Y
		c.last = p
		if dx != 0 || dy != 0 {
			c.scene.Translate(dx, dy)
			c.redraw()
		}
		return
	}
	if !c.pointerDown {
		return
	}
	if !c.moved && math.Hypot(p.X-c.down.X, p.Y-c.down.Y) > c.slop {
		c.moved = true
	}
	if !c.moved {
		return
	}

	switch c.state {
	case StateMoveNode:
		n, ok := c.selected.(*Node)
		if !ok || c.selected != c.clicked {
			c.notice("nothing to move")
			return
		}
		c.scene.MoveNode(n, p.X, p.Y)
		c.redraw()
	case StateMoveEdge:
		if c.edge == nil {
			c.state = StateIdle
			return
		}
		if c.selected == nil || c.selected != c.clicked {
			c.notice("nothing to move")
			return
		}
		c.edge.SetEnd(p.X, p.Y)
		c.redraw()
	}
}

func (c *Controller) release(ev Event) {
	wasDown := c.pointerDown
	c.pointerDown = false
	c.selected = nil

	switch c.state {
	case StatePanCanvas, StateZoomCanvas:
		c.state = StateIdle
		return
	case StateMoveEdge:
		c.finishEdge(Point{X: ev.X, Y: ev.Y})
		return
	case StateMoveNode:
		c.state = StateIdle
	}

	if !wasDown || c.moved || c.longPressed {
		return
	}
	c.tap(ev.Time)
}

// tap handles a press released without travel. A second tap on the same
// node inside the double-tap window starts a new edge from it.
func (c *Controller) tap(now time.Time) {
	x, y := c.down.X, c.down.Y

	if c.clicked != nil {
		prev := c.clicked
		c.clicked = c.scene.FindKind(x, y, prev.Kind())
		if c.clicked == prev && now.Sub(c.lastTapAt) < c.doubleTap {
			c.lastTapAt = now
			if n, ok := prev.(*Node); ok && c.state == StateIdle {
				c.beginEdge(n)
			}
			return
		}
	}

	c.clicked = c.scene.Find(x, y)
	if c.clicked != nil {
		if c.clicked.Kind() == KindNode && c.state == StateIdle {
			c.state = StateMoveNode
		}
		c.lastTapAt = now
		return
	}
	if c.state != StateMoveNode && c.state != StateMoveEdge {
		c.state = StateIdle
	}
}

func (c *Controller) beginEdge(anchor *Node) {
	e := NewEdge(anchor, c.strokeWidth, c.scale)
	e.SetColor(c.edgeColor)
	if err := c.scene.Add(e); err != nil {
		c.logger.Warn("begin edge failed", slog.String("error", err.Error()))
		return
	}
	c.edge = e
	c.state = StateMoveEdge
	c.redraw()
}

// finishEdge binds the pending edge to the node under p, or drops it.
func (c *Controller) finishEdge(p Point) {
	e := c.edge
	c.edge = nil
	c.state = StateIdle
	if e == nil {
		return
	}
	// Releasing on the anchor would bind a zero-length loop; drop it instead.
	if to := c.scene.FindNode(p.X, p.Y); to != nil && to != e.FromNode() {
		e.SetToNode(to)
		center := to.Center()
		e.SetEnd(center.X, center.Y)
		e.SetEditable(false)
	} else if c.scene.Last() == e {
		c.scene.RemoveLast()
	} else {
		c.scene.Remove(e)
	}
	c.redraw()
}

func (c *Controller) cancelEdge() {
	if c.edge == nil {
		return
	}
	c.scene.Remove(c.edge)
	c.edge = nil
	c.redraw()
}

func (c *Controller) longPress() {
	if !c.pointerDown || c.moved || c.longPressed {
		return
	}
	if c.state != StateIdle && c.state != StateMoveNode {
		return
	}
	item := c.scene.Find(c.down.X, c.down.Y)
	if item == nil {
		return
	}
	c.longPressed = true
	c.menuItem = item
	if item.Kind() == KindNode {
		c.state = StateEditNode
	} else {
		c.state = StateEditEdge
	}
	c.emit(Effect{
		Kind:    EffectShowMenu,
		Item:    item,
		At:      c.down,
		Options: []MenuOption{MenuDelete, MenuOpen},
	})
}

func (c *Controller) zoomBegin() {
	if c.state == StateMoveEdge {
		c.cancelEdge()
	}
	if c.state == StateEditNode || c.state == StateEditEdge {
		c.closeMenu()
	}
	c.state = StateZoomCanvas
}

func (c *Controller) zoomUpdate(factor float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	scale := clamp(c.scale*factor, c.minScale, c.maxScale)
	if scale == c.scale {
		return
	}
	c.scale = scale
	c.scene.Scale(scale)
	c.redraw()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
