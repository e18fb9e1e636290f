package main

import "time"

// State is the interpreted intent of the pointer interaction in progress.
type State int

const (
	StateIdle State = iota
	StateMoveNode
	StateMoveEdge
	StateEditNode
	StateEditEdge
	StatePanCanvas
	StateZoomCanvas
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateMoveNode:
		return "MOVE_NODE"
	case StateMoveEdge:
		return "MOVE_EDGE"
	case StateEditNode:
		return "EDIT_NODE"
	case StateEditEdge:
		return "EDIT_EDGE"
	case StatePanCanvas:
		return "PAN_CANVAS"
	case StateZoomCanvas:
		return "ZOOM_CANVAS"
	}
	return "UNKNOWN"
}

type DrawableKind int

const (
	KindNode DrawableKind = iota
	KindEdge
)

func (k DrawableKind) String() string {
	if k == KindEdge {
		return "edge"
	}
	return "node"
}

type ArrowShape int

const (
	ArrowNone ArrowShape = iota
	ArrowStart
	ArrowEnd
	ArrowDouble
)

func (a ArrowShape) String() string {
	switch a {
	case ArrowStart:
		return "START"
	case ArrowEnd:
		return "END"
	case ArrowDouble:
		return "DOUBLE"
	}
	return "NONE"
}

// parseArrowShape falls back to ArrowNone for anything it does not know.
func parseArrowShape(s string) ArrowShape {
	switch s {
	case "START":
		return ArrowStart
	case "END":
		return ArrowEnd
	case "DOUBLE":
		return ArrowDouble
	}
	return ArrowNone
}

// Next cycles none -> end -> start -> double -> none.
func (a ArrowShape) Next() ArrowShape {
	switch a {
	case ArrowNone:
		return ArrowEnd
	case ArrowEnd:
		return ArrowStart
	case ArrowStart:
		return ArrowDouble
	}
	return ArrowNone
}

type MenuOption int

const (
	MenuDelete MenuOption = iota
	MenuOpen
)

func (o MenuOption) String() string {
	if o == MenuOpen {
		return "open"
	}
	return "delete"
}

const (
	defaultDoubleTapWindow = 500 * time.Millisecond
	defaultLongPress       = 500 * time.Millisecond
	defaultTouchSlop       = 4.0
	defaultMinScale        = 0.25
	defaultMaxScale        = 4.0

	defaultNodeRadius  = 60.0
	defaultStrokeWidth = 12.0
	defaultNodeColor   = 0xFF3F51B5
	defaultEdgeColor   = 0xFFFF0000
	defaultTitleColor  = 0xFF0000FF

	// Edge hit tolerance and arrow length, in stroke widths.
	edgeHitStrokes   = 5
	arrowHeadStrokes = 4
	// Label offset below the edge, in stroke widths.
	labelOffsetStrokes = 3

	handleRadius      = 30.0
	handleStrokeWidth = 4.0
	labelFontSize     = 30.0

	// Distance of the arrow direction point from the tip.
	arrowDirectionStep = 10.0

	// Default terminal cell size in canvas units.
	defaultCellWidth  = 8.0
	defaultCellHeight = 16.0
)
