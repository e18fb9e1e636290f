package main

import (
	"fmt"
	"math"
)

// Record keys shared with the scene file.
const (
	keyType        = "type"
	keyID          = "id"
	keyX           = "x"
	keyY           = "y"
	keyRadius      = "radius"
	keyColor       = "color"
	keyTitle       = "title"
	keyDescription = "description"
	keyFrom        = "from"
	keyTo          = "to"
	keyStrokeWidth = "stroke_width"
	keyArrow       = "arrow"
)

// Record is the flat key-value form of a drawable, already parsed by the
// persistence layer.
type Record map[string]any

// NodeResolver looks a node up by id while edges are rebuilt.
type NodeResolver func(id string) (*Node, bool)

func (r Record) Type() string {
	s, _ := r[keyType].(string)
	return s
}

func (r Record) str(key string) (string, error) {
	v, ok := r[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T", ErrBadField, key, v)
	}
	return s, nil
}

// optStr treats an absent text field as empty.
func (r Record) optStr(key string) (string, error) {
	if _, ok := r[key]; !ok {
		return "", nil
	}
	return r.str(key)
}

func (r Record) num(key string) (float64, error) {
	v, ok := r[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	}
	return 0, fmt.Errorf("%w: %s is %T", ErrBadField, key, v)
}

// color reads a packed ARGB value.
func (r Record) color(key string) (uint32, error) {
	v, err := r.num(key)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %s %v out of range", ErrBadField, key, v)
	}
	return uint32(v), nil
}

func (n *Node) ToRecord() Record {
	return Record{
		keyType:        KindNode.String(),
		keyID:          n.id,
		keyX:           n.x,
		keyY:           n.y,
		keyRadius:      n.radius,
		keyColor:       n.color,
		keyTitle:       n.title,
		keyDescription: n.description,
	}
}

// ToRecord fails for an edge that is still being drawn.
func (e *Edge) ToRecord() Record {
	if e.from == nil || e.to == nil {
		return nil
	}
	return Record{
		keyType:        KindEdge.String(),
		keyID:          e.id,
		keyFrom:        e.from.id,
		keyTo:          e.to.id,
		keyStrokeWidth: e.strokeWidth,
		keyColor:       e.color,
		keyTitle:       e.title,
		keyDescription: e.description,
		keyArrow:       e.arrow.String(),
	}
}

// NodeFromRecord rebuilds a node saved at the given canvas scale.
func NodeFromRecord(r Record, scale float64) (*Node, error) {
	if t := r.Type(); t != KindNode.String() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	id, err := r.str(keyID)
	if err != nil {
		return nil, err
	}
	x, err := r.num(keyX)
	if err != nil {
		return nil, err
	}
	y, err := r.num(keyY)
	if err != nil {
		return nil, err
	}
	radius, err := r.num(keyRadius)
	if err != nil {
		return nil, err
	}
	if radius <= 0 {
		return nil, fmt.Errorf("%w: %s must be positive", ErrBadField, keyRadius)
	}
	col, err := r.color(keyColor)
	if err != nil {
		return nil, err
	}
	title, err := r.optStr(keyTitle)
	if err != nil {
		return nil, err
	}
	desc, err := r.optStr(keyDescription)
	if err != nil {
		return nil, err
	}

	if scale <= 0 {
		scale = 1
	}
	n := &Node{
		label:        label{title: title, description: desc, color: col},
		id:           id,
		x:            x,
		y:            y,
		radius:       radius,
		currentScale: scale,
	}
	return n, nil
}

// EdgeFromRecord rebuilds an edge once both of its nodes resolve.
func EdgeFromRecord(r Record, resolve NodeResolver, scale float64) (*Edge, error) {
	if t := r.Type(); t != KindEdge.String() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	id, err := r.str(keyID)
	if err != nil {
		return nil, err
	}
	fromID, err := r.str(keyFrom)
	if err != nil {
		return nil, err
	}
	toID, err := r.str(keyTo)
	if err != nil {
		return nil, err
	}
	from, ok := resolve(fromID)
	if !ok {
		return nil, fmt.Errorf("%w: from %s", ErrUnresolvedPeer, fromID)
	}
	to, ok := resolve(toID)
	if !ok {
		return nil, fmt.Errorf("%w: to %s", ErrUnresolvedPeer, toID)
	}
	stroke, err := r.num(keyStrokeWidth)
	if err != nil {
		return nil, err
	}
	if stroke < 0 {
		return nil, fmt.Errorf("%w: %s is negative", ErrBadField, keyStrokeWidth)
	}
	col, err := r.color(keyColor)
	if err != nil {
		return nil, err
	}
	title, err := r.optStr(keyTitle)
	if err != nil {
		return nil, err
	}
	desc, err := r.optStr(keyDescription)
	if err != nil {
		return nil, err
	}
	arrow, err := r.optStr(keyArrow)
	if err != nil {
		return nil, err
	}

	e := NewBoundEdge(id, from, to, stroke, scale)
	e.color = col
	e.title = title
	e.description = desc
	e.arrow = parseArrowShape(arrow)
	return e, nil
}
