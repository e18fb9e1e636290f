package main

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/google/uuid"
)

// Point is a position in canvas units: origin top-left, Y growing downward.
type Point struct {
	X, Y float64
}

// Drawable is anything the scene can draw, hit-test and transform.
type Drawable interface {
	ID() string
	Kind() DrawableKind
	Title() string
	SetTitle(title string)
	Description() string
	SetDescription(description string)
	Color() uint32
	SetColor(argb uint32)

	Contains(x, y float64) bool
	OnScreen(width, height float64) bool
	Move(dx, dy float64)
	Scale(scale float64)
	Draw(dc *gg.Context)
	ToRecord() Record
}

// label holds the editable text and color shared by nodes and edges.
type label struct {
	title       string
	description string
	color       uint32
}

func (l *label) Title() string { return l.title }
func (l *label) SetTitle(title string) { l.title = title }
func (l *label) Description() string { return l.description }
func (l *label) SetDescription(d string) { l.description = d }
func (l *label) Color() uint32 { return l.color }
func (l *label) SetColor(argb uint32) { l.color = argb }

func newID() string {
	return uuid.New().String()
}

// rgba converts a packed 0xAARRGGBB color.
func rgba(argb uint32) color.RGBA {
	return color.RGBA{
		A: uint8(argb >> 24),
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
	}
}

// hexColor drops alpha, terminals have no use for it.
func hexColor(argb uint32) string {
	return fmt.Sprintf("#%06X", argb&0xFFFFFF)
}

// rectsIntersect reports whether two rectangles overlap with a non-empty area.
func rectsIntersect(l1, t1, r1, b1, l2, t2, r2, b2 float64) bool {
	return l1 < r2 && l2 < r1 && t1 < b2 && t2 < b1
}
