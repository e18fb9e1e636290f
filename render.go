package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

func labelFace(size float64) (font.Face, error) {
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// RenderFrame draws one frame of the viewport: origin top-left, Y down,
// off-screen drawables skipped.
func RenderFrame(scene *Scene, width, height int) (image.Image, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	face, err := labelFace(labelFontSize)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)

	scene.Render(dc, float64(width), float64(height))
	return dc.Image(), nil
}

// ExportPNG writes the viewport to a PNG file.
func ExportPNG(filename string, scene *Scene, width, height int) error {
	if scene.Len() == 0 {
		return ErrNothingToExport
	}
	img, err := RenderFrame(scene, width, height)
	if err != nil {
		return err
	}
	return gg.SavePNG(filename, img)
}
