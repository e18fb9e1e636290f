package main

import (
	"fmt"
	"os"
)

// ExportTXT writes the terminal rendering of the viewport as plain text.
func ExportTXT(filename string, scene *Scene, grid CellGrid, cols, rows int) error {
	if scene.Len() == 0 {
		return ErrNothingToExport
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if cols < 1 {
		cols = 80 // Default minimum width
	}
	if rows < 1 {
		rows = 24 // Default minimum height
	}

	// Render exactly as it appears, without selection marks or colors
	for _, line := range renderCells(scene, grid, cols, rows, nil).Lines(false) {
		if _, err := fmt.Fprintln(file, line); err != nil {
			return err
		}
	}
	return nil
}
