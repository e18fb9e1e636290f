package main

import tea "github.com/charmbracelet/bubbletea"

const zoomStep = 1.1

// handleNavigation pans the canvas by whole cells in the key's direction.
func (m *model) handleNavigation(key string) (tea.Model, tea.Cmd) {
	speed := float64(m.getMoveSpeed(key))
	dx, dy := 0.0, 0.0
	switch key {
	case "h", "left", "H", "shift+left":
		dx = speed * m.grid.CellWidth
	case "l", "right", "L", "shift+right":
		dx = -speed * m.grid.CellWidth
	case "k", "up", "K", "shift+up":
		dy = speed * m.grid.CellHeight
	case "j", "down", "J", "shift+down":
		dy = -speed * m.grid.CellHeight
	}
	m.apply(m.ctrl.Pan(dx, dy))
	return m, nil
}

func (m *model) handleZoomKey(key string) (tea.Model, tea.Cmd) {
	factor := zoomStep
	if key == "-" || key == "_" {
		factor = 1 / zoomStep
	}
	m.zoom(factor)
	return m, nil
}

// zoom replays a one-step pinch through the gesture controller.
func (m *model) zoom(factor float64) {
	m.apply(m.ctrl.HandleEvent(Event{Kind: EventZoomBegin}))
	m.apply(m.ctrl.HandleEvent(Event{Kind: EventZoomUpdate, Factor: factor}))
	m.apply(m.ctrl.HandleEvent(Event{Kind: EventZoomEnd}))
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 1
	}
}
