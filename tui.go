package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Own saves fire the file watcher too; reloads this soon after one are ignored.
const selfWriteGrace = time.Second

type Mode int

const (
	ModeCanvas Mode = iota
	ModeMenu
	ModeEditing
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpSavePNG
	FileOpSaveTXT
)

type editField int

const (
	fieldTitle editField = iota
	fieldDescription
)

type longPressMsg struct {
	seq int
}

type fileChangedMsg struct{}

var (
	statusStyle  = lipgloss.NewStyle().Reverse(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	menuStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#3F51B5"))
	activeStyle  = menuStyle.Copy().Bold(true).Underline(true)
)

type model struct {
	cfg    *Config
	logger *slog.Logger
	ctrl   *Controller
	grid   CellGrid

	width  int
	height int
	mode   Mode
	help   bool

	// Pointer tracking for long press and the pan button.
	pressSeq  int
	pressing  bool
	rightDown bool
	pointer   Point

	menuItem    Drawable
	menuOptions []MenuOption
	menuIndex   int

	openItem      Drawable
	field         editField
	editTitle     string
	editDesc      string
	editCursorPos int

	filename       string
	fileInput      string
	fileOp         FileOperation
	lastSave       time.Time
	errorMessage   string
	successMessage string
}

func newModel(cfg *Config, logger *slog.Logger, scene *Scene, scale float64, filename string) *model {
	nodeColor, edgeColor := cfg.Canvas.Colors()
	ctrl := NewController(scene,
		WithLogger(logger),
		WithScaleBounds(cfg.Canvas.MinScale, cfg.Canvas.MaxScale),
		WithScale(scale),
		WithDoubleTapWindow(cfg.Gesture.DoubleTapWindow()),
		WithTouchSlop(cfg.Gesture.TouchSlop),
		WithShapeDefaults(cfg.Canvas.NodeRadius, cfg.Canvas.EdgeStrokeWidth),
		WithColors(nodeColor, edgeColor),
	)
	ctrl.ClearDirty()
	return &model{
		cfg:      cfg,
		logger:   logger,
		ctrl:     ctrl,
		grid:     cfg.Canvas.Grid(),
		filename: filename,
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case longPressMsg:
		if msg.seq == m.pressSeq && m.pressing {
			m.apply(m.ctrl.HandleEvent(Event{Kind: EventLongPress, X: m.pointer.X, Y: m.pointer.Y}))
		}
		return m, nil

	case fileChangedMsg:
		m.reload()
		return m, nil

	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "esc", "q", "?":
				m.help = false
			}
			return m, nil
		}
		switch m.mode {
		case ModeMenu:
			return m.handleMenuKey(msg)
		case ModeEditing:
			return m.handleEditKey(msg)
		case ModeFileInput:
			return m.handleFileKey(msg)
		case ModeConfirm:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			default:
				m.mode = ModeCanvas
			}
			return m, nil
		default:
			return m.handleCanvasKey(msg)
		}
	}
	return m, nil
}

// handleMouse maps terminal mouse reports onto pointer events. The left
// button is the primary pointer, the right button a second finger that
// pans, and the wheel pinches.
func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeEditing || m.mode == ModeFileInput || m.mode == ModeConfirm || m.help {
		return m, nil
	}
	p := m.grid.ToCanvas(msg.X, msg.Y)
	m.pointer = p

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.zoom(zoomStep)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.zoom(1 / zoomStep)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonRight {
			m.rightDown = true
			m.pressing = false
			m.apply(m.ctrl.HandleEvent(Event{Kind: EventSecondPointerDown, X: p.X, Y: p.Y}))
			return m, nil
		}
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.errorMessage = ""
		m.successMessage = ""
		m.pressSeq++
		m.pressing = true
		m.apply(m.ctrl.HandleEvent(Event{Kind: EventPointerDown, X: p.X, Y: p.Y}))
		seq := m.pressSeq
		return m, tea.Tick(m.cfg.Gesture.LongPress(), func(time.Time) tea.Msg {
			return longPressMsg{seq: seq}
		})

	case tea.MouseActionMotion:
		if m.pressing || m.rightDown {
			m.apply(m.ctrl.HandleEvent(Event{Kind: EventPointerMove, X: p.X, Y: p.Y}))
		}

	case tea.MouseActionRelease:
		if !m.pressing && !m.rightDown {
			return m, nil
		}
		m.pressing = false
		m.rightDown = false
		m.apply(m.ctrl.HandleEvent(Event{Kind: EventPointerUp, X: p.X, Y: p.Y}))
	}
	return m, nil
}

// apply reflects a controller transition in the host's modes and messages.
func (m *model) apply(t Transition) {
	for _, e := range t.Effects {
		switch e.Kind {
		case EffectShowMenu:
			m.menuItem = e.Item
			m.menuOptions = e.Options
			m.menuIndex = 0
			m.mode = ModeMenu
		case EffectDismissMenu:
			if m.mode == ModeMenu {
				m.mode = ModeCanvas
			}
			m.menuItem = nil
			m.menuOptions = nil
		case EffectNotice:
			m.errorMessage = e.Message
		case EffectOpen:
			m.startEditing(e.Item)
		}
	}
	if t.From != t.To {
		m.logger.Debug("gesture", slog.String("from", t.From.String()), slog.String("to", t.To.String()))
	}
}

func (m *model) handleCanvasKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.successMessage = ""

	switch key := msg.String(); key {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.ctrl.Dirty() {
			m.mode = ModeConfirm
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.help = true
	case "n":
		p := m.pointer
		if p == (Point{}) {
			w, h := m.grid.Size(m.width, m.canvasRows())
			p = Point{X: w / 2, Y: h / 2}
		}
		if n := m.ctrl.AddNode(p.X, p.Y); n != nil {
			m.startEditing(n)
		}
	case "s":
		if m.filename == "" {
			m.promptFile(FileOpSave)
			return m, nil
		}
		m.save(m.filename)
	case "S":
		m.promptFile(FileOpSave)
	case "p":
		m.promptFile(FileOpSavePNG)
	case "t":
		m.promptFile(FileOpSaveTXT)
	case "+", "=", "-", "_":
		return m.handleZoomKey(key)
	case "h", "j", "k", "l", "H", "J", "K", "L",
		"left", "right", "up", "down",
		"shift+left", "shift+right", "shift+up", "shift+down":
		return m.handleNavigation(key)
	case "esc":
		if e := m.ctrl.PendingEdge(); e != nil {
			// Dropping the pending edge is a release over empty space.
			m.apply(m.ctrl.HandleEvent(Event{Kind: EventPointerUp, X: -1e9, Y: -1e9}))
		}
	}
	return m, nil
}

func (m *model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.apply(m.ctrl.DismissMenu())
	case "d":
		m.apply(m.ctrl.Delete(m.menuItem))
		m.closeMenu()
	case "o":
		m.apply(m.ctrl.Open(m.menuItem))
		if m.mode == ModeMenu {
			m.closeMenu()
		}
	case "left", "h":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "right", "l", "tab":
		if m.menuIndex < len(m.menuOptions)-1 {
			m.menuIndex++
		}
	case "enter":
		if m.menuIndex < len(m.menuOptions) {
			switch m.menuOptions[m.menuIndex] {
			case MenuDelete:
				return m.handleMenuKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
			case MenuOpen:
				return m.handleMenuKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
			}
		}
	}
	return m, nil
}

func (m *model) closeMenu() {
	if m.mode == ModeMenu {
		m.mode = ModeCanvas
	}
	m.menuItem = nil
	m.menuOptions = nil
	m.menuIndex = 0
}

func (m *model) startEditing(item Drawable) {
	if item == nil {
		return
	}
	m.closeMenu()
	m.openItem = item
	m.field = fieldTitle
	m.editTitle = item.Title()
	m.editDesc = item.Description()
	m.editCursorPos = len([]rune(m.editTitle))
	m.mode = ModeEditing
}

func (m *model) editText() *string {
	if m.field == fieldDescription {
		return &m.editDesc
	}
	return &m.editTitle
}

func (m *model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	text := m.editText()
	runes := []rune(*text)
	if m.editCursorPos > len(runes) {
		m.editCursorPos = len(runes)
	}

	switch {
	case msg.Type == tea.KeyEscape:
		m.finishEditing(false)
	case msg.Type == tea.KeyEnter || msg.Type == tea.KeyCtrlS:
		m.finishEditing(true)
	case msg.Type == tea.KeyTab:
		if m.field == fieldTitle {
			m.field = fieldDescription
		} else {
			m.field = fieldTitle
		}
		m.editCursorPos = len([]rune(*m.editText()))
	case msg.Type == tea.KeyCtrlV:
		pasted, err := readClipboardText()
		if err != nil {
			m.errorMessage = fmt.Sprintf("paste failed: %v", err)
			return m, nil
		}
		insert := []rune(cleanClipboardText(pasted))
		*text = string(runes[:m.editCursorPos]) + string(insert) + string(runes[m.editCursorPos:])
		m.editCursorPos += len(insert)
	case msg.Type == tea.KeyCtrlY:
		if err := writeClipboardText(*text); err != nil {
			m.errorMessage = fmt.Sprintf("copy failed: %v", err)
		} else {
			m.successMessage = "Copied to clipboard"
		}
	case msg.Type == tea.KeyCtrlA:
		if e, ok := m.openItem.(*Edge); ok {
			e.SetArrowShape(e.ArrowShape().Next())
			m.ctrl.Invalidate()
			m.successMessage = "Arrow: " + e.ArrowShape().String()
		}
	case msg.Type == tea.KeyLeft:
		if m.editCursorPos > 0 {
			m.editCursorPos--
		}
	case msg.Type == tea.KeyRight:
		if m.editCursorPos < len(runes) {
			m.editCursorPos++
		}
	case msg.Type == tea.KeyBackspace:
		if m.editCursorPos > 0 {
			*text = string(runes[:m.editCursorPos-1]) + string(runes[m.editCursorPos:])
			m.editCursorPos--
		}
	case msg.Type == tea.KeyDelete:
		if m.editCursorPos < len(runes) {
			*text = string(runes[:m.editCursorPos]) + string(runes[m.editCursorPos+1:])
		}
	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		insert := msg.Runes
		if msg.Type == tea.KeySpace {
			insert = []rune{' '}
		}
		*text = string(runes[:m.editCursorPos]) + string(insert) + string(runes[m.editCursorPos:])
		m.editCursorPos += len(insert)
	}
	return m, nil
}

func (m *model) finishEditing(commit bool) {
	if commit && m.openItem != nil {
		m.openItem.SetTitle(strings.TrimSpace(m.editTitle))
		m.openItem.SetDescription(strings.TrimSpace(m.editDesc))
		m.ctrl.Invalidate()
		m.logger.Debug("drawable edited",
			slog.String("id", m.openItem.ID()),
			slog.String("kind", m.openItem.Kind().String()))
	}
	m.openItem = nil
	m.editTitle = ""
	m.editDesc = ""
	m.editCursorPos = 0
	m.mode = ModeCanvas
}

func (m *model) promptFile(op FileOperation) {
	m.fileOp = op
	m.mode = ModeFileInput
	base := m.filename
	if base == "" {
		base = "mindmap.json"
	}
	switch op {
	case FileOpSavePNG:
		base = strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
	case FileOpSaveTXT:
		base = strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
	}
	m.fileInput = filepath.Base(base)
}

func (m *model) handleFileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ModeCanvas
		m.fileInput = ""
		m.errorMessage = ""
	case tea.KeyEnter:
		name := strings.TrimSpace(m.fileInput)
		if name == "" {
			m.errorMessage = "filename required"
			return m, nil
		}
		path, err := m.cfg.SavePath(name)
		if err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		switch m.fileOp {
		case FileOpSave:
			if err = m.save(path); err == nil {
				m.filename = path
			}
		case FileOpSavePNG:
			w, h := m.grid.Size(m.width, m.canvasRows())
			if err = ExportPNG(path, m.ctrl.Scene(), int(w), int(h)); err == nil {
				m.successMessage = "Exported " + filepath.Base(path)
			}
		case FileOpSaveTXT:
			if err = ExportTXT(path, m.ctrl.Scene(), m.grid, m.width, m.canvasRows()); err == nil {
				m.successMessage = "Exported " + filepath.Base(path)
			}
		}
		if err != nil {
			m.errorMessage = err.Error()
			m.logger.Error("file operation failed", slog.String("file", path), slog.String("error", err.Error()))
			return m, nil
		}
		m.mode = ModeCanvas
		m.fileInput = ""
	case tea.KeyBackspace:
		if r := []rune(m.fileInput); len(r) > 0 {
			m.fileInput = string(r[:len(r)-1])
		}
	case tea.KeyRunes:
		m.fileInput += string(msg.Runes)
	}
	return m, nil
}

func (m *model) save(path string) error {
	if err := SaveFile(path, m.ctrl.Scene(), m.ctrl.Scale(), m.logger); err != nil {
		m.errorMessage = err.Error()
		return err
	}
	m.lastSave = time.Now()
	m.ctrl.ClearDirty()
	m.successMessage = "Saved " + filepath.Base(path)
	return nil
}

// reload swaps in the scene file after an outside edit.
func (m *model) reload() {
	if m.filename == "" || time.Since(m.lastSave) < selfWriteGrace {
		return
	}
	if m.mode == ModeEditing {
		m.finishEditing(false)
	}
	scene, scale, err := LoadFile(m.filename, m.logger)
	if err != nil {
		m.errorMessage = "reload failed: " + err.Error()
		return
	}
	m.closeMenu()
	m.pressing = false
	m.rightDown = false
	m.ctrl.Replace(scene, scale)
	m.ctrl.ClearDirty()
	m.successMessage = "Reloaded " + filepath.Base(m.filename)
}

func (m *model) canvasRows() int {
	if m.height < 2 {
		return 1
	}
	return m.height - 1
}

func (m *model) View() string {
	if m.help {
		return m.helpView()
	}
	cols := max(m.width, 1)
	marked := m.menuItem
	if marked == nil {
		marked = m.openItem
	}
	lines := renderCells(m.ctrl.Scene(), m.grid, cols, m.canvasRows(), marked).Lines(true)

	var result strings.Builder
	result.WriteString(strings.Join(lines, "\n"))
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

func (m *model) statusLine() string {
	var status string
	switch m.mode {
	case ModeMenu:
		var opts []string
		for i, o := range m.menuOptions {
			label := fmt.Sprintf(" %s ", o)
			if i == m.menuIndex {
				opts = append(opts, activeStyle.Render(label))
			} else {
				opts = append(opts, menuStyle.Render(label))
			}
		}
		kind := ""
		if m.menuItem != nil {
			kind = m.menuItem.Kind().String()
		}
		return fmt.Sprintf("Edit %s: %s  d=delete, o=open, Esc=dismiss", kind, strings.Join(opts, " "))
	case ModeEditing:
		name := "Title"
		if m.field == fieldDescription {
			name = "Description"
		}
		runes := []rune(*m.editText())
		pos := min(m.editCursorPos, len(runes))
		text := string(runes[:pos]) + "█" + string(runes[pos:])
		status = fmt.Sprintf("Mode: EDIT | %s: %s | Tab=field, Ctrl+V=paste, Ctrl+Y=copy", name, text)
		if _, ok := m.openItem.(*Edge); ok {
			status += ", Ctrl+A=arrow"
		}
		status += ", Enter=save, Esc=cancel"
	case ModeFileInput:
		var opStr string
		switch m.fileOp {
		case FileOpSave:
			opStr = "Save"
		case FileOpSavePNG:
			opStr = "Export PNG"
		case FileOpSaveTXT:
			opStr = "Export TXT"
		}
		status = fmt.Sprintf("Mode: FILE | %s filename: %s█ | Enter=confirm, Esc=cancel", opStr, m.fileInput)
	case ModeConfirm:
		status = "Mode: CONFIRM | Quit without saving? (y/n)"
	default:
		status = fmt.Sprintf("Mode: %s | Zoom: %.0f%% | Items: %d", m.ctrl.State(), m.ctrl.Scale()*100, m.ctrl.Scene().Len())
		if m.filename != "" {
			name := filepath.Base(m.filename)
			if m.ctrl.Dirty() {
				name += " [+]"
			}
			status += " | " + name
		}
		if m.errorMessage == "" && m.successMessage == "" {
			status += " | ? for help | q to quit"
		}
	}

	line := statusStyle.Render(status)
	if m.errorMessage != "" {
		line += " " + errorStyle.Render("ERROR: "+m.errorMessage)
	} else if m.successMessage != "" {
		line += " " + successStyle.Render(m.successMessage)
	}
	return line
}

func (m *model) helpView() string {
	helpLines := []string{
		"Mind Canvas Help",
		"================",
		"",
		"Mouse:",
		"------",
		"  Click node          Select it; drag to move",
		"  Double-click node   Start an edge; drag or click onto another node to connect",
		"  Hold left button    Open the edit menu of the node or edge under the pointer",
		"  Right drag          Pan the canvas",
		"  Wheel               Zoom in/out",
		"",
		"Keys:",
		"-----",
		"  n                   New node at the pointer",
		"  h/j/k/l, arrows     Pan (Shift for faster)",
		"  +/-                 Zoom in/out",
		"  s / S               Save / Save as",
		"  p / t               Export PNG / TXT",
		"  Esc                 Drop a pending edge",
		"  q                   Quit",
		"",
		"Edit menu:",
		"----------",
		"  d                   Delete (a node takes its edges with it)",
		"  o                   Open title and description",
		"  Esc                 Dismiss",
		"",
		"Press ? or Esc to close",
	}
	return strings.Join(helpLines, "\n")
}
