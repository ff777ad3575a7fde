package tui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/NeedsSoySauce/Packet-Browser/internal/app"
	"github.com/NeedsSoySauce/Packet-Browser/internal/table"
)

const statusTimeout = 3 * time.Second

// Replaced in tests.
var (
	clipboardWrite = clipboard.WriteAll
	clipboardRead  = clipboard.ReadAll
)

type focusArea int

const (
	focusControls focusArea = iota
	focusTable
)

// openedMsg carries the result of the background load.
type openedMsg app.OpenResult

// clearStatusMsg expires a status line unless a newer one replaced it.
type clearStatusMsg struct{ seq int }

// Model is the packet browser screen: a controls panel above a table.
type Model struct {
	path    string
	styles  Styles
	opening <-chan app.OpenResult
	session *app.Session
	loading bool
	loadErr error

	controls *controlsPanel
	table    *tableView
	focus    focusArea

	editForm  *huh.Form
	editRow   int
	editValue string

	status      string
	statusIsErr bool
	statusSeq   int

	width  int
	height int
}

// NewModel shows a loading screen until opening delivers a session.
func NewModel(path string, opening <-chan app.OpenResult) *Model {
	m := &Model{
		path:     path,
		styles:   DefaultStyles,
		opening:  opening,
		loading:  true,
		controls: newControlsPanel(),
		width:    DefaultWidth,
		height:   DefaultHeight,
	}
	SetEnabled(m.controls, false)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitForOpen(m.opening)
}

func waitForOpen(ch <-chan app.OpenResult) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return openedMsg{Err: fmt.Errorf("load cancelled")}
		}
		return openedMsg(res)
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.editForm != nil {
		return m.updateEditForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.table != nil {
			m.table.setHeight(m.tableHeight())
		}
		return m, nil

	case openedMsg:
		return m.handleOpened(msg)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleOpened(msg openedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.Err != nil {
		m.loadErr = msg.Err
		return m, nil
	}
	m.session = msg.Session
	SetEnabled(m.controls, true)
	m.reloadChoices()
	m.table = newTableView(m.session.Table(m.controls.query()), m.tableHeight())
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	if m.session == nil {
		return m, nil
	}

	switch msg.String() {
	case "tab", "shift+tab":
		if m.focus == focusControls {
			m.focus = focusTable
		} else {
			m.focus = focusControls
		}
		return m, nil
	}

	if m.focus == focusControls {
		return m.handleControlsKey(msg)
	}
	return m.handleTableKey(msg)
}

func (m *Model) handleControlsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var reload, changed bool
	switch msg.String() {
	case "up", "k":
		m.controls.focusNext(-1)
	case "down", "j":
		m.controls.focusNext(1)
	case "left", "h":
		reload, changed = m.controls.change(-1)
	case "right", "l", " ":
		reload, changed = m.controls.change(1)
	case "enter":
		m.focus = focusTable
	}
	if reload {
		m.reloadChoices()
	}
	if changed {
		m.table.setModel(m.session.Table(m.controls.query()))
	}
	return m, nil
}

func (m *Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.table.move(-1, 0)
	case "down", "j":
		m.table.move(1, 0)
	case "left", "h":
		m.table.move(0, -1)
	case "right", "l":
		m.table.move(0, 1)
	case "pgup":
		m.table.move(-m.table.height, 0)
	case "pgdown":
		m.table.move(m.table.height, 0)
	case "home", "g":
		m.table.home()
	case "end", "G":
		m.table.end()
	case "e", "enter":
		return m.startEdit()
	case "c":
		return m.copyCell()
	case "v":
		return m.pasteSize()
	}
	return m, nil
}

func (m *Model) reloadChoices() {
	m.controls.setChoices(m.session.Options(m.controls.query()))
}

func (m *Model) startEdit() (tea.Model, tea.Cmd) {
	row, ok := m.table.sizeRow()
	if !ok {
		return m, m.setStatus("Only packet sizes can be edited", true)
	}
	model := m.table.model
	m.editRow = row
	m.editValue = model.CellText(row, model.SizeColumn())

	line := 0
	if p, err := model.PacketAt(row); err == nil {
		line = p.LineIndex()
	}
	accept := m.session.TableOptions().AcceptSize
	m.editForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Packet size").
				Description(fmt.Sprintf("IP packet size for line %d", line)).
				Key("size").
				Value(&m.editValue).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("enter a whole number")
					}
					if accept != nil && !accept(n) {
						return fmt.Errorf("%d is not an accepted size", n)
					}
					return nil
				}),
		),
	)
	return m, m.editForm.Init()
}

func (m *Model) updateEditForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.editForm = nil
		return m, nil
	}

	formModel, cmd := m.editForm.Update(msg)
	m.editForm = formModel.(*huh.Form)
	switch m.editForm.State {
	case huh.StateCompleted:
		m.editForm = nil
		return m, m.applySize(m.editRow, m.editValue)
	case huh.StateAborted:
		m.editForm = nil
		return m, nil
	}
	return m, cmd
}

// applySize writes raw into the size cell of row and reports the outcome.
func (m *Model) applySize(row int, raw string) tea.Cmd {
	model := m.table.model
	result, err := model.SetCellValue(row, model.SizeColumn(), raw)
	switch {
	case err != nil:
		return m.setStatus(fmt.Sprintf("Not saved: %v", err), true)
	case result == table.EditRejected:
		return m.setStatus(fmt.Sprintf("Invalid size %q", strings.TrimSpace(raw)), true)
	case result == table.EditUnchanged:
		return m.setStatus("No change", false)
	}
	return m.setStatus("Changes saved", false)
}

func (m *Model) copyCell() (tea.Model, tea.Cmd) {
	text := m.table.cellText()
	if err := clipboardWrite(text); err != nil {
		return m, m.setStatus(fmt.Sprintf("Copy failed: %v", err), true)
	}
	return m, m.setStatus(fmt.Sprintf("Copied %q", text), false)
}

func (m *Model) pasteSize() (tea.Model, tea.Cmd) {
	row, ok := m.table.sizeRow()
	if !ok {
		return m, m.setStatus("Only packet sizes can be edited", true)
	}
	text, err := clipboardRead()
	if err != nil {
		return m, m.setStatus(fmt.Sprintf("Paste failed: %v", err), true)
	}
	return m, m.applySize(row, text)
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusIsErr = isErr
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// tableHeight leaves room for the title, controls panel, table chrome and footer.
func (m *Model) tableHeight() int {
	return m.height - 16
}

// View implements tea.Model.
func (m *Model) View() string {
	s := m.styles
	title := s.Title.Render("Packet Browser") + s.Dim.Render(filepath.Base(m.path))

	var body string
	switch {
	case m.loading:
		body = s.Box.Render(s.Warning.Render("Loading " + m.path + " ..."))
	case m.loadErr != nil:
		body = s.Box.Render(s.Error.Render(m.loadErr.Error()))
	case m.editForm != nil:
		body = s.BoxFocused.Render(m.editForm.View())
	default:
		body = m.table.view(s, m.focus == focusTable)
	}

	controls := m.controls.view(s, m.focus == focusControls)
	return lipgloss.JoinVertical(lipgloss.Left, title, controls, body, m.footer())
}

func (m *Model) footer() string {
	s := m.styles
	if m.status != "" {
		if m.statusIsErr {
			return s.Error.Render(m.status)
		}
		return s.Success.Render(m.status)
	}
	switch {
	case m.session == nil:
		return keyHint(s, "q", "quit")
	case m.editForm != nil:
		return keyHint(s, "enter", "save", "esc", "cancel")
	case m.focus == focusControls:
		return keyHint(s, "↑/↓", "control", "←/→", "change", "tab", "table", "q", "quit")
	default:
		return keyHint(s, "arrows", "move", "e", "edit size", "c", "copy", "v", "paste size", "tab", "controls", "q", "quit")
	}
}
