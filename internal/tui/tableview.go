package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"

	"github.com/NeedsSoySauce/Packet-Browser/internal/table"
)

// lipgloss/table passes the header to StyleFunc as row 0.
const (
	headerRow    = 0
	firstDataRow = 1
)

// tableView draws a table.Model with a cell cursor. The cursor column
// indexes the visible columns only.
type tableView struct {
	model  *table.Model
	row    int
	col    int
	offset int
	height int
}

func newTableView(m *table.Model, height int) *tableView {
	return &tableView{model: m, height: max(height, 3)}
}

// setModel swaps in a new query result and keeps the cursor in range.
func (v *tableView) setModel(m *table.Model) {
	v.model = m
	v.clamp()
}

func (v *tableView) setHeight(height int) {
	v.height = max(height, 3)
	v.clamp()
}

func (v *tableView) move(dRow, dCol int) {
	v.row += dRow
	v.col += dCol
	v.clamp()
}

func (v *tableView) home() {
	v.row = 0
	v.clamp()
}

func (v *tableView) end() {
	if v.model != nil {
		v.row = v.model.RowCount() - 1
	}
	v.clamp()
}

func (v *tableView) clamp() {
	if v.model == nil {
		v.row, v.col, v.offset = 0, 0, 0
		return
	}
	v.row = clampCursor(v.row, v.model.RowCount())
	v.col = clampCursor(v.col, len(v.model.VisibleColumns()))
	if v.row < v.offset {
		v.offset = v.row
	}
	if v.row >= v.offset+v.height {
		v.offset = v.row - v.height + 1
	}
}

func clampCursor(cursor, length int) int {
	if length <= 0 {
		return 0
	}
	if cursor < 0 {
		return 0
	}
	if cursor >= length {
		return length - 1
	}
	return cursor
}

// cell returns the model coordinates under the cursor.
func (v *tableView) cell() (row, col int, ok bool) {
	if v.model == nil {
		return 0, 0, false
	}
	cols := v.model.VisibleColumns()
	if len(cols) == 0 || v.row >= v.model.RowCount() {
		return 0, 0, false
	}
	return v.row, cols[v.col], true
}

// cellText is the display text under the cursor.
func (v *tableView) cellText() string {
	row, col, ok := v.cell()
	if !ok {
		return ""
	}
	return v.model.CellText(row, col)
}

// sizeRow returns the cursor row when it holds a packet.
func (v *tableView) sizeRow() (int, bool) {
	if v.model == nil || v.row >= v.model.DataRowCount() {
		return 0, false
	}
	return v.row, true
}

func (v *tableView) view(s Styles, focused bool) string {
	if v.model == nil {
		return s.Dim.Render("No table")
	}
	m := v.model
	cols := m.VisibleColumns()

	headers := []string{"Line"}
	for _, col := range cols {
		headers = append(headers, m.ColumnName(col))
	}

	last := min(v.offset+v.height, m.RowCount())
	aggregates := m.Aggregates()
	var rows [][]string
	for row := v.offset; row < last; row++ {
		label := ""
		if m.IsAggregateRow(row) {
			label = aggregates[row-m.DataRowCount()].Label
		} else if p, err := m.PacketAt(row); err == nil {
			label = strconv.Itoa(p.LineIndex())
		}
		cells := []string{label}
		for _, col := range cols {
			cells = append(cells, m.CellText(row, col))
		}
		rows = append(rows, cells)
	}

	t := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.TableEdge).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(r, c int) lipgloss.Style {
			return v.cellStyle(s, focused, r, c)
		})
	return t.Render()
}

// cellStyle maps a lipgloss table row and column back to the model.
func (v *tableView) cellStyle(s Styles, focused bool, r, c int) lipgloss.Style {
	if r == headerRow {
		return s.Header
	}
	row := v.offset + r - firstDataRow
	switch {
	case focused && row == v.row && c == v.col+1:
		return s.Cursor
	case v.model.IsAggregateRow(row):
		return s.Aggregate
	default:
		return s.Cell
	}
}
