package report

import (
	"fmt"
	"io"
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

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	aggregateStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("12"))
	borderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderText draws the visible columns of m followed by the aggregate rows.
// The first column holds the source line of each packet, or the aggregate
// label.
func RenderText(m *table.Model) string {
	cols := m.VisibleColumns()

	headers := []string{"Line"}
	for _, col := range cols {
		headers = append(headers, m.ColumnName(col))
	}

	rows := make([][]string, 0, m.RowCount())
	aggregates := m.Aggregates()
	for row := 0; row < m.RowCount(); row++ {
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

	dataRows := m.DataRowCount()
	t := lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return rowStyle(row, dataRows)
		})
	return t.Render()
}

// rowStyle picks the style for a lipgloss table row index.
func rowStyle(row, dataRows int) lipgloss.Style {
	switch {
	case row == headerRow:
		return headerStyle
	case row-firstDataRow >= dataRows:
		return aggregateStyle
	default:
		return cellStyle
	}
}

// WriteText writes RenderText(m) and a trailing newline to w.
func WriteText(w io.Writer, m *table.Model) error {
	if _, err := fmt.Fprintln(w, RenderText(m)); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}
