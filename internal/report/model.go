package report

import (
	"github.com/NeedsSoySauce/Packet-Browser/internal/table"
)

// Table is the serializable form of a table model. Cells follow Columns and
// hold nil where a value is absent.
type Table struct {
	Title      string      `json:"title,omitempty"`
	Columns    []string    `json:"columns"`
	Rows       []Row       `json:"rows"`
	Aggregates []Aggregate `json:"aggregates"`
}

// Row is one packet.
type Row struct {
	Line  int   `json:"line"`
	Cells []any `json:"cells"`
}

// Aggregate is one summary row.
type Aggregate struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// FromModel copies the visible columns of m.
func FromModel(m *table.Model, title string) Table {
	cols := m.VisibleColumns()
	out := Table{
		Title:      title,
		Columns:    make([]string, len(cols)),
		Rows:       make([]Row, 0, m.DataRowCount()),
		Aggregates: make([]Aggregate, 0, len(m.Aggregates())),
	}
	for i, col := range cols {
		out.Columns[i] = m.ColumnName(col)
	}
	for row := 0; row < m.DataRowCount(); row++ {
		r := Row{Cells: make([]any, len(cols))}
		if p, err := m.PacketAt(row); err == nil {
			r.Line = p.LineIndex()
		}
		for i, col := range cols {
			r.Cells[i], _ = m.CellValue(row, col)
		}
		out.Rows = append(out.Rows, r)
	}
	for _, a := range m.Aggregates() {
		out.Aggregates = append(out.Aggregates, Aggregate{Label: a.Label, Value: a.Value})
	}
	return out
}
