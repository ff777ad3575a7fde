// Package table projects a slice of packets into an editable grid.
//
// A Model has one data row per packet followed by a fixed set of aggregate
// rows (sum and mean of the packet size). Only the size cell of a data row is
// editable; an accepted edit writes through to the shared *trace.Packet and
// notifies listeners, which is how edits reach the trace file.
//
// Models are not safe for concurrent use. Build a new Model for every query
// result instead of mutating an existing one.
package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/NeedsSoySauce/Packet-Browser/internal/errors"
	"github.com/NeedsSoySauce/Packet-Browser/internal/trace"
)

// AllColumns marks a Change that covers whole rows.
const AllColumns = -1

// SizePredicate decides whether an edited packet size is acceptable.
type SizePredicate func(size int) bool

// NonNegativeSize accepts zero and up.
func NonNegativeSize(size int) bool { return size >= 0 }

// PositiveSize accepts one and up.
func PositiveSize(size int) bool { return size > 0 }

// Options configures a Model. The zero value shows every column and accepts
// non-negative sizes.
type Options struct {
	Hidden     []Column
	AcceptSize SizePredicate
}

// Change describes the cells that a successful edit touched.
type Change struct {
	FirstRow int
	LastRow  int
	Column   int
}

// Listener is notified after each Change. A returned error is handed back to
// the caller of SetCellValue; the edit itself stays applied.
type Listener func(m *Model, c Change) error

// EditResult tells the caller what SetCellValue did.
type EditResult int

const (
	EditApplied EditResult = iota
	EditUnchanged
	EditRejected
)

func (r EditResult) String() string {
	switch r {
	case EditApplied:
		return "applied"
	case EditUnchanged:
		return "unchanged"
	default:
		return "rejected"
	}
}

// Aggregate is one named summary row.
type Aggregate struct {
	Label string
	Value any
}

// Model is the grid for one query result.
type Model struct {
	packets   []*trace.Packet
	srcHosts  bool
	columns   [NumColumns]Column
	hidden    map[Column]bool
	accept    SizePredicate
	sum       int
	mean      float64
	listeners []Listener
}

// New builds a Model over packets. srcHosts is true when the packets were
// selected by source host or port, which puts the source columns first.
func New(packets []*trace.Packet, srcHosts bool, opts Options) *Model {
	m := &Model{
		packets:  packets,
		srcHosts: srcHosts,
		columns:  layout(srcHosts),
		hidden:   make(map[Column]bool),
		accept:   opts.AcceptSize,
	}
	if m.accept == nil {
		m.accept = NonNegativeSize
	}
	for _, c := range opts.Hidden {
		m.hidden[c] = true
	}
	m.updateAggregates()
	return m
}

// AddListener registers fn for change notifications.
func (m *Model) AddListener(fn Listener) {
	m.listeners = append(m.listeners, fn)
}

// SourceFirst reports the orientation the model was built with.
func (m *Model) SourceFirst() bool { return m.srcHosts }

// DataRowCount is the number of packet rows.
func (m *Model) DataRowCount() int { return len(m.packets) }

// Aggregates returns the summary rows drawn after the data rows.
func (m *Model) Aggregates() []Aggregate {
	return []Aggregate{
		{Label: "Sum", Value: m.sum},
		{Label: "Mean", Value: m.mean},
	}
}

// Sum is the total of all present packet sizes.
func (m *Model) Sum() int { return m.sum }

// Mean is the average of all present packet sizes, or 0 when there are none.
func (m *Model) Mean() float64 { return m.mean }

// RowCount is data rows plus aggregate rows.
func (m *Model) RowCount() int { return len(m.packets) + len(m.Aggregates()) }

// ColumnCount is always NumColumns; hidden columns are still addressable.
func (m *Model) ColumnCount() int { return NumColumns }

// ColumnAt maps a physical column index to what it shows.
func (m *Model) ColumnAt(col int) (Column, error) {
	if col < 0 || col >= NumColumns {
		return 0, fmt.Errorf("%w: column %d", apperrors.ErrIndexOutOfRange, col)
	}
	return m.columns[col], nil
}

// ColumnName returns the heading of a physical column.
func (m *Model) ColumnName(col int) string {
	c, err := m.ColumnAt(col)
	if err != nil {
		return ""
	}
	return c.String()
}

// SizeColumn is the physical index of the packet size column.
func (m *Model) SizeColumn() int { return m.indexOf(Size) }

func (m *Model) indexOf(c Column) int {
	for i, col := range m.columns {
		if col == c {
			return i
		}
	}
	return -1
}

// VisibleColumns returns the physical indexes of the columns to draw.
func (m *Model) VisibleColumns() []int {
	out := make([]int, 0, NumColumns)
	for i, c := range m.columns {
		if !m.hidden[c] {
			out = append(out, i)
		}
	}
	return out
}

// IsAggregateRow reports whether row is one of the trailing summary rows.
func (m *Model) IsAggregateRow(row int) bool {
	return row >= len(m.packets) && row < m.RowCount()
}

// PacketAt returns the packet behind a data row.
func (m *Model) PacketAt(row int) (*trace.Packet, error) {
	if row < 0 || row >= len(m.packets) {
		return nil, fmt.Errorf("%w: data row %d", apperrors.ErrIndexOutOfRange, row)
	}
	return m.packets[row], nil
}

// CellValue returns the typed value of a cell: float64 timestamps, string
// addresses, int ports and sizes, or nil when the value is absent. Aggregate
// rows only have a value in the size column.
func (m *Model) CellValue(row, col int) (any, error) {
	c, err := m.ColumnAt(col)
	if err != nil {
		return nil, err
	}
	if row < 0 || row >= m.RowCount() {
		return nil, fmt.Errorf("%w: row %d", apperrors.ErrIndexOutOfRange, row)
	}
	if row >= len(m.packets) {
		if c != Size {
			return nil, nil
		}
		return m.Aggregates()[row-len(m.packets)].Value, nil
	}

	p := m.packets[row]
	switch c {
	case Timestamp:
		if ts, ok := p.Timestamp(); ok {
			return ts, nil
		}
	case SourceIP:
		return p.Source().IP(), nil
	case DestinationIP:
		return p.Destination().IP(), nil
	case SourcePort:
		if port, ok := p.Source().Port(); ok {
			return port, nil
		}
	case DestinationPort:
		if port, ok := p.Destination().Port(); ok {
			return port, nil
		}
	case Size:
		if size, ok := p.IPPacketSize(); ok {
			return size, nil
		}
	}
	return nil, nil
}

// CellText formats a cell for display. Absent values are empty.
func (m *Model) CellText(row, col int) string {
	v, err := m.CellValue(row, col)
	if err != nil || v == nil {
		return ""
	}
	switch x := v.(type) {
	case float64:
		if m.IsAggregateRow(row) {
			return strconv.FormatFloat(x, 'f', 2, 64)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	}
	return fmt.Sprint(v)
}

// IsEditable is true only for the size cell of a data row.
func (m *Model) IsEditable(row, col int) bool {
	return row >= 0 && row < len(m.packets) && col == m.SizeColumn()
}

// SetCellValue applies an edit typed by the user. Text that is not an
// integer, or that the size predicate rejects, is ignored with
// EditRejected; writing the current value is ignored with EditUnchanged.
// Neither case notifies listeners. On EditApplied the packet, the aggregates
// and then listeners are updated, and any listener errors are returned.
func (m *Model) SetCellValue(row, col int, raw string) (EditResult, error) {
	if row < 0 || row >= m.RowCount() || col < 0 || col >= NumColumns {
		return EditRejected, fmt.Errorf("%w: cell (%d,%d)", apperrors.ErrIndexOutOfRange, row, col)
	}
	if !m.IsEditable(row, col) {
		return EditRejected, nil
	}
	size, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || !m.accept(size) {
		return EditRejected, nil
	}

	p := m.packets[row]
	if current, ok := p.IPPacketSize(); ok && current == size {
		return EditUnchanged, nil
	}
	p.SetIPPacketSize(size)
	m.updateAggregates()

	n := len(m.packets)
	errs := m.fire(Change{FirstRow: row, LastRow: row, Column: col})
	errs = append(errs, m.fire(Change{FirstRow: n, LastRow: n + len(m.Aggregates()) - 1, Column: AllColumns})...)
	return EditApplied, errors.Join(errs...)
}

func (m *Model) fire(c Change) []error {
	var errs []error
	for _, fn := range m.listeners {
		if err := fn(m, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// updateAggregates recomputes from scratch. Packets without a size are
// skipped. The sum saturates at the int range; the mean is accumulated in
// float64.
func (m *Model) updateAggregates() {
	sum, total, count := 0, 0.0, 0
	for _, p := range m.packets {
		if size, ok := p.IPPacketSize(); ok {
			sum = addSaturating(sum, size)
			total += float64(size)
			count++
		}
	}
	m.sum = sum
	m.mean = 0
	if count > 0 {
		m.mean = total / float64(count)
	}
}

func addSaturating(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}
