package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"testing"

	apperrors "github.com/NeedsSoySauce/Packet-Browser/internal/errors"
	"github.com/NeedsSoySauce/Packet-Browser/internal/trace"
)

func packetsWithSizes(t *testing.T, sizes ...string) []*trace.Packet {
	t.Helper()
	out := make([]*trace.Packet, len(sizes))
	for i, size := range sizes {
		line := fmt.Sprintf("%d\t%d.5\t10.0.0.%d\t%d\t192.168.0.1\t80\t74\t%s", i+1, i, i+1, 1000+i, size)
		p, err := trace.Parse(line)
		if err != nil {
			t.Fatalf("Parse(%q): %v", line, err)
		}
		p.SetLineIndex(i + 1)
		out[i] = p
	}
	return out
}

type recorder struct {
	changes []Change
	err     error
}

func (r *recorder) listen(_ *Model, c Change) error {
	r.changes = append(r.changes, c)
	return r.err
}

func TestRowAndColumnCounts(t *testing.T) {
	m := New(packetsWithSizes(t, "10", "20", "30"), true, Options{})
	if m.RowCount() != 5 {
		t.Errorf("RowCount() = %d, want 5", m.RowCount())
	}
	if m.DataRowCount() != 3 {
		t.Errorf("DataRowCount() = %d, want 3", m.DataRowCount())
	}
	if m.ColumnCount() != 6 {
		t.Errorf("ColumnCount() = %d, want 6", m.ColumnCount())
	}

	empty := New(nil, true, Options{})
	if empty.RowCount() != 2 {
		t.Errorf("empty RowCount() = %d, want 2", empty.RowCount())
	}
	if empty.Sum() != 0 || empty.Mean() != 0 {
		t.Errorf("empty aggregates = %d, %v", empty.Sum(), empty.Mean())
	}
}

func TestSumAndMean(t *testing.T) {
	m := New(packetsWithSizes(t, "10", "20", "30"), true, Options{})
	size := m.SizeColumn()

	if v, _ := m.CellValue(3, size); v != 60 {
		t.Errorf("sum cell = %v, want 60", v)
	}
	if v, _ := m.CellValue(4, size); v != 20.0 {
		t.Errorf("mean cell = %v, want 20.0", v)
	}

	res, err := m.SetCellValue(0, size, "40")
	if err != nil || res != EditApplied {
		t.Fatalf("SetCellValue = %v, %v", res, err)
	}
	if v, _ := m.CellValue(3, size); v != 90 {
		t.Errorf("sum cell after edit = %v, want 90", v)
	}
	if v, _ := m.CellValue(4, size); v != 30.0 {
		t.Errorf("mean cell after edit = %v, want 30.0", v)
	}
}

func TestAggregatesSkipAbsentSizes(t *testing.T) {
	m := New(packetsWithSizes(t, "10", "", "30"), true, Options{})
	if m.Sum() != 40 {
		t.Errorf("Sum() = %d, want 40", m.Sum())
	}
	if m.Mean() != 20 {
		t.Errorf("Mean() = %v, want 20", m.Mean())
	}
	if v, _ := m.CellValue(1, m.SizeColumn()); v != nil {
		t.Errorf("absent size cell = %v, want nil", v)
	}
}

func TestAggregateRowsOnlyHaveSize(t *testing.T) {
	m := New(packetsWithSizes(t, "10"), true, Options{})
	for _, row := range []int{1, 2} {
		if !m.IsAggregateRow(row) {
			t.Errorf("row %d should be an aggregate row", row)
		}
		for col := 0; col < NumColumns; col++ {
			v, err := m.CellValue(row, col)
			if err != nil {
				t.Fatalf("CellValue(%d,%d): %v", row, col, err)
			}
			if col != m.SizeColumn() && v != nil {
				t.Errorf("CellValue(%d,%d) = %v, want blank", row, col, v)
			}
		}
	}
	if m.IsAggregateRow(0) {
		t.Error("row 0 is a data row")
	}
	labels := m.Aggregates()
	if labels[0].Label != "Sum" || labels[1].Label != "Mean" {
		t.Errorf("aggregate labels = %+v", labels)
	}
}

func TestCellValuesAndOrientation(t *testing.T) {
	packets := packetsWithSizes(t, "10")

	src := New(packets, true, Options{})
	want := []any{0.5, "10.0.0.1", 1000, "192.168.0.1", 80, 10}
	for col, w := range want {
		if v, _ := src.CellValue(0, col); v != w {
			t.Errorf("source-first CellValue(0,%d) = %v, want %v", col, v, w)
		}
	}
	if src.ColumnName(1) != "Source IP" || src.ColumnName(3) != "Destination IP" {
		t.Errorf("source-first headings = %q, %q", src.ColumnName(1), src.ColumnName(3))
	}

	dest := New(packets, false, Options{})
	want = []any{0.5, "192.168.0.1", 80, "10.0.0.1", 1000, 10}
	for col, w := range want {
		if v, _ := dest.CellValue(0, col); v != w {
			t.Errorf("destination-first CellValue(0,%d) = %v, want %v", col, v, w)
		}
	}
	if dest.ColumnName(1) != "Destination IP" || dest.ColumnName(2) != "Destination Port" {
		t.Errorf("destination-first headings = %q, %q", dest.ColumnName(1), dest.ColumnName(2))
	}
	if dest.SizeColumn() != 5 || src.SizeColumn() != 5 {
		t.Errorf("size column moved: %d, %d", src.SizeColumn(), dest.SizeColumn())
	}
}

func TestCellValueOutOfRange(t *testing.T) {
	m := New(packetsWithSizes(t, "10"), true, Options{})
	for _, rc := range [][2]int{{-1, 0}, {3, 0}, {0, -1}, {0, 6}} {
		if _, err := m.CellValue(rc[0], rc[1]); !errors.Is(err, apperrors.ErrIndexOutOfRange) {
			t.Errorf("CellValue(%d,%d) err = %v, want ErrIndexOutOfRange", rc[0], rc[1], err)
		}
	}
}

func TestIsEditable(t *testing.T) {
	m := New(packetsWithSizes(t, "10", "20"), true, Options{})
	size := m.SizeColumn()
	for row := 0; row < m.RowCount(); row++ {
		for col := 0; col < NumColumns; col++ {
			want := row < 2 && col == size
			if got := m.IsEditable(row, col); got != want {
				t.Errorf("IsEditable(%d,%d) = %v, want %v", row, col, got, want)
			}
		}
	}
}

func TestSetCellValueRejects(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		row   int
		col   int
		input string
	}{
		{"not a number", Options{}, 0, 5, "abc"},
		{"float", Options{}, 0, 5, "1.5"},
		{"empty", Options{}, 0, 5, "   "},
		{"negative", Options{}, 0, 5, "-1"},
		{"zero under positive policy", Options{AcceptSize: PositiveSize}, 0, 5, "0"},
		{"read-only column", Options{}, 0, 1, "5"},
		{"sum row", Options{}, 2, 5, "5"},
		{"mean row", Options{}, 3, 5, "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packets := packetsWithSizes(t, "10", "20")
			m := New(packets, true, tt.opts)
			rec := &recorder{}
			m.AddListener(rec.listen)

			res, err := m.SetCellValue(tt.row, tt.col, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res != EditRejected {
				t.Errorf("result = %v, want rejected", res)
			}
			if len(rec.changes) != 0 {
				t.Errorf("listener called %d times", len(rec.changes))
			}
			if size, _ := packets[0].IPPacketSize(); size != 10 {
				t.Errorf("packet size changed to %d", size)
			}
			if m.Sum() != 30 {
				t.Errorf("Sum() = %d, want 30", m.Sum())
			}
		})
	}
}

func TestSetCellValueAcceptsZeroByDefault(t *testing.T) {
	m := New(packetsWithSizes(t, "10"), true, Options{})
	res, err := m.SetCellValue(0, m.SizeColumn(), " 0 ")
	if err != nil || res != EditApplied {
		t.Fatalf("SetCellValue = %v, %v", res, err)
	}
	if m.Sum() != 0 {
		t.Errorf("Sum() = %d, want 0", m.Sum())
	}
}

func TestSetCellValueOutOfRange(t *testing.T) {
	m := New(packetsWithSizes(t, "10"), true, Options{})
	if _, err := m.SetCellValue(5, m.SizeColumn(), "1"); !errors.Is(err, apperrors.ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestSetCellValueNotifiesOnce(t *testing.T) {
	packets := packetsWithSizes(t, "10", "20", "30")
	m := New(packets, true, Options{})
	rec := &recorder{}
	m.AddListener(rec.listen)
	size := m.SizeColumn()

	if res, _ := m.SetCellValue(1, size, "150"); res != EditApplied {
		t.Fatalf("first edit = %v", res)
	}
	if res, _ := m.SetCellValue(1, size, "150"); res != EditUnchanged {
		t.Fatalf("second edit = %v, want unchanged", res)
	}

	want := []Change{
		{FirstRow: 1, LastRow: 1, Column: size},
		{FirstRow: 3, LastRow: 4, Column: AllColumns},
	}
	if len(rec.changes) != len(want) {
		t.Fatalf("changes = %+v, want %+v", rec.changes, want)
	}
	for i := range want {
		if rec.changes[i] != want[i] {
			t.Errorf("change %d = %+v, want %+v", i, rec.changes[i], want[i])
		}
	}

	if got := packets[1].TabDelimited(); got != "2\t1.5\t10.0.0.2\t1001\t192.168.0.1\t80\t74\t150" {
		t.Errorf("packet not written through: %q", got)
	}
}

func TestSetCellValueKeepsEditOnListenerError(t *testing.T) {
	m := New(packetsWithSizes(t, "10"), true, Options{})
	rec := &recorder{err: apperrors.ErrFileWrite}
	m.AddListener(rec.listen)

	res, err := m.SetCellValue(0, m.SizeColumn(), "99")
	if res != EditApplied {
		t.Errorf("result = %v, want applied", res)
	}
	if !errors.Is(err, apperrors.ErrFileWrite) {
		t.Errorf("err = %v, want ErrFileWrite", err)
	}
	if v, _ := m.CellValue(0, m.SizeColumn()); v != 99 {
		t.Errorf("edit rolled back, size = %v", v)
	}
}

func TestVisibleColumns(t *testing.T) {
	m := New(nil, false, Options{Hidden: []Column{Timestamp, SourcePort}})
	got := m.VisibleColumns()
	want := []int{1, 2, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("VisibleColumns() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("VisibleColumns() = %v, want %v", got, want)
		}
	}
}

func TestCellText(t *testing.T) {
	m := New(packetsWithSizes(t, "10", "", "25"), true, Options{})
	size := m.SizeColumn()
	tests := []struct {
		row, col int
		want     string
	}{
		{0, 0, "0.5"},
		{0, 1, "10.0.0.1"},
		{0, size, "10"},
		{1, size, ""},
		{3, size, "35"},
		{4, size, "17.50"},
		{4, 0, ""},
		{9, 0, ""},
	}
	for _, tt := range tests {
		if got := m.CellText(tt.row, tt.col); got != tt.want {
			t.Errorf("CellText(%d,%d) = %q, want %q", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestParseColumn(t *testing.T) {
	for c := Column(0); int(c) < NumColumns; c++ {
		got, err := ParseColumn(c.Key())
		if err != nil || got != c {
			t.Errorf("ParseColumn(%q) = %v, %v", c.Key(), got, err)
		}
	}
	if _, err := ParseColumn("ttl"); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestSumSaturates(t *testing.T) {
	m := New(packetsWithSizes(t, "10", "20", "30"), true, Options{})
	size := m.SizeColumn()
	huge := strconv.Itoa(math.MaxInt)
	for _, row := range []int{0, 1} {
		if res, err := m.SetCellValue(row, size, huge); err != nil || res != EditApplied {
			t.Fatalf("SetCellValue(%d) = %v, %v", row, res, err)
		}
	}
	if m.Sum() != math.MaxInt {
		t.Errorf("Sum() = %d, want MaxInt", m.Sum())
	}
	maxInt := math.MaxInt
	want := (float64(maxInt) + float64(maxInt) + 30) / 3
	if m.Mean() != want {
		t.Errorf("Mean() = %v, want %v", m.Mean(), want)
	}

	if res, _ := m.SetCellValue(1, size, "20"); res != EditApplied {
		t.Fatalf("SetCellValue back to 20 = %v", res)
	}
	if m.Sum() != math.MaxInt {
		t.Errorf("Sum() = %d, want MaxInt", m.Sum())
	}
	if res, _ := m.SetCellValue(0, size, "10"); res != EditApplied {
		t.Fatalf("SetCellValue back to 10 = %v", res)
	}
	if m.Sum() != 60 {
		t.Errorf("Sum() = %d, want 60", m.Sum())
	}
}

func TestAddSaturating(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{1, 2, 3},
		{math.MaxInt, 1, math.MaxInt},
		{math.MaxInt - 1, 1, math.MaxInt},
		{math.MinInt, -1, math.MinInt},
		{math.MaxInt, math.MinInt, -1},
		{-5, 3, -2},
	}
	for _, tt := range tests {
		if got := addSaturating(tt.a, tt.b); got != tt.want {
			t.Errorf("addSaturating(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
