package trace

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/NeedsSoySauce/Packet-Browser/internal/errors"
)

// Column positions in a trace line.
const (
	ColID           = 0
	ColTimestamp    = 1
	ColSrcIP        = 2
	ColSrcPort      = 3
	ColDestIP       = 4
	ColDestPort     = 5
	ColFrameSize    = 6
	ColIPPacketSize = 7

	// MinColumns is the number of slots every packet carries after padding.
	MinColumns = ColIPPacketSize + 1
	// maxSplit keeps anything past the last known column as one trailing blob.
	maxSplit = MinColumns + 1
)

// Packet is one parsed trace record. The raw columns are the source of truth
// for serialization; typed values are kept in step through setColumn.
type Packet struct {
	fields    []string
	lineIndex int

	id        optInt
	timestamp float64
	hasTime   bool
	src       Host
	dest      Host
	size      optInt
}

type optInt struct {
	v  int
	ok bool
}

// Parse builds a Packet from one tab-delimited line. Empty numeric columns
// are absent. A non-empty id, timestamp, port or size that does not parse
// returns an error matching errors.ErrInvalidRecord.
func Parse(line string) (*Packet, error) {
	fields := strings.SplitN(line, "\t", maxSplit)
	for len(fields) < MinColumns {
		fields = append(fields, "")
	}

	p := &Packet{fields: fields}
	var err error
	if p.id, err = parseOptInt(fields, ColID); err != nil {
		return nil, err
	}
	if p.timestamp, p.hasTime, err = parseOptFloat(fields, ColTimestamp); err != nil {
		return nil, err
	}
	srcPort, err := parseOptInt(fields, ColSrcPort)
	if err != nil {
		return nil, err
	}
	destPort, err := parseOptInt(fields, ColDestPort)
	if err != nil {
		return nil, err
	}
	if p.size, err = parseOptInt(fields, ColIPPacketSize); err != nil {
		return nil, err
	}

	p.src = Host{ip: fields[ColSrcIP], port: srcPort.v, hasPort: srcPort.ok}
	p.dest = Host{ip: fields[ColDestIP], port: destPort.v, hasPort: destPort.ok}
	return p, nil
}

func parseOptInt(fields []string, col int) (optInt, error) {
	s := fields[col]
	if s == "" {
		return optInt{}, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return optInt{}, fmt.Errorf("%w: column %d %q is not an integer", apperrors.ErrInvalidRecord, col, s)
	}
	return optInt{v: v, ok: true}, nil
}

func parseOptFloat(fields []string, col int) (float64, bool, error) {
	s := fields[col]
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: column %d %q is not a number", apperrors.ErrInvalidRecord, col, s)
	}
	return v, true, nil
}

// setColumn is the only writer of fields after parsing.
func (p *Packet) setColumn(col int, value string) {
	p.fields[col] = value
}

// TabDelimited joins the raw columns. For an unedited packet parsed from a
// line with at least MinColumns columns this is the original line.
func (p *Packet) TabDelimited() string {
	return strings.Join(p.fields, "\t")
}

// Fields returns a copy of the raw columns.
func (p *Packet) Fields() []string {
	out := make([]string, len(p.fields))
	copy(out, p.fields)
	return out
}

// LineIndex is the 1-based position of the packet's line in its file.
func (p *Packet) LineIndex() int { return p.lineIndex }

// SetLineIndex records the 1-based source line.
func (p *Packet) SetLineIndex(i int) { p.lineIndex = i }

// ID returns the id column.
func (p *Packet) ID() (int, bool) { return p.id.v, p.id.ok }

// Timestamp returns the capture time in seconds.
func (p *Packet) Timestamp() (float64, bool) { return p.timestamp, p.hasTime }

// SetTimestamp updates the timestamp and its column.
func (p *Packet) SetTimestamp(ts float64) {
	p.timestamp, p.hasTime = ts, true
	p.setColumn(ColTimestamp, strconv.FormatFloat(ts, 'f', -1, 64))
}

// Source returns the source host.
func (p *Packet) Source() Host { return p.src }

// Destination returns the destination host.
func (p *Packet) Destination() Host { return p.dest }

// SetSource replaces the source host and its IP and port columns.
func (p *Packet) SetSource(h Host) {
	p.src = h
	p.setColumn(ColSrcIP, h.ip)
	p.setColumn(ColSrcPort, formatOptInt(h.port, h.hasPort))
}

// SetDestination replaces the destination host and its IP and port columns.
func (p *Packet) SetDestination(h Host) {
	p.dest = h
	p.setColumn(ColDestIP, h.ip)
	p.setColumn(ColDestPort, formatOptInt(h.port, h.hasPort))
}

// IPPacketSize returns the IP packet size in bytes.
func (p *Packet) IPPacketSize() (int, bool) { return p.size.v, p.size.ok }

// SetIPPacketSize updates the size and its column.
func (p *Packet) SetIPPacketSize(size int) {
	p.size = optInt{v: size, ok: true}
	p.setColumn(ColIPPacketSize, strconv.Itoa(size))
}

func formatOptInt(v int, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.Itoa(v)
}

func (p *Packet) String() string {
	size := "-"
	if p.size.ok {
		size = strconv.Itoa(p.size.v)
	}
	return fmt.Sprintf("src=%s, dest=%s, timestamp=%.2f, size=%s", p.src, p.dest, p.timestamp, size)
}
