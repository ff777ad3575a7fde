package table

import (
	"fmt"
	"strings"
)

// Column identifies what a table column shows, independent of where it is drawn.
type Column int

const (
	Timestamp Column = iota
	SourceIP
	SourcePort
	DestinationIP
	DestinationPort
	Size

	// NumColumns is the number of columns every table has.
	NumColumns = int(Size) + 1
)

var columnInfo = [NumColumns]struct {
	name string
	key  string
}{
	Timestamp:       {"Timestamp", "timestamp"},
	SourceIP:        {"Source IP", "source_ip"},
	SourcePort:      {"Source Port", "source_port"},
	DestinationIP:   {"Destination IP", "destination_ip"},
	DestinationPort: {"Destination Port", "destination_port"},
	Size:            {"Size", "size"},
}

// String returns the column heading.
func (c Column) String() string {
	if c < 0 || int(c) >= NumColumns {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	return columnInfo[c].name
}

// Key returns the configuration name of the column.
func (c Column) Key() string {
	if c < 0 || int(c) >= NumColumns {
		return ""
	}
	return columnInfo[c].key
}

// ParseColumn maps a configuration name back to a Column.
func ParseColumn(key string) (Column, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	for i, info := range columnInfo {
		if info.key == k {
			return Column(i), nil
		}
	}
	return 0, fmt.Errorf("unknown column %q", key)
}

// layout returns the physical column order. Packets selected by destination
// host put the destination columns first.
func layout(srcHosts bool) [NumColumns]Column {
	if srcHosts {
		return [NumColumns]Column{Timestamp, SourceIP, SourcePort, DestinationIP, DestinationPort, Size}
	}
	return [NumColumns]Column{Timestamp, DestinationIP, DestinationPort, SourceIP, SourcePort, Size}
}
