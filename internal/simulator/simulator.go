// Package simulator indexes the packets of one trace file and answers the
// host, port and flow queries that populate the table view.
//
// A Simulator is built once per load and never updated incrementally. It has
// no internal locking; callers must not run queries concurrently with each
// other or with edits to the packets it returns.
package simulator

import (
	"fmt"
	"slices"

	apperrors "github.com/NeedsSoySauce/Packet-Browser/internal/errors"
	"github.com/NeedsSoySauce/Packet-Browser/internal/trace"
	"github.com/NeedsSoySauce/Packet-Browser/internal/tracefile"
)

// Side selects which end of a packet a query looks at.
type Side int

const (
	Source Side = iota
	Destination
)

func (s Side) String() string {
	if s == Destination {
		return "destination"
	}
	return "source"
}

func (s Side) host(p *trace.Packet) trace.Host {
	if s == Destination {
		return p.Destination()
	}
	return p.Source()
}

// Stats counts what happened to each line during indexing.
type Stats struct {
	Lines          int `json:"lines"`
	Constructed    int `json:"constructed"`
	InvalidRecords int `json:"invalid_records"`
	InvalidIP      int `json:"invalid_ip"`
	ValidIP        int `json:"valid_ip"`
	ValidPort      int `json:"valid_port"`
}

// ProgressFunc is called as lines are indexed.
type ProgressFunc func(done, total int)

// Option configures New.
type Option func(*options)

type options struct {
	progress ProgressFunc
}

// WithProgress reports indexing progress.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) { o.progress = fn }
}

// Simulator holds the validated packet index for one trace file.
type Simulator struct {
	constructed      []*trace.Packet
	validIPPackets   []*trace.Packet
	validPortPackets []*trace.Packet
	stats            Stats
}

// Load reads path and indexes every line. Read failures match
// errors.ErrFileRead; bad lines are excluded and counted, never returned.
func Load(path string, opts ...Option) (*Simulator, error) {
	doc, err := tracefile.Open(path)
	if err != nil {
		return nil, err
	}
	return New(doc.Lines(), opts...), nil
}

// New indexes lines in order. Line i of the slice becomes line index i+1.
func New(lines []string, opts ...Option) *Simulator {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &Simulator{stats: Stats{Lines: len(lines)}}
	for i, line := range lines {
		s.add(i+1, line)
		if o.progress != nil {
			o.progress(i+1, len(lines))
		}
	}
	return s
}

func (s *Simulator) add(lineIndex int, line string) {
	packet, err := trace.Parse(line)
	if err != nil {
		s.stats.InvalidRecords++
		return
	}
	packet.SetLineIndex(lineIndex)
	s.constructed = append(s.constructed, packet)
	s.stats.Constructed++

	if err := checkIPs(packet); err != nil {
		s.stats.InvalidIP++
		return
	}
	s.validIPPackets = append(s.validIPPackets, packet)
	s.stats.ValidIP++

	_, srcOK := packet.Source().Port()
	_, destOK := packet.Destination().Port()
	if srcOK && destOK {
		s.validPortPackets = append(s.validPortPackets, packet)
		s.stats.ValidPort++
	}
}

func checkIPs(p *trace.Packet) error {
	if !trace.IsValidIPv4(p.Source().IP()) || !trace.IsValidIPv4(p.Destination().IP()) {
		return apperrors.ErrInvalidIPFormat
	}
	return nil
}

// Stats returns the indexing counters.
func (s *Simulator) Stats() Stats { return s.stats }

// Constructed returns every packet that parsed, including those with bad IPs.
func (s *Simulator) Constructed() []*trace.Packet { return slices.Clone(s.constructed) }

// ValidIPPackets returns the packets whose addresses are both valid IPv4, in file order.
func (s *Simulator) ValidIPPackets() []*trace.Packet { return slices.Clone(s.validIPPackets) }

// ValidPortPackets returns the valid-IP packets that also carry both ports, in file order.
func (s *Simulator) ValidPortPackets() []*trace.Packet { return slices.Clone(s.validPortPackets) }

// PacketByLine finds a valid-IP packet by its 1-based source line.
func (s *Simulator) PacketByLine(lineIndex int) (*trace.Packet, error) {
	i, found := slices.BinarySearchFunc(s.validIPPackets, lineIndex, func(p *trace.Packet, line int) int {
		return p.LineIndex() - line
	})
	if !found {
		return nil, fmt.Errorf("%w: no valid packet at line %d", apperrors.ErrIndexOutOfRange, lineIndex)
	}
	return s.validIPPackets[i], nil
}
